package flip

import (
	"math"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
)

// scalarAt reads a cell-centered value, honoring the grid's
// active/filled/background precedence exactly as Get's contract
// describes (§3): active wins, then filled, then background.
func scalarAt(g grid.Grid[float64], c grid.Coord) float64 {
	v, active, filled := g.Get(c)
	if active {
		return *v
	}
	if filled {
		return g.Fill()
	}
	return g.Background()
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// addPos, subPos, scalePos and dotPos are the small vector-arithmetic
// helpers every particle-position/velocity operation in this package
// shares; hashgrid.Position doubles as a plain 3-vector since it is just a
// [3]float64 under the hood.
func addPos(a, b hashgrid.Position) hashgrid.Position {
	return hashgrid.Position{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func subPos(a, b hashgrid.Position) hashgrid.Position {
	return hashgrid.Position{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func scalePos(a hashgrid.Position, s float64) hashgrid.Position {
	return hashgrid.Position{a[0] * s, a[1] * s, a[2] * s}
}

func dotPos(a, b hashgrid.Position) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func normPos(a hashgrid.Position) float64 {
	return math.Sqrt(dotPos(a, a))
}

// vecToPos and posToVec convert between hashgrid.Position and the [3]float64
// array the MAC-utility collaborator interface and Particle.Velocity use;
// both are the same underlying layout, just named differently by package.
func vecToPos(v [3]float64) hashgrid.Position { return hashgrid.Position(v) }
func posToVec(p hashgrid.Position) [3]float64 { return [3]float64(p) }

// axisValue and withAxis read/replace one coordinate component by axis
// index, mirroring the identical unexported helpers in package mac and
// package hashgrid — duplicated rather than exported across package
// boundaries for three small functions.
func axisValueF(c grid.Coord, axis int) int32 {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

func withAxisF(c grid.Coord, axis int, v int32) grid.Coord {
	switch axis {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	default:
		c.Z = v
	}
	return c
}
