package flip

import (
	"math"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/mac"
)

// SizingFunction computes the per-cell sizing field in [0,1] that weights
// particle contribution against level-set contribution (§4.6.7, glossary
// "Sizing function"). ConstantSizing is what plain narrowband-FLIP uses;
// BlurResidualSizing is the extension point's adaptive rule.
type SizingFunction interface {
	Compute(c *Core) grid.Grid[float64]
}

// ConstantSizing gives every narrowband cell the same weight — "plain
// narrowband-FLIP uses constant 1 (no extended adaptivity)" (§4.6.7).
type ConstantSizing struct{ Value float64 }

// Compute implements SizingFunction.
func (s ConstantSizing) Compute(c *Core) grid.Grid[float64] {
	out := grid.New[float64](c.Shape, grid.Options{Backend: grid.BackendDense})
	v := s.Value
	c.Narrowband.SerialActives(func(cell grid.Coord, _ *struct{}) {
		out.Set(cell, func(p *float64, a *bool) { *p = v; *a = true })
	})
	return out
}

// SizingMode selects which residual(s) the extended sizing function reads
// (§6 SizingMode).
type SizingMode string

const (
	SizingModeBoth     SizingMode = "both"
	SizingModeVelocity SizingMode = "velocity"
	SizingModeGeometry SizingMode = "geometry"
)

// BlurResidualSizing implements the extension point described in §4.6.7:
// the magnitude of the difference between a box-blurred velocity field and
// the raw velocity field, plus the local blur residual of the level-set,
// each thresholded and amplified by Amplification, summed, diffused
// DiffuseCount times (each cell pulled toward any neighbor exceeding its
// own value, by DiffuseRate) and clamped to [0,1].
type BlurResidualSizing struct {
	Mode          SizingMode
	BlurRadius    int
	ThresholdU    float64
	ThresholdG    float64
	Amplification float64
	DiffuseCount  int
	DiffuseRate   float64
}

// Compute implements SizingFunction.
func (s BlurResidualSizing) Compute(c *Core) grid.Grid[float64] {
	out := grid.New[float64](c.Shape, grid.Options{Backend: grid.BackendDense})

	var cellVel grid.Grid[mac.Vector]
	wantU := s.Mode == SizingModeBoth || s.Mode == SizingModeVelocity
	wantG := s.Mode == SizingModeBoth || s.Mode == SizingModeGeometry
	if wantU {
		cellVel = mac.ToCellCentered(c.Velocity)
	}

	c.Narrowband.SerialActives(func(cell grid.Coord, _ *struct{}) {
		var val float64
		if wantU {
			raw := 0.0
			if v, active, _ := cellVel.Get(cell); active {
				raw = math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
			}
			blurred := s.blurVelocityMagnitude(cellVel, c.Shape, cell)
			if r := math.Abs(blurred - raw); r > s.ThresholdU {
				val += s.Amplification * (r - s.ThresholdU)
			}
		}
		if wantG {
			raw := scalarAt(c.Fluid, cell)
			blurred := s.blurScalar(c.Fluid, c.Shape, cell)
			if r := math.Abs(blurred - raw); r > s.ThresholdG {
				val += s.Amplification * (r - s.ThresholdG)
			}
		}
		out.Set(cell, func(p *float64, a *bool) { *p = clamp01(val); *a = true })
	})

	s.diffuse(c.Shape, out)
	return out
}

// blurVelocityMagnitude box-blurs the magnitude of the cell-centered
// velocity field around cell, over a (2*radius+1)^dims neighborhood.
func (s BlurResidualSizing) blurVelocityMagnitude(g grid.Grid[mac.Vector], shape grid.Shape, cell grid.Coord) float64 {
	var sum float64
	var n int
	forEachBoxOffset(shape.Dims, s.BlurRadius, func(d grid.Coord) {
		nc := cell.Add(d)
		if !shape.InBounds(nc) {
			return
		}
		v, active, _ := g.Get(nc)
		if !active {
			return
		}
		sum += math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
		n++
	})
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (s BlurResidualSizing) blurScalar(g grid.Grid[float64], shape grid.Shape, cell grid.Coord) float64 {
	var sum float64
	var n int
	forEachBoxOffset(shape.Dims, s.BlurRadius, func(d grid.Coord) {
		nc := cell.Add(d)
		if !shape.InBounds(nc) {
			return
		}
		sum += scalarAt(g, nc)
		n++
	})
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// diffuse spreads the sizing field outward: each cell is pulled toward any
// face-neighbor whose value exceeds its own, by DiffuseRate, for
// DiffuseCount rounds (§4.6.7 "each cell averages with neighbors that
// exceed its value"). Reads happen against the pre-round snapshot so one
// round never lets a cell's update cascade within itself.
func (s BlurResidualSizing) diffuse(shape grid.Shape, g grid.Grid[float64]) {
	for round := 0; round < s.DiffuseCount; round++ {
		updates := map[grid.Coord]float64{}
		g.SerialActives(func(cell grid.Coord, v *float64) {
			own := *v
			best := own
			grid.FaceNeighbors(cell, shape.Dims, func(n grid.Coord) {
				if !shape.InBounds(n) {
					return
				}
				nv, active, _ := g.Get(n)
				if !active || *nv <= own {
					return
				}
				blended := own + s.DiffuseRate*(*nv-own)
				if blended > best {
					best = blended
				}
			})
			if best != own {
				updates[cell] = best
			}
		})
		if len(updates) == 0 {
			return
		}
		for cell, v := range updates {
			val := v
			g.Set(cell, func(p *float64, a *bool) { *p = clamp01(val); *a = true })
		}
	}
}

func forEachBoxOffset(dims grid.Dims, radius int, fn func(d grid.Coord)) {
	r := int32(radius)
	for dz := -r; dz <= r; dz++ {
		if dims == grid.Dims2 && dz != 0 {
			continue
		}
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				fn(grid.Coord{X: dx, Y: dy, Z: dz})
			}
		}
	}
}
