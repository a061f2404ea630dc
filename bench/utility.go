// Package bench provides the scaffolding a runnable scenario needs but the
// core itself does not: a concrete flip.Utility (trilinear interpolation),
// no-op stand-ins for the collaborators a given scenario never reaches, and
// a reusable synthetic scene for seeding a fluid level-set. cmd/flipdemo and
// cmd/tune both build their Core from here instead of duplicating it.
package bench

import (
	"math"

	"github.com/pthm-cable/flipgrid/flip"
	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/mac"
)

// TrilinearUtility is a genuine (if modest) trilinear implementation of the
// MAC utility collaborator (§4.7): §1's "no fractional-coordinate
// interpolation" non-goal keeps this out of the core itself, but something
// has to satisfy flip.Utility for a runnable scenario. Grounded on
// flip/kernel.go's trilinear hat weight, generalized from "weight of one
// particle at one face" to "blend of a field's 2^dims surrounding lattice
// points".
type TrilinearUtility struct{ Dims int }

// cellValue reads g's active/filled/background precedence the same way
// flip.scalarAt does, duplicated here since that helper is unexported
// across the package boundary.
func cellValue(g grid.Grid[float64], c grid.Coord) float64 {
	v, active, filled := g.Get(c)
	if active {
		return *v
	}
	if filled {
		return g.Fill()
	}
	return g.Background()
}

func clampCoord(c grid.Coord, s grid.Shape) grid.Coord {
	c.X = clampAxis32(c.X, s.X)
	c.Y = clampAxis32(c.Y, s.Y)
	if s.Dims == grid.Dims3 {
		c.Z = clampAxis32(c.Z, s.Z)
	} else {
		c.Z = 0
	}
	return c
}

func clampAxis32(v, extent int32) int32 {
	if v < 0 {
		return 0
	}
	if v >= extent {
		return extent - 1
	}
	return v
}

// cornerLattice locates the 2^dims lattice points around p/dx-offset and,
// for each corner i (bit d set selects the far node along axis d), the
// per-axis distance r from p to that corner in world units; every component
// of r is non-negative, so callers that need the direction of a corner read
// it from bit d of i rather than from the sign of r[d]. offset locates
// where index 0 along each axis sits in world space (0.5 for a
// cell-centered scalar grid, 0 for a MAC face grid's own axis and 0.5 for
// its cross axes).
func cornerLattice(dx float64, p hashgrid.Position, offset [3]float64, dims int) (base [3]int32, rOf func(i int) [3]float64) {
	var local [3]float64
	for d := 0; d < dims; d++ {
		coord := p[d]/dx - offset[d]
		b := math.Floor(coord)
		base[d] = int32(b)
		local[d] = coord - b
	}
	rOf = func(i int) [3]float64 {
		var r [3]float64
		for d := 0; d < dims; d++ {
			if i&(1<<uint(d)) != 0 {
				r[d] = (1 - local[d]) * dx
			} else {
				r[d] = local[d] * dx
			}
		}
		return r
	}
	return base, rOf
}

// sampleTrilinear blends the 2^dims lattice points around p via flip.Kernel
// (§4.6.1's hat weight, the same kernel splat.go uses particle-side), rather
// than re-deriving the corner weights by hand.
func sampleTrilinear(g grid.Grid[float64], dx float64, p hashgrid.Position, offset [3]float64, dims int) float64 {
	shape := g.Shape()
	base, rOf := cornerLattice(dx, p, offset, dims)

	var sum float64
	corners := 1 << dims
	for i := 0; i < corners; i++ {
		cc := base
		for d := 0; d < dims; d++ {
			if i&(1<<uint(d)) != 0 {
				cc[d]++
			}
		}
		w := flip.Kernel(rOf(i), dx, dims)
		c := clampCoord(grid.Coord{X: cc[0], Y: cc[1], Z: cc[2]}, shape)
		sum += w * cellValue(g, c)
	}
	return sum
}

// sampleTrilinearGradient is the analytic gradient of sampleTrilinear, built
// from flip.KernelGradient (§4.6.1: "the gradient kernel is used only by
// APIC") instead of finite-differencing the value sample: each corner's
// weight is a hat function of p, so its p-gradient is flip.KernelGradient
// evaluated at that corner's displacement, sign-flipped on the far side of
// each axis (weight increases toward the near node, decreases toward the
// far one).
func sampleTrilinearGradient(g grid.Grid[float64], dx float64, p hashgrid.Position, offset [3]float64, dims int) hashgrid.Position {
	shape := g.Shape()
	base, rOf := cornerLattice(dx, p, offset, dims)

	var grad hashgrid.Position
	corners := 1 << dims
	for i := 0; i < corners; i++ {
		cc := base
		for d := 0; d < dims; d++ {
			if i&(1<<uint(d)) != 0 {
				cc[d]++
			}
		}
		r := rOf(i)
		gw := flip.KernelGradient(r, dx, dims)
		c := clampCoord(grid.Coord{X: cc[0], Y: cc[1], Z: cc[2]}, shape)
		v := cellValue(g, c)
		for d := 0; d < dims; d++ {
			dwdp := gw[d]
			if i&(1<<uint(d)) != 0 {
				dwdp = -dwdp
			}
			grad[d] += v * dwdp
		}
	}
	return grad
}

func scalarOffset() [3]float64 { return [3]float64{0.5, 0.5, 0.5} }

func faceOffset(axis int) [3]float64 {
	o := [3]float64{0.5, 0.5, 0.5}
	o[axis] = 0
	return o
}

func (u TrilinearUtility) MaxSpeed(velocity *mac.Grid[float64]) float64 {
	var maxV float64
	for d := 0; d < velocity.NumAxes(); d++ {
		velocity.Axis(d).SerialActives(func(_ grid.Coord, v *float64) {
			if math.Abs(*v) > maxV {
				maxV = math.Abs(*v)
			}
		})
	}
	return maxV
}

func (u TrilinearUtility) InterpolateVelocity(velocity *mac.Grid[float64], dx float64, p hashgrid.Position) [3]float64 {
	var out [3]float64
	for d := 0; d < velocity.NumAxes(); d++ {
		out[d] = sampleTrilinear(velocity.Axis(d), dx, p, faceOffset(d), u.Dims)
	}
	return out
}

// VelocityJacobian differentiates each axis's InterpolateVelocity analytically
// via sampleTrilinearGradient/flip.KernelGradient, row d holding the gradient
// of velocity component d (§9: "c[d] are separately stored per axis").
func (u TrilinearUtility) VelocityJacobian(velocity *mac.Grid[float64], dx float64, p hashgrid.Position) [3][3]float64 {
	var jac [3][3]float64
	for d := 0; d < velocity.NumAxes(); d++ {
		jac[d] = sampleTrilinearGradient(velocity.Axis(d), dx, p, faceOffset(d), u.Dims)
	}
	return jac
}

func (u TrilinearUtility) SampleScalar(field grid.Grid[float64], dx float64, p hashgrid.Position) float64 {
	return sampleTrilinear(field, dx, p, scalarOffset(), u.Dims)
}

func (u TrilinearUtility) GradientScalar(field grid.Grid[float64], dx float64, p hashgrid.Position) hashgrid.Position {
	return sampleTrilinearGradient(field, dx, p, scalarOffset(), u.Dims)
}
