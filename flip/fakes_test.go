package flip

import (
	"math"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/mac"
)

// fakeUtil is a deterministic, nearest-cell stand-in for the MAC-utility
// collaborator (§4.7): enough to exercise the core's own orchestration and
// arithmetic without pulling in a real trilinear interpolation or
// redistancing implementation, which are out of scope (§1).
type fakeUtil struct{}

func nearestCoord(shape grid.Shape, dx float64, p hashgrid.Position) grid.Coord {
	x := clampIdx(int32(math.Floor(p[0]/dx)), shape.X)
	y := clampIdx(int32(math.Floor(p[1]/dx)), shape.Y)
	var z int32
	if shape.Dims == grid.Dims3 {
		z = clampIdx(int32(math.Floor(p[2]/dx)), shape.Z)
	}
	return grid.Coord{X: x, Y: y, Z: z}
}

func clampIdx(v, extent int32) int32 {
	if extent <= 0 {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v >= extent {
		return extent - 1
	}
	return v
}

func (fakeUtil) MaxSpeed(velocity *mac.Grid[float64]) float64 {
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

func (fakeUtil) InterpolateVelocity(velocity *mac.Grid[float64], dx float64, p hashgrid.Position) [3]float64 {
	var out [3]float64
	for d := 0; d < velocity.NumAxes(); d++ {
		axis := velocity.Axis(d)
		c := nearestCoord(axis.Shape(), dx, p)
		out[d] = scalarAt(axis, c)
	}
	return out
}

func (fakeUtil) VelocityJacobian(velocity *mac.Grid[float64], dx float64, p hashgrid.Position) [3][3]float64 {
	return [3][3]float64{}
}

func (fakeUtil) SampleScalar(field grid.Grid[float64], dx float64, p hashgrid.Position) float64 {
	return scalarAt(field, nearestCoord(field.Shape(), dx, p))
}

func (fakeUtil) GradientScalar(field grid.Grid[float64], dx float64, p hashgrid.Position) hashgrid.Position {
	shape := field.Shape()
	c := nearestCoord(shape, dx, p)
	var g hashgrid.Position
	g[0] = centralDiff(field, shape, c, 0, dx)
	g[1] = centralDiff(field, shape, c, 1, dx)
	if shape.Dims == grid.Dims3 {
		g[2] = centralDiff(field, shape, c, 2, dx)
	}
	return g
}

func centralDiff(field grid.Grid[float64], shape grid.Shape, c grid.Coord, axis int, dx float64) float64 {
	lo, hi := c, c
	switch axis {
	case 0:
		lo.X--
		hi.X++
	case 1:
		lo.Y--
		hi.Y++
	default:
		lo.Z--
		hi.Z++
	}
	loV, hiV := scalarAt(field, c), scalarAt(field, c)
	var n float64
	if shape.InBounds(lo) {
		loV = scalarAt(field, lo)
		n++
	}
	if shape.InBounds(hi) {
		hiV = scalarAt(field, hi)
		n++
	}
	if n == 0 {
		return 0
	}
	return (hiV - loV) / (2 * dx)
}

// fakeAdvector, fakeRedistancer, fakeRasterizer and fakeTracker are no-op
// collaborators that just record invocation counts, for orchestration
// tests (e.g. AdvectLevelSet) that only need to prove the right
// collaborators ran in the right order, not real physics.
type fakeAdvector struct{ called int }

func (f *fakeAdvector) Advect(fluid grid.Grid[float64], velocity *mac.Grid[float64], dt float64) {
	f.called++
}

type fakeRedistancer struct{ called int }

func (f *fakeRedistancer) Redistance(phi grid.Grid[float64], bandWidth float64) { f.called++ }

type fakeRasterizer struct{ called int }

func (f *fakeRasterizer) Rasterize(particles []Particle, dims int, out grid.Grid[float64]) {
	f.called++
}

type fakeTracker struct{ called int }

func (f *fakeTracker) ExtrapolateAcrossSolid(fluid, solid grid.Grid[float64]) { f.called++ }

func testCollaborators() Collaborators {
	return Collaborators{
		Advector:    &fakeAdvector{},
		Redistancer: &fakeRedistancer{},
		Rasterizer:  &fakeRasterizer{},
		Tracker:     &fakeTracker{},
		Util:        fakeUtil{},
	}
}
