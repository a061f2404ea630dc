package bench

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/flipgrid/config"
	"github.com/pthm-cable/flipgrid/flip"
	"github.com/pthm-cable/flipgrid/grid"
)

// SphereScene describes the synthetic noise-perturbed sphere that both the
// demo and the tuner drop into a cubic domain (§1: scene loading and
// mesh/image I/O are both out of scope, so every runnable example needs a
// procedural stand-in instead).
type SphereScene struct {
	Cells int
	Dx    float64
	Seed  int64

	RadiusFraction float64 // fraction of the domain width used as the base radius
	Amplitude      float64 // noise displacement, in world units
	Frequency      float64 // noise sample frequency
}

// DefaultSphereScene returns the scene cmd/flipdemo has always used: a
// radius-0.3-of-domain sphere perturbed by low-frequency simplex noise.
func DefaultSphereScene(cells int, dx float64, seed int64) SphereScene {
	return SphereScene{
		Cells:          cells,
		Dx:             dx,
		Seed:           seed,
		RadiusFraction: 0.3,
		Amplitude:      dx * 2,
		Frequency:      4.0,
	}
}

// NewShape returns the cubic grid.Shape the scene is defined over.
func (s SphereScene) NewShape() grid.Shape {
	return grid.NewShape3(s.Cells, s.Cells, s.Cells)
}

// SeedFluid paints the scene's sphere into c.Fluid, the stand-in every
// runnable example uses in place of a real scene loader. Grounded on
// pthm-soup/systems/resource_field.go's opensimplex.New(seed).Eval4 usage,
// generalized here to Eval3 over world-space coordinates.
func (s SphereScene) SeedFluid(c *flip.Core) {
	shape := s.NewShape()
	noise := opensimplex.New(s.Seed)

	cx := float64(shape.X) * s.Dx / 2
	cy := float64(shape.Y) * s.Dx / 2
	cz := float64(shape.Z) * s.Dx / 2
	baseRadius := float64(s.Cells) * s.Dx * s.RadiusFraction

	shape.Iterate(func(cell grid.Coord) bool {
		px := (float64(cell.X) + 0.5) * s.Dx
		py := (float64(cell.Y) + 0.5) * s.Dx
		pz := (float64(cell.Z) + 0.5) * s.Dx

		dx, dy, dz := px-cx, py-cy, pz-cz
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		n := noise.Eval3(px*s.Frequency, py*s.Frequency, pz*s.Frequency)
		phi := dist - (baseRadius + s.Amplitude*n)

		c.Fluid.Set(cell, func(v *float64, a *bool) { *v = phi; *a = true })
		return false
	})
}

// NewCore builds a flip.Core over the scene's shape with cfg and seeds the
// sphere into it, the common setup every scenario-driven command shares.
func (s SphereScene) NewCore(cfg *config.Config) *flip.Core {
	shape := s.NewShape()
	c := flip.New(shape, s.Dx, cfg, Collaborators(grid.NumAxes(shape.Dims)), s.Seed)
	s.SeedFluid(c)
	return c
}
