package flip

import (
	"math"

	"github.com/pthm-cable/flipgrid/grid"
)

// AdvectLevelSet implements §4.6.6: widen the fluid band, advect it
// through the velocity field, redistance, erode a small margin away from
// solid walls, blend in a particle-rasterized surface weighted by sizing,
// redistance once more and extrapolate across the solid interface. Only
// runs when the domain is not fully filled.
func (c *Core) AdvectLevelSet(dt float64) {
	if c.isFullyFilled() {
		return
	}

	c.widenFluidBand(dt)
	c.Collab.Advector.Advect(c.Fluid, c.Velocity, dt)
	bandWidth := defaultHalfBand * c.Dx
	c.Collab.Redistancer.Redistance(c.Fluid, bandWidth)
	c.erodeFromSolid()

	particleLevelSet := grid.NewLevelSet(c.Shape, bandWidth, grid.Options{Backend: grid.BackendDense})
	c.Collab.Rasterizer.Rasterize(c.Particles.Particles, c.Dims, particleLevelSet)
	c.blendWithParticles(particleLevelSet)

	c.Collab.Redistancer.Redistance(c.Fluid, bandWidth)
	c.Collab.Tracker.ExtrapolateAcrossSolid(c.Fluid, c.Solid)
}

// widenFluidBand dilates the fluid grid's active region by enough cells
// that the coming advection step never clips the narrowband edge: the CFL
// distance a particle can travel this step, plus the half-band width, plus
// a 2-cell safety margin (§4.6.6).
func (c *Core) widenFluidBand(dt float64) {
	maxSpeed := c.Collab.Util.MaxSpeed(c.Velocity)
	count := int(math.Ceil(maxSpeed*dt/c.Dx)) + int(defaultHalfBand) + 2
	if count <= 0 {
		return
	}
	bg := c.Fluid.Background()
	c.Fluid.Dilate(func(payload *float64, active *bool) {
		*active = true
		*payload = bg
	}, count)
}

// erodeFromSolid nudges the fluid level-set toward positive (less liquid)
// near solid walls, by Erosion·Δx (§6 Erosion, default 0.5Δx), so
// particles don't stick to solid boundaries after redistancing.
func (c *Core) erodeFromSolid() {
	amount := c.Cfg.FLIP.Erosion * c.Dx
	if amount <= 0 {
		return
	}
	bandWidth := defaultHalfBand * c.Dx
	c.Fluid.SerialActives(func(cell grid.Coord, v *float64) {
		if scalarAt(c.Solid, cell) > bandWidth {
			return
		}
		*v += amount
	})
}

// blendWithParticles implements φ_new = sizing·min(φ_advected,
// φ_particles) + (1−sizing)·φ_advected (§4.6.6).
func (c *Core) blendWithParticles(particleLevelSet grid.Grid[float64]) {
	c.Fluid.ParallelActives(func(cell grid.Coord, v *float64) {
		sizing := scalarAt(c.Sizing, cell)
		if sizing <= 0 {
			return
		}
		particleVal := scalarAt(particleLevelSet, cell)
		advected := *v
		*v = sizing*math.Min(advected, particleVal) + (1-sizing)*advected
	})
}
