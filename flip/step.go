package flip

import (
	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/telemetry"
)

// Step advances the narrowband-FLIP coupling by one frame of length dt, in
// the order §4.6's subsections describe: splat onto the MAC grid, let the
// caller's external pressure/viscosity/gravity solve turn that into a
// divergence-free velocity (out of scope, §1), pull the result back onto
// particles, advect, handle ballistic promotion/decay, correct
// overlapping positions, resolve solid collisions, reseed the narrowband,
// and finally advect the level-set surface. Mirrors the teacher's one
// phase-per-step Game.Update structure (game/game.go), generalized from a
// hardcoded phase list to this domain's.
//
// solve is the external pressure/viscosity/gravity-integration
// collaborator (§1 Non-goals); it mutates c.Velocity in place from
// c.Momentum/c.MassGrid. It may be nil in tests that only exercise the
// particle-side phases.
func (c *Core) Step(dt float64, stats *telemetry.FrameStats, solve func()) {
	c.copyVelocityToPrev()
	c.Splat()
	if solve != nil {
		solve()
	}
	c.UpdateVelocities(dt)
	c.AdvectParticles(dt)
	c.UpdateBullets(dt, stats)
	c.CorrectPositions()
	c.Collide()
	c.Reseed(stats)
	c.AdvectLevelSet(dt)

	if stats != nil {
		c.populateStats(stats)
	}
}

// copyVelocityToPrev snapshots c.Velocity into c.PrevVelocity before the
// frame's solve overwrites it, so UpdateVelocities's PIC/FLIP blend
// (§4.6.10) can read both.
func (c *Core) copyVelocityToPrev() {
	for d := 0; d < c.Dims; d++ {
		c.PrevVelocity.Axis(d).Copy(c.Velocity.Axis(d), func(dst *float64, src float64) { *dst = src })
	}
}

// populateStats fills the population, speed and mass-total fields of stats
// from the Core's current state, for the mass-conservation testable property
// (§8) and the run-long CSV export (§4.9). MassDrift is not computed here
// and stays zero.
func (c *Core) populateStats(stats *telemetry.FrameStats) {
	bullets := 0
	speeds := make([]float64, 0, len(c.Particles.Particles))
	var particleMass float64
	for _, p := range c.Particles.Particles {
		if p.Bullet {
			bullets++
		}
		particleMass += p.Mass
		speeds = append(speeds, normPos(vecToPos(p.Velocity)))
	}

	var gridMass float64
	for d := 0; d < c.Dims; d++ {
		c.MassGrid.Axis(d).SerialActives(func(_ grid.Coord, v *float64) {
			gridMass += *v
		})
	}

	var filled int
	c.Fluid.SerialInside(func(_ grid.Coord, _ *float64) { filled++ })

	stats.ParticleCount = c.Particles.Count()
	stats.BulletCount = bullets
	stats.ActiveCells = c.Narrowband.Count()
	stats.FilledCells = filled
	stats.TotalParticleMass = particleMass
	stats.TotalGridMass = gridMass
	stats.SpeedMean, stats.SpeedP10, stats.SpeedP50, stats.SpeedP90 = telemetry.ComputeSpeedStats(speeds)
}
