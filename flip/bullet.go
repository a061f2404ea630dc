package flip

import (
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/telemetry"
)

// UpdateBullets implements §4.6.8: after each advection step, particles
// that left the fluid (φ(p) > 0) are promoted to ballistic, particles that
// re-entered are demoted back to normal, and existing bullets decay
// linearly in mass and radius over BulletMaximalTime until removed.
func (c *Core) UpdateBullets(dt float64, stats *telemetry.FrameStats) {
	radius := seedRadius(c.Dx)

	for i := 0; i < len(c.Particles.Particles); {
		p := &c.Particles.Particles[i]
		phi := c.Collab.Util.SampleScalar(c.Fluid, c.Dx, p.Position)

		switch {
		case !p.Bullet && phi > 0:
			p.Bullet = true
			p.BulletTime = 0
			p.C = [3]hashgrid.Position{}
			p.SizingValue = scalarAt(c.Sizing, c.Hash.CellOf(p.Position))
			if stats != nil {
				stats.Promoted++
			}
		case p.Bullet && phi <= 0:
			p.Bullet = false
			p.BulletTime = 0
			p.Mass = seedMass
			p.Radius = radius
			p.Velocity = c.Collab.Util.InterpolateVelocity(c.Velocity, c.Dx, p.Position)
			p.C = [3]hashgrid.Position{}
		}

		if p.Bullet {
			p.BulletTime += dt
			frac := 1 - p.BulletTime/c.Cfg.FLIP.BulletMaximalTime
			if frac <= 0 {
				c.Particles.RemoveAt(i)
				if stats != nil {
					stats.Decayed++
				}
				continue // swap-remove brought a new particle into slot i
			}
			p.Mass = seedMass * frac
			p.Radius = radius * frac
		}
		i++
	}
}
