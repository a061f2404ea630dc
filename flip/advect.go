package flip

import "github.com/pthm-cable/flipgrid/hashgrid"

// AdvectParticles implements §4.6.4: integrate every particle by RK-1/2/4
// of MAC-interpolated velocity (configurable order, §6 RK_Order). Ballistic
// particles advance by their own stored velocity instead. The hash grid is
// rebuilt afterward, as the spec requires.
func (c *Core) AdvectParticles(dt float64) {
	for i := range c.Particles.Particles {
		p := &c.Particles.Particles[i]
		if p.Bullet {
			p.Position = addPos(p.Position, scalePos(vecToPos(p.Velocity), dt))
			continue
		}
		p.Position = c.integrateRK(p.Position, dt)
	}
	c.rebuildHashGrid()
}

// sampleVel interpolates the current MAC velocity field at p.
func (c *Core) sampleVel(p hashgrid.Position) hashgrid.Position {
	return vecToPos(c.Collab.Util.InterpolateVelocity(c.Velocity, c.Dx, p))
}

// integrateRK advances position p by dt using c.Cfg.FLIP.RKOrder's scheme.
func (c *Core) integrateRK(p hashgrid.Position, dt float64) hashgrid.Position {
	switch c.Cfg.FLIP.RKOrder {
	case 1:
		v := c.sampleVel(p)
		return addPos(p, scalePos(v, dt))
	case 2:
		k1 := c.sampleVel(p)
		mid := addPos(p, scalePos(k1, dt/2))
		k2 := c.sampleVel(mid)
		return addPos(p, scalePos(k2, dt))
	case 4:
		k1 := c.sampleVel(p)
		k2 := c.sampleVel(addPos(p, scalePos(k1, dt/2)))
		k3 := c.sampleVel(addPos(p, scalePos(k2, dt/2)))
		k4 := c.sampleVel(addPos(p, scalePos(k3, dt)))
		sum := addPos(addPos(k1, scalePos(k2, 2)), addPos(scalePos(k3, 2), k4))
		return addPos(p, scalePos(sum, dt/6))
	default:
		v := c.sampleVel(p)
		return addPos(p, scalePos(v, dt))
	}
}
