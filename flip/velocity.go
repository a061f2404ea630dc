package flip

import "github.com/pthm-cable/flipgrid/hashgrid"

// UpdateVelocities implements §4.6.10: given the previous and new MAC
// velocities (c.PrevVelocity and c.Velocity) and the PIC/FLIP blend alpha,
// pull grid velocity back onto every particle. APIC particles also
// recompute their per-axis affine gradient; bullets integrate purely
// ballistically (v += dt·g) instead.
func (c *Core) UpdateVelocities(dt float64) {
	alpha := c.Cfg.FLIP.PICFLIP
	apic := c.Cfg.FLIP.APIC

	for i := range c.Particles.Particles {
		p := &c.Particles.Particles[i]
		if p.Bullet {
			p.Velocity[0] += dt * c.Gravity[0]
			p.Velocity[1] += dt * c.Gravity[1]
			if c.Dims == 3 {
				p.Velocity[2] += dt * c.Gravity[2]
			}
			continue
		}

		newV := c.Collab.Util.InterpolateVelocity(c.Velocity, c.Dx, p.Position)
		if apic {
			p.Velocity = newV
			p.C = c.velocityGradient(p.Position)
			continue
		}

		oldV := c.Collab.Util.InterpolateVelocity(c.PrevVelocity, c.Dx, p.Position)
		var blended [3]float64
		for d := 0; d < 3; d++ {
			flip := p.Velocity[d] + newV[d] - oldV[d]
			blended[d] = alpha*flip + (1-alpha)*newV[d]
		}
		p.Velocity = blended
	}
}

// velocityGradient samples the velocity Jacobian at p and repacks it as the
// per-axis affine vectors APIC stores (§9: "c[d] are separately stored per
// axis, not as a flattened N×N matrix"): row d of the Jacobian is the
// gradient of velocity component d, which is exactly C[d].
func (c *Core) velocityGradient(p hashgrid.Position) [3]hashgrid.Position {
	jac := c.Collab.Util.VelocityJacobian(c.Velocity, c.Dx, p)
	var out [3]hashgrid.Position
	for d := 0; d < 3; d++ {
		out[d] = hashgrid.Position{jac[d][0], jac[d][1], jac[d][2]}
	}
	return out
}
