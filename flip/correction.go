package flip

import "github.com/pthm-cable/flipgrid/hashgrid"

// CorrectPositions implements §4.6.5: for every pair of particles within
// r_i+r_j, push each along their separation with magnitude
// stiff·overlap·m_j/(m_i+m_j). For non-fully-filled domains the correction's
// component along the fluid surface normal is clipped so particles cannot
// climb out of the liquid. When VelocityCorrection is set, the displacement
// is additionally fed into particle velocity through the local velocity
// Jacobian. CorrectDepth restricts which particles participate at all.
func (c *Core) CorrectPositions() {
	band := float64(c.Cfg.FLIP.CorrectDepth) * c.Dx
	stiff := c.Cfg.FLIP.CorrectStiff
	fullyFilled := c.isFullyFilled()

	n := len(c.Particles.Particles)
	displacement := make([]hashgrid.Position, n)
	eligible := make([]bool, n)

	for i := range c.Particles.Particles {
		p := &c.Particles.Particles[i]
		if !c.inCorrectBand(p.Position, band) {
			continue
		}
		eligible[i] = true
		cell := c.Hash.CellOf(p.Position)
		for _, j := range c.Hash.GetCellNeighbors(cell, hashgrid.NeighborFull) {
			if int(j) == i {
				continue
			}
			q := &c.Particles.Particles[j]
			sep := subPos(p.Position, q.Position)
			dist := normPos(sep)
			minDist := p.Radius + q.Radius
			if dist >= minDist || dist < 1e-9 {
				continue
			}
			overlap := minDist - dist
			dir := scalePos(sep, 1/dist)
			mag := stiff * overlap * q.Mass / (p.Mass + q.Mass)
			displacement[i] = addPos(displacement[i], scalePos(dir, mag))
		}
	}

	for i := range c.Particles.Particles {
		if !eligible[i] {
			continue
		}
		p := &c.Particles.Particles[i]
		d := displacement[i]
		if d == (hashgrid.Position{}) {
			continue
		}
		if !fullyFilled {
			d = c.clipAgainstSurface(p.Position, d)
		}
		p.Position = addPos(p.Position, d)
		if c.Cfg.FLIP.VelocityCorrection {
			jac := c.Collab.Util.VelocityJacobian(c.Velocity, c.Dx, p.Position)
			p.Velocity = applyJacobianDelta(p.Velocity, jac, d)
		}
	}
}

// inCorrectBand reports whether p lies within band of the fluid surface
// (§6 CorrectDepth); band<=0 disables the restriction (every particle
// participates).
func (c *Core) inCorrectBand(p hashgrid.Position, band float64) bool {
	if band <= 0 {
		return true
	}
	phi := c.Collab.Util.SampleScalar(c.Fluid, c.Dx, p)
	if phi < 0 {
		phi = -phi
	}
	return phi <= band
}

// clipAgainstSurface removes the component of displacement d along the
// fluid surface's outward gradient at p when that component would push the
// particle toward or past the surface, so correction never lets a particle
// climb out of the liquid (§4.6.5).
func (c *Core) clipAgainstSurface(p hashgrid.Position, d hashgrid.Position) hashgrid.Position {
	grad := c.Collab.Util.GradientScalar(c.Fluid, c.Dx, p)
	gn := normPos(grad)
	if gn < 1e-12 {
		return d
	}
	unit := scalePos(grad, 1/gn)
	normalComp := dotPos(d, unit)
	if normalComp <= 0 {
		return d // already pointing inward (toward negative phi)
	}
	return subPos(d, scalePos(unit, normalComp))
}

// isFullyFilled reports whether the domain currently has no tracked
// surface at all — an empty narrowband means every cell is uniformly on
// one side of the level-set, i.e. the domain is either entirely full or
// entirely empty of fluid, so there is no surface to clip corrections
// against.
func (c *Core) isFullyFilled() bool {
	return c.Narrowband.Count() == 0
}

// applyJacobianDelta feeds a position displacement d through the local
// velocity Jacobian J (∂v_i/∂x_j) so the particle's momentum reflects the
// correction move: dv = J·d (§4.6.5 "VelocityCorrection").
func applyJacobianDelta(v [3]float64, jac [3][3]float64, d hashgrid.Position) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = v[i]
		for j := 0; j < 3; j++ {
			out[i] += jac[i][j] * d[j]
		}
	}
	return out
}
