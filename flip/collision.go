package flip

import (
	"math"

	"github.com/pthm-cable/flipgrid/grid"
)

// Collide implements §4.6.11: particles whose signed solid-distance is
// less than their radius are pushed along ∇φ_solid by the overshoot and
// have the inward component of their velocity zeroed; domain bounds are
// additionally clamped. Then the fluid level-set is intersected with the
// complement of the dilated solid so the fluid surface never leaks into
// it: φ_fluid = max(φ_fluid, −φ_solid − √N·Δx).
func (c *Core) Collide() {
	for i := range c.Particles.Particles {
		p := &c.Particles.Particles[i]
		phi := c.Collab.Util.SampleScalar(c.Solid, c.Dx, p.Position)
		if phi < p.Radius {
			grad := c.Collab.Util.GradientScalar(c.Solid, c.Dx, p.Position)
			gn := normPos(grad)
			if gn > 1e-12 {
				unit := scalePos(grad, 1/gn)
				overshoot := p.Radius - phi
				p.Position = addPos(p.Position, scalePos(unit, overshoot))
				vn := dotPos(vecToPos(p.Velocity), unit)
				if vn < 0 {
					p.Velocity = posToVec(subPos(vecToPos(p.Velocity), scalePos(unit, vn)))
				}
			}
		}
		p.Position = c.clampToDomain(p.Position, p.Radius)
	}
	c.clipFluidAgainstSolid()
}

// clampToDomain keeps p at least radius away from the domain boundary
// along every axis.
func (c *Core) clampToDomain(p [3]float64, radius float64) [3]float64 {
	lo := radius
	hiX := float64(c.Shape.X)*c.Dx - radius
	hiY := float64(c.Shape.Y)*c.Dx - radius
	p[0] = clampRange(p[0], lo, hiX)
	p[1] = clampRange(p[1], lo, hiY)
	if c.Shape.Dims == grid.Dims3 {
		hiZ := float64(c.Shape.Z)*c.Dx - radius
		p[2] = clampRange(p[2], lo, hiZ)
	}
	return p
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clipFluidAgainstSolid applies φ_fluid = max(φ_fluid, −φ_solid − √N·Δx)
// cell by cell. This reads both grids at integer cell coordinates only, so
// it needs no fractional-coordinate interpolation.
func (c *Core) clipFluidAgainstSolid() {
	margin := math.Sqrt(float64(c.Dims)) * c.Dx
	c.Fluid.SerialAll(func(cell grid.Coord, v *float64, active, filled bool) {
		solidV := scalarAt(c.Solid, cell)
		limit := -solidV - margin
		cur := c.Fluid.Background()
		switch {
		case active:
			cur = *v
		case filled:
			cur = c.Fluid.Fill()
		}
		if limit > cur {
			c.Fluid.Set(cell, func(p *float64, a *bool) { *p = limit; *a = true })
		}
	})
}
