package flip

import (
	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
)

// Splat implements §4.6.3: fill c.Momentum and c.MassGrid from the current
// particle array. Only face cells whose neighborhood contains at least one
// particle are activated, via dilation of a particle-touched cell mask;
// everywhere else is left inactive so downstream velocity computation
// (a separate module, per §4.6.3) can skip it.
func (c *Core) Splat() {
	c.rebuildHashGrid()

	touched := c.touchedCellMask()
	touched.Dilate(func(_ *struct{}, active *bool) { *active = true }, 1)

	for axis := 0; axis < c.Dims; axis++ {
		c.activateFaces(touched, axis)
		c.splatAxis(axis)
	}
}

// touchedCellMask marks every cell containing at least one particle.
func (c *Core) touchedCellMask() grid.Grid[struct{}] {
	mask := grid.NewBit(c.Shape, grid.BackendDense, grid.Options{})
	for _, p := range c.Particles.Particles {
		cell := c.Hash.CellOf(p.Position)
		mask.Set(cell, func(_ *struct{}, active *bool) { *active = true })
	}
	return mask
}

// activateFaces activates every face of the given axis adjoining a touched
// cell, with a zero payload that splatAxis then fills in.
func (c *Core) activateFaces(touched grid.Grid[struct{}], axis int) {
	momentumAxis := c.Momentum.Axis(axis)
	massAxis := c.MassGrid.Axis(axis)
	faceShape := momentumAxis.Shape()

	faceShape.Iterate(func(f grid.Coord) bool {
		if !c.faceAdjoinsTouched(touched, f, axis) {
			return false
		}
		momentumAxis.Set(f, func(v *float64, active *bool) { *v = 0; *active = true })
		massAxis.Set(f, func(v *float64, active *bool) { *v = 0; *active = true })
		return false
	})
}

// faceAdjoinsTouched reports whether either of the two cells bounding face
// f on axis is marked in touched.
func (c *Core) faceAdjoinsTouched(touched grid.Grid[struct{}], f grid.Coord, axis int) bool {
	hi := axisValueF(f, axis)
	lo := hi - 1
	cellShape := touched.Shape()
	if lo >= 0 {
		if _, active, _ := touched.Get(withAxisF(f, axis, lo)); active {
			return true
		}
	}
	if hiCoord := withAxisF(f, axis, hi); cellShape.InBounds(hiCoord) {
		if _, active, _ := touched.Get(hiCoord); active {
			return true
		}
	}
	return false
}

// faceWorldPos returns the world-space position of face coordinate f on
// axis: f[axis]*dx along axis (it sits on the cell boundary), (c[e]+0.5)*dx
// along every other axis e (it sits at the cell center there).
func (c *Core) faceWorldPos(f grid.Coord, axis int, dx float64) hashgrid.Position {
	var p hashgrid.Position
	for e := 0; e < c.Dims; e++ {
		v := float64(axisValueF(f, e))
		if e != axis {
			v += 0.5
		}
		p[e] = v * dx
	}
	return p
}

// splatAxis accumulates mass and momentum onto every already-activated face
// of the given axis from the particles in its hash-grid neighborhood
// (§4.6.3): m += K·mass, mom += K·mass·v_d, plus the APIC affine term
// K·mass·(c_d · (x_f − p)) when enabled.
func (c *Core) splatAxis(axis int) {
	dx := c.Dx
	momentumAxis := c.Momentum.Axis(axis)
	massAxis := c.MassGrid.Axis(axis)
	apic := c.Cfg.FLIP.APIC

	momentumAxis.Shape().Iterate(func(f grid.Coord) bool {
		if _, active, _ := momentumAxis.Get(f); !active {
			return false
		}
		xf := c.faceWorldPos(f, axis, dx)
		neighbors := c.Hash.GetFaceNeighbors(f, axis)

		var m, mom float64
		for _, idx := range neighbors {
			part := &c.Particles.Particles[idx]
			r := subPos(xf, part.Position)
			w := Kernel(posToVec(r), dx, c.Dims)
			if w <= 0 {
				continue
			}
			m += w * part.Mass
			contribution := part.Velocity[axis]
			if apic {
				contribution += dotPos(part.C[axis], r)
			}
			mom += w * part.Mass * contribution
		}

		massAxis.Set(f, func(v *float64, a *bool) { *v = m; *a = true })
		momentumAxis.Set(f, func(v *float64, a *bool) { *v = mom; *a = true })
		return false
	})
}
