package flip

import "github.com/pthm-cable/flipgrid/grid"

// ComputeNarrowband rebuilds the narrowband mask: cells within
// cfg.FLIP.Narrowband face-hops of the fluid surface (§4.6, glossary
// "Narrowband"). Surface cells (sign change against a face-neighbor) seed
// the mask; Dilate grows it by the remaining hops, matching how flood-fill
// and dilate are both implemented as full recomputes rather than
// incremental updates elsewhere in this codebase.
func (c *Core) ComputeNarrowband() grid.Grid[struct{}] {
	fresh := grid.NewBit(c.Shape, grid.BackendDense, grid.Options{})

	c.Shape.Iterate(func(cell grid.Coord) bool {
		if c.isSurfaceCell(cell) {
			fresh.Set(cell, func(_ *struct{}, active *bool) { *active = true })
		}
		return false
	})

	hops := maxInt(c.Cfg.FLIP.Narrowband-1, 0)
	if hops > 0 {
		fresh.Dilate(func(_ *struct{}, active *bool) { *active = true }, hops)
	}

	c.Narrowband = fresh
	return fresh
}

func (c *Core) isSurfaceCell(cell grid.Coord) bool {
	own := scalarAt(c.Fluid, cell)
	surface := false
	grid.FaceNeighbors(cell, c.Shape.Dims, func(n grid.Coord) {
		if surface || !c.Shape.InBounds(n) {
			return
		}
		if sign(own) != sign(scalarAt(c.Fluid, n)) {
			surface = true
		}
	})
	return surface
}
