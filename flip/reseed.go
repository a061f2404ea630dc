package flip

import (
	"sort"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/telemetry"
)

// Reseed implements §4.6.9: per timestep, enforce [min,max] particle counts
// in narrowband cells with nonzero sizing. Overpopulated cells drop excess
// non-bullet, sufficiently-aged particles; underpopulated cells emit new
// ones at the seeding jitter offsets, skipping candidates too close to an
// existing particle. Particles that have sunk too deep into the solid are
// always removed first.
func (c *Core) Reseed(stats *telemetry.FrameStats) {
	for i := range c.Particles.Particles {
		c.Particles.Particles[i].LiveCount++
	}

	c.rebuildHashGrid()
	c.cullDeepInSolid(stats)
	c.rebuildHashGrid()
	c.dropOverpopulated(stats)
	c.rebuildHashGrid()
	c.fillUnderpopulated(stats)
}

// cullDeepInSolid removes every particle whose solid-distance is less than
// minus its own radius (i.e. sunk deeper than its radius into the solid).
func (c *Core) cullDeepInSolid(stats *telemetry.FrameStats) {
	for i := 0; i < len(c.Particles.Particles); {
		p := &c.Particles.Particles[i]
		solidPhi := c.Collab.Util.SampleScalar(c.Solid, c.Dx, p.Position)
		if solidPhi < -p.Radius {
			c.Particles.RemoveAt(i)
			if stats != nil {
				stats.Culled++
			}
			continue
		}
		i++
	}
}

// dropOverpopulated removes, per narrowband cell over MaxParticlesPerCell,
// enough non-bullet particles aged past MinimalLiveCount to bring the cell
// back to the cap.
func (c *Core) dropOverpopulated(stats *telemetry.FrameStats) {
	maxPer := c.Cfg.FLIP.MaxParticlesPerCell
	minLive := c.Cfg.FLIP.MinimalLiveCount

	toRemove := map[int]struct{}{}
	c.Shape.Iterate(func(cell grid.Coord) bool {
		if !c.isActiveSizingCell(cell) {
			return false
		}
		indices := c.Hash.GetPointsInCell(cell)
		excess := len(indices) - maxPer
		if excess <= 0 {
			return false
		}
		for _, idx := range indices {
			if excess <= 0 {
				break
			}
			p := &c.Particles.Particles[idx]
			if p.Bullet || p.LiveCount < minLive {
				continue
			}
			toRemove[int(idx)] = struct{}{}
			excess--
		}
		return false
	})

	if len(toRemove) == 0 {
		return
	}
	sorted := make([]int, 0, len(toRemove))
	for idx := range toRemove {
		sorted = append(sorted, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, idx := range sorted {
		c.Particles.RemoveAt(idx)
		if stats != nil {
			stats.Culled++
		}
	}
}

// fillUnderpopulated emits new particles, at the same jittered sub-cell
// offsets seeding uses, in every narrowband cell under MinParticlesPerCell,
// skipping candidate positions within 2r of an existing particle.
func (c *Core) fillUnderpopulated(stats *telemetry.FrameStats) {
	minPer := c.Cfg.FLIP.MinParticlesPerCell
	radius := seedRadius(c.Dx)
	offsets := c.jitterOffsets()

	c.Shape.Iterate(func(cell grid.Coord) bool {
		if !c.isActiveSizingCell(cell) {
			return false
		}
		have := len(c.Hash.GetPointsInCell(cell))
		need := minPer - have
		if need <= 0 {
			return false
		}
		center := c.cellCenter(cell)
		for _, off := range offsets {
			if need <= 0 {
				break
			}
			cand := addPos(center, off)
			if c.tooCloseToExisting(cand, radius) {
				continue
			}
			before := c.Particles.Count()
			c.seedOne(cand, radius, nil)
			if c.Particles.Count() > before {
				if stats != nil {
					stats.Reseeded++
				}
				need--
			}
		}
		return false
	})
}

// isActiveSizingCell reports whether cell is in the narrowband with
// nonzero sizing — the population the reseed bounds apply to (§4.6.9).
func (c *Core) isActiveSizingCell(cell grid.Coord) bool {
	_, inBand, _ := c.Narrowband.Get(cell)
	if !inBand {
		return false
	}
	return scalarAt(c.Sizing, cell) > 0
}

// tooCloseToExisting reports whether any particle within cand's hash-grid
// neighborhood lies within 2*radius of it.
func (c *Core) tooCloseToExisting(cand hashgrid.Position, radius float64) bool {
	cell := c.Hash.CellOf(cand)
	for _, idx := range c.Hash.GetCellNeighbors(cell, hashgrid.NeighborFull) {
		p := &c.Particles.Particles[idx]
		if normPos(subPos(cand, p.Position)) <= 2*radius {
			return true
		}
	}
	return false
}
