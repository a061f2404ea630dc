package flip

import (
	"math"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/hashgrid"
	"github.com/pthm-cable/flipgrid/telemetry"
)

// seedMass and seedRadius are the constant per-particle mass and radius
// §4.6.2 specifies for every seeded (and reseeded, §4.6.9) particle:
// "mass = 1/8, radius = Δx/4". Bullet decay (§4.6.8) decays from these same
// constants rather than from a per-particle recorded original, since every
// non-bullet particle shares them.
const seedMass = 1.0 / 8.0

func seedRadius(dx float64) float64 { return dx / 4 }

// jitterOffsets3D are the 8 quarter-cell corner offsets §4.6.2 seeds in 3D;
// jitterOffsets2D are the 4 used in 2D (z left at zero and ignored).
var jitterOffsets3D = [8]hashgrid.Position{
	{-0.25, -0.25, -0.25}, {0.25, -0.25, -0.25},
	{-0.25, 0.25, -0.25}, {0.25, 0.25, -0.25},
	{-0.25, -0.25, 0.25}, {0.25, -0.25, 0.25},
	{-0.25, 0.25, 0.25}, {0.25, 0.25, 0.25},
}

var jitterOffsets2D = [4]hashgrid.Position{
	{-0.25, -0.25, 0}, {0.25, -0.25, 0},
	{-0.25, 0.25, 0}, {0.25, 0.25, 0},
}

// jitterOffsets returns the sub-cell offsets (scaled by dx) §4.6.2 and
// §4.6.9 both seed at, for the core's dimensionality.
func (c *Core) jitterOffsets() []hashgrid.Position {
	var base []hashgrid.Position
	if c.Dims == 3 {
		base = jitterOffsets3D[:]
	} else {
		base = jitterOffsets2D[:]
	}
	out := make([]hashgrid.Position, len(base))
	for i, o := range base {
		out[i] = scalePos(o, c.Dx)
	}
	return out
}

// cellCenter returns the world-space position of cell c's center.
func (c *Core) cellCenter(cell grid.Coord) hashgrid.Position {
	return hashgrid.Position{
		(float64(cell.X) + 0.5) * c.Dx,
		(float64(cell.Y) + 0.5) * c.Dx,
		(float64(cell.Z) + 0.5) * c.Dx,
	}
}

// deepInteriorFactor, times Δx, is the level-set depth ("fluid ≤ −1.25Δx") past
// which LooseInterior mode seeds a single centered particle instead of the
// full 2^N corner set (§4.6.2).
const deepInteriorFactor = -1.25

// Seed implements §4.6.2: recompute the narrowband and sizing field, then
// per narrowband cell with nonzero sizing, emit jittered particles seeded
// from the initial MAC velocity, followed by a surface-fit pass.
func (c *Core) Seed(stats *telemetry.FrameStats) {
	c.RecomputeSizing()
	offsets := c.jitterOffsets()
	radius := seedRadius(c.Dx)
	deepThreshold := deepInteriorFactor * c.Dx

	c.Shape.Iterate(func(cell grid.Coord) bool {
		_, inBand, _ := c.Narrowband.Get(cell)
		if !inBand {
			return false
		}
		sizing := scalarAt(c.Sizing, cell)
		if sizing <= 0 {
			return false
		}

		center := c.cellCenter(cell)
		fluidVal := scalarAt(c.Fluid, cell)

		if c.Cfg.FLIP.LooseInterior && fluidVal <= deepThreshold {
			c.seedOne(center, radius, stats)
			return false
		}

		for _, off := range offsets {
			c.seedOne(addPos(center, off), radius, stats)
		}
		return false
	})

	c.fitParticlesToSurface()
	c.rebuildHashGrid()
}

// seedOne adds one particle at p with the given radius, rejecting it
// silently (§7 "seeding into a cell already near the surface and colliding
// with a solid: particle rejected silently") when it lies inside the solid.
func (c *Core) seedOne(p hashgrid.Position, radius float64, stats *telemetry.FrameStats) {
	if c.Collab.Util.SampleScalar(c.Solid, c.Dx, p) < radius {
		if stats != nil {
			stats.Rejected++
		}
		return
	}
	v := c.Collab.Util.InterpolateVelocity(c.Velocity, c.Dx, p)
	c.Particles.Add(Particle{
		Position:         p,
		Velocity:         v,
		Mass:             seedMass,
		Radius:           radius,
		OriginalPosition: p,
	})
	if stats != nil {
		stats.Seeded++
	}
}

// fitParticlesToSurface nudges every particle whose |φ(p)| is within
// FitParticleDist·r of the surface so it ends up just inside it (§4.6.2):
// a few gradient-descent steps toward target φ = −r.
func (c *Core) fitParticlesToSurface() {
	const fitIterations = 3
	fitDist := c.Cfg.FLIP.FitParticleDist
	for i := range c.Particles.Particles {
		p := &c.Particles.Particles[i]
		for step := 0; step < fitIterations; step++ {
			phi := c.Collab.Util.SampleScalar(c.Fluid, c.Dx, p.Position)
			if math.Abs(phi) >= fitDist*p.Radius {
				break
			}
			target := -p.Radius
			grad := c.Collab.Util.GradientScalar(c.Fluid, c.Dx, p.Position)
			p.Position = subPos(p.Position, scalePos(grad, 0.5*(phi-target)))
		}
	}
}
