package flip

import (
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/telemetry"
)

// markInteriorBlock sets a 2x2 block of fluid cells to a negative (inside)
// value against the default positive (outside) background, giving Seed a
// surface to find a narrowband around.
func markInteriorBlock(c *Core) {
	for _, cell := range []grid.Coord{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 2}} {
		cell := cell
		c.Fluid.Set(cell, func(v *float64, a *bool) { *v = -1; *a = true })
	}
}

func TestSeedPopulatesNarrowband(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)
	markInteriorBlock(c)

	stats := &telemetry.FrameStats{}
	c.Seed(stats)

	if c.Particles.Count() == 0 {
		t.Fatal("Seed produced no particles over a domain with a fluid surface")
	}
	if stats.Seeded != c.Particles.Count() {
		t.Fatalf("stats.Seeded = %d, want %d (no rejections expected)", stats.Seeded, c.Particles.Count())
	}
	if stats.Rejected != 0 {
		t.Fatalf("stats.Rejected = %d, want 0", stats.Rejected)
	}
	for _, p := range c.Particles.Particles {
		if p.Mass != seedMass {
			t.Errorf("particle mass = %v, want %v", p.Mass, seedMass)
		}
		if p.Radius != seedRadius(c.Dx) {
			t.Errorf("particle radius = %v, want %v", p.Radius, seedRadius(c.Dx))
		}
	}
}

func TestSeedRejectsParticlesInsideSolid(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)
	markInteriorBlock(c)
	setAllCells(c.Solid, shape, -10)

	stats := &telemetry.FrameStats{}
	c.Seed(stats)

	if c.Particles.Count() != 0 {
		t.Fatalf("Particles.Count() = %d, want 0 when every candidate is deep inside solid", c.Particles.Count())
	}
	if stats.Rejected == 0 {
		t.Fatal("stats.Rejected = 0, want every seed attempt rejected")
	}
	if stats.Seeded != 0 {
		t.Fatalf("stats.Seeded = %d, want 0", stats.Seeded)
	}
}
