package flip

import (
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
)

func TestAdvectLevelSetSkipsWhenFullyFilled(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)

	c.AdvectLevelSet(0.1)

	if c.Collab.Advector.(*fakeAdvector).called != 0 {
		t.Error("Advector should not run over a fully-filled (no-surface) domain")
	}
	if c.Collab.Redistancer.(*fakeRedistancer).called != 0 {
		t.Error("Redistancer should not run over a fully-filled (no-surface) domain")
	}
}

func TestAdvectLevelSetRunsCollaboratorsWithSurface(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)
	c.Narrowband.Set(grid.Coord{X: 2, Y: 2}, func(_ *struct{}, a *bool) { *a = true })

	c.AdvectLevelSet(0.1)

	if got := c.Collab.Advector.(*fakeAdvector).called; got != 1 {
		t.Errorf("Advector called %d times, want 1", got)
	}
	if got := c.Collab.Redistancer.(*fakeRedistancer).called; got != 2 {
		t.Errorf("Redistancer called %d times, want 2", got)
	}
	if got := c.Collab.Rasterizer.(*fakeRasterizer).called; got != 1 {
		t.Errorf("Rasterizer called %d times, want 1", got)
	}
	if got := c.Collab.Tracker.(*fakeTracker).called; got != 1 {
		t.Errorf("Tracker called %d times, want 1", got)
	}
}
