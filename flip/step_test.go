package flip

import (
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
	"github.com/pthm-cable/flipgrid/telemetry"
)

func TestStepEmptyDomainRunsEveryPhase(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)

	stats := &telemetry.FrameStats{}
	solved := false
	c.Step(0.1, stats, func() { solved = true })

	if !solved {
		t.Error("Step should invoke the external solve callback between splat and velocity update")
	}
	if stats.ParticleCount != 0 {
		t.Errorf("ParticleCount = %d, want 0 on an empty domain", stats.ParticleCount)
	}
	if stats.ActiveCells != 0 {
		t.Errorf("ActiveCells = %d, want 0 on a fully-filled domain", stats.ActiveCells)
	}
}

func TestStepNilSolveIsOptional(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)
	c.Step(0.1, nil, nil)
}
