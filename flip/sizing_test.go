package flip

import (
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
)

func TestConstantSizingCoversExactlyTheNarrowband(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	c := newTestCore(t, shape, 1.0)
	for _, cell := range []grid.Coord{{X: 1, Y: 1}, {X: 2, Y: 2}} {
		cell := cell
		c.Narrowband.Set(cell, func(_ *struct{}, a *bool) { *a = true })
	}

	out := ConstantSizing{Value: 1}.Compute(c)

	if out.Count() != c.Narrowband.Count() {
		t.Errorf("sizing Count() = %d, want narrowband Count() = %d", out.Count(), c.Narrowband.Count())
	}
	c.Narrowband.SerialActives(func(cell grid.Coord, _ *struct{}) {
		v, active, _ := out.Get(cell)
		if !active || *v != 1 {
			t.Errorf("cell %v: sizing = %v, active=%v; want 1, true", cell, v, active)
		}
	})
}

func TestBlurResidualSizingStaysInUnitRange(t *testing.T) {
	shape := grid.NewShape2(6, 6)
	c := newTestCore(t, shape, 1.0)
	for _, cell := range []grid.Coord{{X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 2}} {
		cell := cell
		c.Narrowband.Set(cell, func(_ *struct{}, a *bool) { *a = true })
	}
	c.Fluid.Set(grid.Coord{X: 3, Y: 3}, func(v *float64, a *bool) { *v = -1.5; *a = true })
	fillAxisConstant(c.Velocity.Axis(0), 4.0)

	s := NewSizingFromConfig(c.Cfg)
	out := s.Compute(c)

	c.Narrowband.SerialActives(func(cell grid.Coord, _ *struct{}) {
		v, active, _ := out.Get(cell)
		if !active {
			t.Fatalf("cell %v: sizing not active", cell)
		}
		if *v < 0 || *v > 1 {
			t.Errorf("cell %v: sizing = %v, want within [0,1]", cell, *v)
		}
	})
}
