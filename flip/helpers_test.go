package flip

import (
	"testing"

	"github.com/pthm-cable/flipgrid/config"
	"github.com/pthm-cable/flipgrid/grid"
)

// newTestCore builds a Core over shape/dx with embedded-default config and
// the deterministic fakes from fakes_test.go, the way every flip test wants
// to start: a fresh engine with no solid, no fluid surface and no
// particles, which individual tests then perturb.
func newTestCore(t *testing.T, shape grid.Shape, dx float64) *Core {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return New(shape, dx, cfg, testCollaborators(), 1)
}

// fillAxisConstant activates every face cell of a MAC axis component with
// the same value, for tests that want a uniform velocity field without
// caring which faces a particle happens to touch.
func fillAxisConstant(axis grid.Grid[float64], value float64) {
	axis.Shape().Iterate(func(c grid.Coord) bool {
		v := value
		axis.Set(c, func(p *float64, a *bool) { *p = v; *a = true })
		return false
	})
}

// setAllCells activates every cell of a scalar grid with the same value.
func setAllCells(g grid.Grid[float64], shape grid.Shape, value float64) {
	shape.Iterate(func(c grid.Coord) bool {
		v := value
		g.Set(c, func(p *float64, a *bool) { *p = v; *a = true })
		return false
	})
}
