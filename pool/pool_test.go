package pool

import (
	"sync"
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
)

func allocDense(shape grid.Shape) func() grid.Grid[int] {
	return func() grid.Grid[int] { return grid.New[int](shape, grid.Options{Backend: grid.BackendDense}) }
}

func TestBorrowAllocatesWhenPoolEmpty(t *testing.T) {
	p := New()
	shape := grid.NewShape2(4, 4)
	g := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))
	if g == nil {
		t.Fatal("Borrow returned nil")
	}
}

func TestReturnThenBorrowReusesSameInstance(t *testing.T) {
	p := New()
	shape := grid.NewShape2(4, 4)
	g1 := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))
	g1.Set(grid.At(1, 1), func(v *int, a *bool) { *v = 42; *a = true })

	Return[int](p, g1)
	g2 := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))

	if identityOf[int](g1) != identityOf[int](g2) {
		t.Fatal("expected the returned instance to be reused")
	}
	if _, active, _ := g2.Get(grid.At(1, 1)); active {
		t.Error("reused instance should be cleared back to background")
	}
}

func TestReturnThenBorrowClearsFilledBits(t *testing.T) {
	shape := grid.NewShape2(5, 1)
	allocLevelSet := func() grid.Grid[float64] {
		return grid.NewLevelSet(shape, 3, grid.Options{Backend: grid.BackendDense, TileSize: 4})
	}

	p := New()
	g1 := Borrow[float64](p, shape, grid.BackendDense, allocLevelSet)
	g1.Set(grid.At(0, 0), func(v *float64, a *bool) { *v = -1; *a = true })
	g1.FloodFill()
	if _, _, filled := g1.Get(grid.At(1, 0)); !filled {
		t.Fatal("setup: expected cell 1 to be filled before returning to the pool")
	}

	Return[float64](p, g1)
	g2 := Borrow[float64](p, shape, grid.BackendDense, allocLevelSet)

	if identityOf[float64](g1) != identityOf[float64](g2) {
		t.Fatal("expected the returned instance to be reused")
	}
	shape.Iterate(func(c grid.Coord) bool {
		if _, _, filled := g2.Get(c); filled {
			t.Errorf("reused instance should have no stale filled cells, got filled=true at %v", c)
		}
		return false
	})
}

func TestBorrowWithMismatchedKeyDoesNotReuse(t *testing.T) {
	p := New()
	shapeA := grid.NewShape2(4, 4)
	shapeB := grid.NewShape2(5, 5)

	g1 := Borrow[int](p, shapeA, grid.BackendDense, allocDense(shapeA))
	Return[int](p, g1)

	g2 := Borrow[int](p, shapeB, grid.BackendDense, allocDense(shapeB))
	if identityOf[int](g1) == identityOf[int](g2) {
		t.Fatal("a mismatched shape must not reuse the idle instance")
	}
}

func TestReturnOfUnknownPointerIsIgnored(t *testing.T) {
	p := New()
	shape := grid.NewShape2(4, 4)
	stray := grid.New[int](shape, grid.Options{Backend: grid.BackendDense})

	Return[int](p, stray) // must not panic

	g := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))
	if identityOf[int](g) == identityOf[int](stray) {
		t.Error("an untracked grid must not be absorbed into the pool's idle list")
	}
}

func TestClearEmptiesIdleInstances(t *testing.T) {
	p := New()
	shape := grid.NewShape2(4, 4)
	g1 := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))
	Return[int](p, g1)

	p.Clear()

	g2 := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))
	if identityOf[int](g1) == identityOf[int](g2) {
		t.Error("Clear should drop idle instances so the next Borrow allocates fresh")
	}
}

func TestConcurrentBorrowsNeverShareAnInstance(t *testing.T) {
	// §8 "Shared pool disjointness".
	p := New()
	shape := grid.NewShape2(8, 8)

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := map[uintptr]bool{}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := Borrow[int](p, shape, grid.BackendDense, allocDense(shape))
			id := identityOf[int](g)
			mu.Lock()
			if seen[id] {
				t.Error("two concurrent borrows returned the same instance")
			}
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
}
