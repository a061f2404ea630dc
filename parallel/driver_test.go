package parallel

import (
	"sync"
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
)

func TestForEachVisitsEveryIndexExactlyOnce(t *testing.T) {
	const n = 997 // prime, deliberately not a multiple of any worker count
	d := New(4)

	var mu sync.Mutex
	seen := make(map[int]int, n)
	d.ForEach(n, func(i, workerIndex int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})

	if len(seen) != n {
		t.Fatalf("visited %d distinct indices, want %d", len(seen), n)
	}
	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d visited %d times, want 1", i, count)
		}
	}
}

func TestForEachRespectsWorkerCount(t *testing.T) {
	d := New(3)
	var mu sync.Mutex
	workers := map[int]bool{}
	d.ForEach(100, func(i, workerIndex int) {
		mu.Lock()
		workers[workerIndex] = true
		mu.Unlock()
	})
	if len(workers) > 3 {
		t.Errorf("observed %d distinct worker indices, want at most 3", len(workers))
	}
}

func TestForEachZeroCountDoesNothing(t *testing.T) {
	d := New(4)
	called := false
	d.ForEach(0, func(i, workerIndex int) { called = true })
	if called {
		t.Error("ForEach(0, ...) invoked fn")
	}
}

func TestForEachShapeMatchesSerialIterate(t *testing.T) {
	shape := grid.NewShape2(17, 13)
	d := New(4)

	var mu sync.Mutex
	fromParallel := map[grid.Coord]bool{}
	d.ForEachShape(shape, func(c grid.Coord, workerIndex int) {
		mu.Lock()
		fromParallel[c] = true
		mu.Unlock()
	})

	count := 0
	shape.Iterate(func(c grid.Coord) bool {
		count++
		if !fromParallel[c] {
			t.Errorf("ForEachShape missed cell %v visited by serial Iterate", c)
		}
		return false
	})
	if len(fromParallel) != count {
		t.Errorf("ForEachShape visited %d cells, serial Iterate visited %d", len(fromParallel), count)
	}
}

func TestNewDefaultsWorkerCountWhenNonPositive(t *testing.T) {
	d := New(0)
	if d.NumWorkers() <= 0 {
		t.Errorf("NumWorkers() = %d, want a positive default", d.NumWorkers())
	}
}

func TestDriverSatisfiesGridDriver(t *testing.T) {
	var _ grid.Driver = New(2)
}
