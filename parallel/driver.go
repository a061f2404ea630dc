// Package parallel provides the concrete fork-join Driver the grid engine
// accepts for its Parallel* scans and for PopCountParallel (§4.7, §5). It
// fans work out across a fixed pool sized from runtime.GOMAXPROCS and
// blocks the caller until every worker finishes, using hand-rolled
// sync.WaitGroup chunking.
package parallel

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/flipgrid/grid"
)

// Driver implements grid.Driver with a fixed-size goroutine fan-out sized
// at construction time (defaulting to runtime.GOMAXPROCS(0)).
type Driver struct {
	numWorkers int
}

// New returns a Driver with the given worker count. A count <= 0 uses
// runtime.GOMAXPROCS(0).
func New(numWorkers int) *Driver {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Driver{numWorkers: numWorkers}
}

// NumWorkers returns the worker-pool size used to partition work.
func (d *Driver) NumWorkers() int { return d.numWorkers }

// ForEach splits [0,count) into d.numWorkers contiguous chunks and runs one
// goroutine per non-empty chunk, blocking until all complete.
func (d *Driver) ForEach(count int, fn func(i, workerIndex int)) {
	if count == 0 {
		return
	}
	chunk := (count + d.numWorkers - 1) / d.numWorkers

	var wg sync.WaitGroup
	for w := 0; w < d.numWorkers; w++ {
		start := w * chunk
		end := start + chunk
		if end > count {
			end = count
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(workerID, i0, i1 int) {
			defer wg.Done()
			for i := i0; i < i1; i++ {
				fn(i, workerID)
			}
		}(w, start, end)
	}
	wg.Wait()
}

// ForEachShape partitions a shape's cells by chunking its linearized
// [0,Count()) range the same way ForEach does, then decoding each index
// back to a coordinate — cheap relative to whatever fn does per cell, and
// keeps the partitioning logic in exactly one place.
func (d *Driver) ForEachShape(s grid.Shape, fn func(c grid.Coord, workerIndex int)) {
	d.ForEach(int(s.Count()), func(i, workerIndex int) {
		fn(s.Decode(int64(i)), workerIndex)
	})
}

var _ grid.Driver = (*Driver)(nil)
