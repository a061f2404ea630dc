package grid

// Driver is the fork-join parallel-execution contract every back-end and
// helper in this package accepts (§4.7). Implementations fan `count`
// independent calls of fn out across a fixed worker pool and block the
// caller until all have completed; fn receives its index and the
// zero-based worker slot it ran on. No ordering between indices is
// guaranteed. A nil Driver means "run serially on the caller's goroutine".
//
// The concrete implementation lives in package parallel; grid only depends
// on this narrow interface so it never imports its own client.
type Driver interface {
	// ForEach invokes fn(i, workerIndex) for i in [0,count), in parallel.
	ForEach(count int, fn func(i, workerIndex int))
	// ForEachShape invokes fn(c, workerIndex) once per cell of s, in
	// parallel, in no particular cross-call order.
	ForEachShape(s Shape, fn func(c Coord, workerIndex int))
	// NumWorkers returns the worker-pool size used to partition work.
	NumWorkers() int
}

// runForEach is the serial fallback used throughout this package when d is
// nil, so every call site reads the same whether or not a driver was
// supplied.
func runForEach(d Driver, count int, fn func(i, workerIndex int)) {
	if d == nil {
		for i := 0; i < count; i++ {
			fn(i, 0)
		}
		return
	}
	d.ForEach(count, fn)
}
