// Package pool implements the shared grid pool (§4.3): a process-wide
// keyed cache that lets transient grids be borrowed instead of
// reallocated. Grounded on the teacher's habit of guarding shared,
// concurrently-accessed state behind a single mutex and explicit
// lifecycle methods rather than sync.Map or a generational GC trick
// (pthm-soup/systems/spatial.go protects its bucket map the same way).
package pool

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/pthm-cable/flipgrid/grid"
)

// key identifies a class of interchangeable grids: shape, payload size,
// back-end family and payload type all have to match for an idle instance
// to be reusable (§4.3).
type key struct {
	shape       grid.Shape
	elementSize int
	backend     grid.Backend
	typ         reflect.Type
}

type entry struct {
	g   any
	ptr uintptr
}

// Pool is a mutex-serialized borrow/return cache with no size cap; it is
// purely a reuse cache, never a source of truth.
type Pool struct {
	mu   sync.Mutex
	idle map[key][]entry
	lent map[uintptr]key
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{
		idle: make(map[key][]entry),
		lent: make(map[uintptr]key),
	}
}

func keyFor[T any](shape grid.Shape, backend grid.Backend) key {
	var zero T
	return key{
		shape:       shape,
		elementSize: int(unsafe.Sizeof(zero)),
		backend:     backend,
		typ:         reflect.TypeOf(zero),
	}
}

func identityOf[T any](g grid.Grid[T]) uintptr {
	v := reflect.ValueOf(g)
	if v.Kind() != reflect.Ptr {
		panic("pool: grid implementation must be a pointer type to support identity tracking")
	}
	return v.Pointer()
}

// Borrow returns an idle instance matching (shape, backend, T) if one is
// idle, cleared back to its background value, or calls alloc to build a
// fresh one otherwise (§4.3). A single instance is never lent out twice at
// once.
func Borrow[T any](p *Pool, shape grid.Shape, backend grid.Backend, alloc func() grid.Grid[T]) grid.Grid[T] {
	k := keyFor[T](shape, backend)

	p.mu.Lock()
	list := p.idle[k]
	if len(list) > 0 {
		e := list[len(list)-1]
		p.idle[k] = list[:len(list)-1]
		p.lent[e.ptr] = k
		p.mu.Unlock()
		g := e.g.(grid.Grid[T])
		clearToBackground(g)
		return g
	}
	p.mu.Unlock()

	g := alloc()
	ptr := identityOf(g)
	p.mu.Lock()
	p.lent[ptr] = k
	p.mu.Unlock()
	return g
}

// Return marks g idle again so a future Borrow with a matching key can
// reuse it. Returning a pointer the pool never lent is silently ignored
// (§7 "pool misuse ... ignored"): the pool's bookkeeping is the only
// defense against a double return, not a panic.
func Return[T any](p *Pool, g grid.Grid[T]) {
	ptr := identityOf(g)

	p.mu.Lock()
	defer p.mu.Unlock()
	k, ok := p.lent[ptr]
	if !ok {
		return
	}
	delete(p.lent, ptr)
	p.idle[k] = append(p.idle[k], entry{g: g, ptr: ptr})
}

// Clear empties the pool's idle instances. Grids currently on loan are
// unaffected; this only drops reuse candidates.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = make(map[key][]entry)
}

// clearToBackground deactivates every active cell and drops any filled
// state so a reused grid reads back exactly as a fresh one would
// (background everywhere, §4.3) — a grid returned after a FloodFill run
// must not hand the next borrower stale filled=true cells. Grid has no
// bulk-reset primitive, so this walks the (typically small) active set
// once per borrow rather than re-zeroing the whole backing store.
func clearToBackground[T any](g grid.Grid[T]) {
	var actives []grid.Coord
	g.SerialActives(func(c grid.Coord, v *T) {
		actives = append(actives, c)
	})
	for _, c := range actives {
		g.Set(c, func(payload *T, active *bool) { *active = false })
	}
	grid.ResetFilled(g)
}
