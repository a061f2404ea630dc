package grid

import "unsafe"

// base holds the fields and generic iteration logic every back-end shares:
// shape/background/fill/fill-mode bookkeeping and the four iteration modes
// that must touch every cell of the shape (SerialAll/ParallelAll/
// SerialInside/ParallelInside and their interruptible serial forms). Those
// four are identical across back-ends because "every cell of the shape"
// already forces an O(product(S)) walk regardless of how sparse the
// back-end's storage is — only the *Actives scans benefit from back-end-
// specific sparsity, so those remain per-backend.
//
// self lets base's methods call back into the concrete back-end's Get/Set
// without each back-end re-implementing the walk; every constructor sets
// self to the grid it just built, right after embedding base.
type base[T any] struct {
	shape    Shape
	bg, fl   T
	fillMode FillMode
	inside   InsideFunc[T]
	driver   Driver
	self     Grid[T]
}

func (b *base[T]) Shape() Shape       { return b.shape }
func (b *base[T]) Background() T      { return b.bg }
func (b *base[T]) Fill() T            { return b.fl }
func (b *base[T]) SetDriver(d Driver) { b.driver = d }

func (b *base[T]) ElementSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (b *base[T]) fillModeOf() FillMode { return b.fillMode }

func (b *base[T]) insideOf(v T) bool {
	if b.inside == nil {
		return false
	}
	return b.inside(v)
}

func (b *base[T]) SerialAll(fn func(c Coord, v *T, active, filled bool)) {
	b.shape.Iterate(func(c Coord) bool {
		v, active, filled := b.self.Get(c)
		fn(c, v, active, filled)
		return false
	})
}

func (b *base[T]) InterruptibleSerialAll(fn func(c Coord, v *T, active, filled bool) bool) {
	b.shape.Iterate(func(c Coord) bool {
		v, active, filled := b.self.Get(c)
		return fn(c, v, active, filled)
	})
}

func (b *base[T]) ParallelAll(fn func(c Coord, v *T, active, filled bool)) {
	b.forEachShapeOrSerial(func(c Coord, _ int) {
		v, active, filled := b.self.Get(c)
		fn(c, v, active, filled)
	})
}

func (b *base[T]) SerialInside(fn func(c Coord, v *T)) {
	b.shape.Iterate(func(c Coord) bool {
		v, _, filled := b.self.Get(c)
		if filled {
			fn(c, v)
		}
		return false
	})
}

func (b *base[T]) InterruptibleSerialInside(fn func(c Coord, v *T) bool) {
	b.shape.Iterate(func(c Coord) bool {
		v, _, filled := b.self.Get(c)
		if filled {
			return fn(c, v)
		}
		return false
	})
}

func (b *base[T]) ParallelInside(fn func(c Coord, v *T)) {
	b.forEachShapeOrSerial(func(c Coord, _ int) {
		v, _, filled := b.self.Get(c)
		if filled {
			fn(c, v)
		}
	})
}

// forEachShapeOrSerial falls back to a serial scan when no driver is installed, so
// every ParallelX method works unconditionally (§5: parallel_* must still
// function without an explicit driver, it just runs on the caller).
func (b *base[T]) forEachShapeOrSerial(fn func(c Coord, workerIndex int)) {
	if b.driver == nil {
		b.shape.Iterate(func(c Coord) bool {
			fn(c, 0)
			return false
		})
		return
	}
	b.driver.ForEachShape(b.shape, fn)
}
