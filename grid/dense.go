package grid

// denseGrid is the dense linear back-end (§4.1.1): one contiguous payload
// buffer of product(S) elements and an active bitmask, both allocated up
// front. O(1) set/get via Shape.Encode. A second filled bitmask is
// allocated lazily, the first time FloodFill or a direct fill-bit write
// touches the grid, since most dense grids are never flood-filled.
type denseGrid[T any] struct {
	base[T]
	payload []T
	active  *bitset
	filled  *bitset
}

func newDenseGrid[T any](shape Shape, bg, fl T, mode FillMode, inside InsideFunc[T]) *denseGrid[T] {
	n := int(shape.Count())
	g := &denseGrid[T]{
		base:    base[T]{shape: shape, bg: bg, fl: fl, fillMode: mode, inside: inside},
		payload: make([]T, n),
		active:  newBitset(n),
	}
	g.self = g
	return g
}

func (g *denseGrid[T]) ensureFilled() *bitset {
	if g.filled == nil {
		g.filled = newBitset(int(g.shape.Count()))
	}
	return g.filled
}

func (g *denseGrid[T]) Set(c Coord, fn func(payload *T, active *bool)) {
	n := int(g.shape.Encode(c))
	active := g.active.Get(n)
	wasActive := active
	if !active {
		var zero T
		g.payload[n] = zero // placement-construct from zero value
	}
	fn(&g.payload[n], &active)
	if active && !wasActive {
		g.active.Set(n, true)
	} else if !active && wasActive {
		var zero T
		g.payload[n] = zero // destruct
		g.active.Set(n, false)
	}
}

func (g *denseGrid[T]) Get(c Coord) (*T, bool, bool) {
	n := int(g.shape.Encode(c))
	filled := g.filled != nil && g.filled.Get(n)
	if g.active.Get(n) {
		return &g.payload[n], true, filled
	}
	return nil, false, filled
}

func (g *denseGrid[T]) Count() int { return g.active.Count() }

func (g *denseGrid[T]) Copy(src Grid[T], copyFn func(dst *T, src T)) {
	o, ok := src.(*denseGrid[T])
	if !ok || o.shape != g.shape {
		// Fall back to the generic contract for cross-back-end copies.
		g.genericCopy(src, copyFn)
		return
	}
	copy(g.active.bits, o.active.bits)
	if o.filled != nil {
		g.ensureFilled()
		copy(g.filled.bits, o.filled.bits)
	} else {
		g.filled = nil
	}
	for i := range g.payload {
		if o.active.Get(i) {
			copyFn(&g.payload[i], o.payload[i])
		}
	}
}

func (g *denseGrid[T]) genericCopy(src Grid[T], copyFn func(dst *T, src T)) {
	if src.Shape() != g.shape {
		panic("grid: Copy shape mismatch")
	}
	g.shape.Iterate(func(c Coord) bool {
		v, active, filled := src.Get(c)
		g.Set(c, func(p *T, a *bool) {
			*a = active
			if active {
				copyFn(p, *v)
			}
		})
		if filled {
			g.ensureFilled().Set(int(g.shape.Encode(c)), true)
		}
		return false
	})
}

func (g *denseGrid[T]) Dilate(fn func(payload *T, active *bool), count int) {
	dilateGeneric[T](g, count, fn)
}

func (g *denseGrid[T]) Erode(fn func(payload *T, active *bool), count int) {
	erodeGeneric[T](g, count, fn)
}

func (g *denseGrid[T]) FloodFill() {
	floodFillGeneric[T](g)
}

func (g *denseGrid[T]) resetFilled() {
	if g.filled != nil {
		g.filled.Clear()
	}
}

func (g *denseGrid[T]) setFilled(c Coord, v bool) {
	g.ensureFilled().Set(int(g.shape.Encode(c)), v)
}

// SerialActives walks the active bitmask byte by byte, skipping all-zero
// bytes, matching the dense back-end's §4.1.1 "stride the bit-mask at byte
// granularity" rule.
func (g *denseGrid[T]) SerialActives(fn func(c Coord, v *T)) {
	for i8, b := range g.active.bits {
		if b == 0 {
			continue
		}
		base := i8 * 8
		for bit := 0; bit < 8; bit++ {
			n := base + bit
			if n >= g.active.Len() {
				break
			}
			if b&(1<<uint(bit)) != 0 {
				fn(g.shape.Decode(int64(n)), &g.payload[n])
			}
		}
	}
}

func (g *denseGrid[T]) InterruptibleSerialActives(fn func(c Coord, v *T) bool) {
	for i8, b := range g.active.bits {
		if b == 0 {
			continue
		}
		base := i8 * 8
		for bit := 0; bit < 8; bit++ {
			n := base + bit
			if n >= g.active.Len() {
				break
			}
			if b&(1<<uint(bit)) != 0 {
				if fn(g.shape.Decode(int64(n)), &g.payload[n]) {
					return
				}
			}
		}
	}
}

func (g *denseGrid[T]) ParallelActives(fn func(c Coord, v *T)) {
	bits := g.active.bits
	runForEach(g.driver, len(bits), func(i8, _ int) {
		b := bits[i8]
		if b == 0 {
			return
		}
		base := i8 * 8
		for bit := 0; bit < 8; bit++ {
			n := base + bit
			if n >= g.active.Len() {
				break
			}
			if b&(1<<uint(bit)) != 0 {
				fn(g.shape.Decode(int64(n)), &g.payload[n])
			}
		}
	})
}
