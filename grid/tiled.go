package grid

// tile is one flat-tiled leaf: a dense payload+mask block covering up to
// tileSize^Dims cells, clamped to `local` at the shape boundary (§4.1.2).
type tile[T any] struct {
	origin  Coord
	local   Shape // clamped per-tile shape; Dims matches the parent grid
	payload []T
	active  *bitset
	filled  *bitset // lazily allocated on first fill write
	freed   bool    // set once pruned from a tree back-end; lets a stale Cache self-detect
}

func newTile[T any](origin Coord, local Shape) *tile[T] {
	n := int(local.Count())
	return &tile[T]{
		origin:  origin,
		local:   local,
		payload: make([]T, n),
		active:  newBitset(n),
	}
}

func (t *tile[T]) ensureFilled() *bitset {
	if t.filled == nil {
		t.filled = newBitset(int(t.local.Count()))
	}
	return t.filled
}

// tiledGrid is the flat tiled back-end (§4.1.2): the grid is partitioned
// into axis-aligned tiles of power-of-two side tileSize. A nil tile entry
// means "all cells in this tile are inactive"; tileFilled records whether
// an absent tile should read back as filled (the per-tile fill-summary bit
// the spec describes living on the parent).
type tiledGrid[T any] struct {
	base[T]
	tileSize   int32
	tileShape  Shape // extent measured in tiles
	tiles      []*tile[T]
	tileFilled []bool
}

func newTiledGrid[T any](shape Shape, tileSize int32, bg, fl T, mode FillMode, inside InsideFunc[T]) *tiledGrid[T] {
	tilesX := ceilDiv(shape.X, tileSize)
	tilesY := ceilDiv(shape.Y, tileSize)
	tilesZ := int32(1)
	if shape.Dims == Dims3 {
		tilesZ = ceilDiv(shape.Z, tileSize)
	}
	tileShape := Shape{Dims: shape.Dims, X: tilesX, Y: tilesY, Z: tilesZ}
	n := int(tileShape.Count())
	g := &tiledGrid[T]{
		base:       base[T]{shape: shape, bg: bg, fl: fl, fillMode: mode, inside: inside},
		tileSize:   tileSize,
		tileShape:  tileShape,
		tiles:      make([]*tile[T], n),
		tileFilled: make([]bool, n),
	}
	g.self = g
	return g
}

func ceilDiv(a, b int32) int32 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// decompose splits a global coordinate into its owning tile index and the
// local coordinate within that tile.
func (g *tiledGrid[T]) decompose(c Coord) (tileIdx int64, local Coord) {
	tc := Coord{X: c.X / g.tileSize, Y: c.Y / g.tileSize}
	lc := Coord{X: c.X % g.tileSize, Y: c.Y % g.tileSize}
	if g.shape.Dims == Dims3 {
		tc.Z = c.Z / g.tileSize
		lc.Z = c.Z % g.tileSize
	}
	return g.tileShape.Encode(tc), lc
}

func (g *tiledGrid[T]) localShapeFor(tc Coord) Shape {
	ext := func(globalExtent, tilePos int32) int32 {
		remain := globalExtent - tilePos*g.tileSize
		if remain > g.tileSize {
			return g.tileSize
		}
		return remain
	}
	s := Shape{Dims: g.shape.Dims, Z: 1}
	s.X = ext(g.shape.X, tc.X)
	s.Y = ext(g.shape.Y, tc.Y)
	if g.shape.Dims == Dims3 {
		s.Z = ext(g.shape.Z, tc.Z)
	}
	return s
}

func (g *tiledGrid[T]) tileCoordOf(ti int64) Coord { return g.tileShape.Decode(ti) }

func (g *tiledGrid[T]) Set(c Coord, fn func(payload *T, active *bool)) {
	ti, local := g.decompose(c)
	t := g.tiles[ti]
	if t == nil {
		var tmp T
		active := false
		fn(&tmp, &active)
		if !active {
			return
		}
		tc := g.tileCoordOf(ti)
		origin := Coord{X: tc.X * g.tileSize, Y: tc.Y * g.tileSize, Z: tc.Z * g.tileSize}
		t = newTile[T](origin, g.localShapeFor(tc))
		g.tiles[ti] = t
		li := int(t.local.Encode(local))
		t.payload[li] = tmp
		t.active.Set(li, true)
		return
	}

	li := int(t.local.Encode(local))
	wasActive := t.active.Get(li)
	active := wasActive
	if !wasActive {
		var zero T
		t.payload[li] = zero
	}
	fn(&t.payload[li], &active)
	if active && !wasActive {
		t.active.Set(li, true)
	} else if !active && wasActive {
		var zero T
		t.payload[li] = zero
		t.active.Set(li, false)
		if t.active.Count() == 0 && !g.tileFilled[ti] && (t.filled == nil || t.filled.Count() == 0) {
			g.tiles[ti] = nil
		}
	}
}

func (g *tiledGrid[T]) Get(c Coord) (*T, bool, bool) {
	ti, local := g.decompose(c)
	t := g.tiles[ti]
	if t == nil {
		return nil, false, g.tileFilled[ti]
	}
	li := int(t.local.Encode(local))
	filled := t.filled != nil && t.filled.Get(li)
	if t.active.Get(li) {
		return &t.payload[li], true, filled
	}
	return nil, false, filled
}

func (g *tiledGrid[T]) Count() int {
	total := 0
	for _, t := range g.tiles {
		if t != nil {
			total += t.active.Count()
		}
	}
	return total
}

func (g *tiledGrid[T]) Copy(src Grid[T], copyFn func(dst *T, src T)) {
	if src.Shape() != g.shape {
		panic("grid: Copy shape mismatch")
	}
	for i := range g.tiles {
		g.tiles[i] = nil
		g.tileFilled[i] = false
	}
	g.shape.Iterate(func(c Coord) bool {
		v, active, filled := src.Get(c)
		if active {
			g.Set(c, func(p *T, a *bool) {
				*a = true
				copyFn(p, *v)
			})
		}
		if filled {
			g.setFilled(c, true)
		}
		return false
	})
}

func (g *tiledGrid[T]) Dilate(fn func(payload *T, active *bool), count int) {
	dilateGeneric[T](g, count, fn)
}

func (g *tiledGrid[T]) Erode(fn func(payload *T, active *bool), count int) {
	erodeGeneric[T](g, count, fn)
}

func (g *tiledGrid[T]) FloodFill() {
	floodFillGeneric[T](g)
}

func (g *tiledGrid[T]) resetFilled() {
	for i, t := range g.tiles {
		g.tileFilled[i] = false
		if t != nil {
			t.filled = nil
		}
	}
}

func (g *tiledGrid[T]) setFilled(c Coord, v bool) {
	ti, local := g.decompose(c)
	t := g.tiles[ti]
	if t == nil {
		if !v {
			return
		}
		tc := g.tileCoordOf(ti)
		origin := Coord{X: tc.X * g.tileSize, Y: tc.Y * g.tileSize, Z: tc.Z * g.tileSize}
		t = newTile[T](origin, g.localShapeFor(tc))
		g.tiles[ti] = t
	}
	li := int(t.local.Encode(local))
	t.ensureFilled().Set(li, v)
}

func (g *tiledGrid[T]) SerialActives(fn func(c Coord, v *T)) {
	for _, t := range g.tiles {
		if t == nil {
			continue
		}
		walkTileActives(t, fn)
	}
}

func (g *tiledGrid[T]) InterruptibleSerialActives(fn func(c Coord, v *T) bool) {
	for _, t := range g.tiles {
		if t == nil {
			continue
		}
		if walkTileActivesInterruptible(t, fn) {
			return
		}
	}
}

func (g *tiledGrid[T]) ParallelActives(fn func(c Coord, v *T)) {
	tiles := g.tiles
	runForEach(g.driver, len(tiles), func(i, _ int) {
		t := tiles[i]
		if t == nil {
			return
		}
		walkTileActives(t, fn)
	})
}

func walkTileActives[T any](t *tile[T], fn func(c Coord, v *T)) {
	for i8, b := range t.active.bits {
		if b == 0 {
			continue
		}
		base := i8 * 8
		for bit := 0; bit < 8; bit++ {
			li := base + bit
			if li >= t.active.Len() {
				break
			}
			if b&(1<<uint(bit)) != 0 {
				local := t.local.Decode(int64(li))
				global := Coord{X: t.origin.X + local.X, Y: t.origin.Y + local.Y, Z: t.origin.Z + local.Z}
				fn(global, &t.payload[li])
			}
		}
	}
}

func walkTileActivesInterruptible[T any](t *tile[T], fn func(c Coord, v *T) bool) bool {
	for i8, b := range t.active.bits {
		if b == 0 {
			continue
		}
		base := i8 * 8
		for bit := 0; bit < 8; bit++ {
			li := base + bit
			if li >= t.active.Len() {
				break
			}
			if b&(1<<uint(bit)) != 0 {
				local := t.local.Decode(int64(li))
				global := Coord{X: t.origin.X + local.X, Y: t.origin.Y + local.Y, Z: t.origin.Z + local.Z}
				if fn(global, &t.payload[li]) {
					return true
				}
			}
		}
	}
	return false
}
