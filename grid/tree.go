package grid

// node is one level of the recursive tree (§4.1.3). A node is either
// intermediate (children non-nil, leaf nil) or, at the deepest level, a
// leaf holding a dense payload+mask block identical in shape to a tiled
// back-end's tile, covering up to `branch` cells per axis. childFilled[slot]
// is the fill-summary bit for an absent child, mirroring the tiled
// back-end's per-tile parent fill bit one level up; it is ignored once a
// child is actually allocated.
type node[T any] struct {
	children    []*node[T]
	leaf        *tile[T]
	numChildren int
	childFilled []bool
}

// Cache accelerates repeated spatial access to a tree grid by remembering
// the leaf tile most recently visited (§4.1.3, §9). It is an explicit
// per-caller handle rather than an implicit thread-local — the idiomatic-Go
// rendering of "process-wide-thread-local, dissociated from the grid's
// identity" the spec calls for: callers that want the acceleration ask for
// one and pass it back in on every access. A Cache that outlives a
// structural change to the grid self-detects via the referenced tile's
// freed flag and falls back to a full root descent, exactly as §9 requires.
type Cache[T any] struct {
	leaf  *tile[T]
	valid bool
}

// NewCache returns a fresh, empty traversal cache.
func NewCache[T any]() *Cache[T] { return &Cache[T]{} }

// treeGrid is the recursive-tree back-end: branching factor `branch` per
// axis per intermediate level, with leaves covering branch cells per axis
// (the same block size a flat-tiled grid would use). Intermediate nodes are
// allocated lazily; leaves are clamped to the shape boundary the same way
// tiled-back-end tiles are.
type treeGrid[T any] struct {
	base[T]
	branch       int32
	levels       int // number of intermediate digit levels above the leaf
	root         *node[T]
	enableCache  bool
	defaultCache *Cache[T]
}

func newTreeGrid[T any](shape Shape, branch int32, maxDepth, _ int, enableCache bool, bg, fl T, mode FillMode, inside InsideFunc[T]) *treeGrid[T] {
	maxExtent := shape.X
	if shape.Y > maxExtent {
		maxExtent = shape.Y
	}
	if shape.Dims == Dims3 && shape.Z > maxExtent {
		maxExtent = shape.Z
	}
	// levels intermediate digit levels plus the leaf's own branch-wide span
	// must reach at least maxExtent cells along every axis.
	levels := 1
	for reach := int64(branch) * int64(branch); reach < int64(maxExtent); reach *= int64(branch) {
		levels++
	}
	if maxDepth > 0 && levels > maxDepth {
		levels = maxDepth
	}
	g := &treeGrid[T]{
		base:        base[T]{shape: shape, bg: bg, fl: fl, fillMode: mode, inside: inside},
		branch:      branch,
		levels:      levels,
		root:        &node[T]{},
		enableCache: enableCache,
	}
	g.self = g
	if enableCache {
		g.defaultCache = NewCache[T]()
	}
	return g
}

// stepAt returns the coordinate span one digit at depth lvl (0 = root)
// represents: the leaf's own branch-wide span times branch^(levels-1-lvl)
// for the remaining, shallower intermediate levels.
func (g *treeGrid[T]) stepAt(lvl int) int32 {
	step := g.branch
	for i := 0; i < g.levels-1-lvl; i++ {
		step *= g.branch
	}
	return step
}

// digitsOf returns, for each of the (up to 3) axes, the base-`branch` digit
// path from root to leaf: digit(lvl) = (coord / stepAt(lvl)) % branch.
func (g *treeGrid[T]) digitsOf(c Coord) [3][]int32 {
	var out [3][]int32
	axes := [3]int32{c.X, c.Y, c.Z}
	for a := 0; a < 3; a++ {
		out[a] = make([]int32, g.levels)
		for lvl := 0; lvl < g.levels; lvl++ {
			step := g.stepAt(lvl)
			out[a][lvl] = (axes[a] / step) % g.branch
		}
	}
	return out
}

func slotIndex(dx, dy, dz int32, dims Dims, branch int32) int {
	if dims == Dims3 {
		return int(dx + branch*(dy+branch*dz))
	}
	return int(dx + branch*dy)
}

func numSlots(dims Dims, branch int32) int {
	if dims == Dims3 {
		return int(branch * branch * branch)
	}
	return int(branch * branch)
}

// locate walks from the root (or, on a cache hit, skips straight to the
// cached leaf) to the leaf tile owning c. When allocate is true, missing
// intermediates/leaves are created along the way (lazy allocation, §4.1.3);
// otherwise a miss returns a nil leaf.
func (g *treeGrid[T]) locate(c Coord, cache *Cache[T], allocate bool) (leaf *tile[T], local Coord) {
	if cache != nil && cache.valid && cache.leaf != nil && !cache.leaf.freed {
		lc := Coord{X: c.X - cache.leaf.origin.X, Y: c.Y - cache.leaf.origin.Y, Z: c.Z - cache.leaf.origin.Z}
		if cache.leaf.local.InBounds(lc) {
			return cache.leaf, lc
		}
	}

	digits := g.digitsOf(c)
	n := g.root
	origin := Coord{}
	for lvl := 0; lvl < g.levels; lvl++ {
		if n.children == nil {
			if !allocate {
				return nil, Coord{}
			}
			n.children = make([]*node[T], numSlots(g.shape.Dims, g.branch))
			n.childFilled = make([]bool, len(n.children))
		}
		dx, dy, dz := digits[0][lvl], digits[1][lvl], digits[2][lvl]
		slot := slotIndex(dx, dy, dz, g.shape.Dims, g.branch)
		step := g.stepAt(lvl)
		childOrigin := Coord{X: origin.X + dx*step, Y: origin.Y + dy*step, Z: origin.Z + dz*step}

		child := n.children[slot]
		if child == nil {
			if !allocate {
				return nil, Coord{}
			}
			child = &node[T]{}
			n.children[slot] = child
			n.numChildren++
		}
		origin = childOrigin
		n = child
	}

	if n.leaf == nil {
		if !allocate {
			return nil, Coord{}
		}
		n.leaf = newTile[T](origin, g.clampedLeafShape(origin))
	}
	lc := Coord{X: c.X - origin.X, Y: c.Y - origin.Y, Z: c.Z - origin.Z}
	if cache != nil {
		cache.leaf = n.leaf
		cache.valid = true
	}
	return n.leaf, lc
}

func (g *treeGrid[T]) clampedLeafShape(origin Coord) Shape {
	ext := func(globalExtent, o int32) int32 {
		remain := globalExtent - o
		if remain > g.branch {
			return g.branch
		}
		if remain < 0 {
			return 0
		}
		return remain
	}
	s := Shape{Dims: g.shape.Dims, Z: 1}
	s.X = ext(g.shape.X, origin.X)
	s.Y = ext(g.shape.Y, origin.Y)
	if g.shape.Dims == Dims3 {
		s.Z = ext(g.shape.Z, origin.Z)
	}
	return s
}

func (g *treeGrid[T]) Set(c Coord, fn func(payload *T, active *bool)) {
	t, local := g.locate(c, g.defaultCache, true)
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
		if t.active.Count() == 0 && (t.filled == nil || t.filled.Count() == 0) {
			g.prune(c)
		}
	}
}

func (g *treeGrid[T]) Get(c Coord) (*T, bool, bool) {
	t, local := g.locate(c, g.defaultCache, false)
	if t == nil {
		return nil, false, g.absentFillBitAt(c)
	}
	li := int(t.local.Encode(local))
	filled := t.filled != nil && t.filled.Get(li)
	if t.active.Get(li) {
		return &t.payload[li], true, filled
	}
	return nil, false, filled
}

// absentFillBitAt walks the tree again, read-only, to find the deepest
// allocated ancestor's child-fill summary bit for c's branch, defaulting to
// false when nothing along the path has been touched.
func (g *treeGrid[T]) absentFillBitAt(c Coord) bool {
	digits := g.digitsOf(c)
	n := g.root
	for lvl := 0; lvl < g.levels; lvl++ {
		if n.children == nil {
			return false
		}
		slot := slotIndex(digits[0][lvl], digits[1][lvl], digits[2][lvl], g.shape.Dims, g.branch)
		child := n.children[slot]
		if child == nil {
			return n.childFilled[slot]
		}
		n = child
	}
	return false
}

// prune removes nodes with zero live children/cells along the path to c,
// stopping at the root (§4.1.3). A Cache referencing a dropped leaf
// self-detects via tile.freed on its next use.
func (g *treeGrid[T]) prune(c Coord) {
	digits := g.digitsOf(c)
	path := make([]*node[T], g.levels+1)
	slots := make([]int, g.levels)
	path[0] = g.root
	n := g.root
	for lvl := 0; lvl < g.levels; lvl++ {
		if n.children == nil {
			return
		}
		slot := slotIndex(digits[0][lvl], digits[1][lvl], digits[2][lvl], g.shape.Dims, g.branch)
		slots[lvl] = slot
		child := n.children[slot]
		if child == nil {
			return
		}
		path[lvl+1] = child
		n = child
	}
	leaf := path[g.levels]
	if leaf.leaf == nil || leaf.leaf.active.Count() != 0 {
		return
	}
	leaf.leaf.freed = true
	leaf.leaf = nil

	for lvl := g.levels - 1; lvl >= 0; lvl-- {
		parent := path[lvl]
		slot := slots[lvl]
		child := path[lvl+1]
		empty := child.leaf == nil && child.numChildren == 0
		if !empty {
			return
		}
		parent.children[slot] = nil
		parent.numChildren--
		if parent.numChildren > 0 {
			return
		}
	}
}

func (g *treeGrid[T]) Count() int {
	total := 0
	g.walkLeaves(g.root, func(t *tile[T]) { total += t.active.Count() })
	return total
}

func (g *treeGrid[T]) walkLeaves(n *node[T], fn func(t *tile[T])) {
	if n == nil {
		return
	}
	if n.leaf != nil {
		fn(n.leaf)
		return
	}
	for _, c := range n.children {
		g.walkLeaves(c, fn)
	}
}

func (g *treeGrid[T]) Copy(src Grid[T], copyFn func(dst *T, src T)) {
	if src.Shape() != g.shape {
		panic("grid: Copy shape mismatch")
	}
	g.root = &node[T]{}
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

func (g *treeGrid[T]) Dilate(fn func(payload *T, active *bool), count int) {
	dilateGeneric[T](g, count, fn)
}

func (g *treeGrid[T]) Erode(fn func(payload *T, active *bool), count int) {
	erodeGeneric[T](g, count, fn)
}

func (g *treeGrid[T]) FloodFill() {
	floodFillGeneric[T](g)
}

func (g *treeGrid[T]) resetFilled() {
	g.resetFilledNode(g.root)
}

func (g *treeGrid[T]) resetFilledNode(n *node[T]) {
	if n == nil {
		return
	}
	if n.leaf != nil {
		n.leaf.filled = nil
		return
	}
	for i := range n.childFilled {
		n.childFilled[i] = false
	}
	for _, c := range n.children {
		g.resetFilledNode(c)
	}
}

func (g *treeGrid[T]) setFilled(c Coord, v bool) {
	t, local := g.locate(c, nil, true)
	li := int(t.local.Encode(local))
	t.ensureFilled().Set(li, v)
}

func (g *treeGrid[T]) SerialActives(fn func(c Coord, v *T)) {
	g.walkLeaves(g.root, func(t *tile[T]) { walkTileActives(t, fn) })
}

func (g *treeGrid[T]) InterruptibleSerialActives(fn func(c Coord, v *T) bool) {
	g.interruptibleWalk(g.root, fn)
}

func (g *treeGrid[T]) interruptibleWalk(n *node[T], fn func(c Coord, v *T) bool) bool {
	if n == nil {
		return false
	}
	if n.leaf != nil {
		return walkTileActivesInterruptible(n.leaf, fn)
	}
	for _, c := range n.children {
		if g.interruptibleWalk(c, fn) {
			return true
		}
	}
	return false
}

func (g *treeGrid[T]) ParallelActives(fn func(c Coord, v *T)) {
	var leaves []*tile[T]
	g.walkLeaves(g.root, func(t *tile[T]) { leaves = append(leaves, t) })
	runForEach(g.driver, len(leaves), func(i, _ int) {
		walkTileActives(leaves[i], fn)
	})
}

// NewTreeCache exposes the tree back-end's per-caller traversal cache
// (§4.1.3, §9) beyond the plain Grid[T] contract; type-assert a Grid[T]
// value to TreeCacher[T] to reach it.
func (g *treeGrid[T]) NewTreeCache() *Cache[T] { return NewCache[T]() }

// GetCached / SetCached are the cache-aware entry points. The plain Get/Set
// methods above always use the grid's own internal cache (when
// EnableCache was requested at construction) or none at all.
func (g *treeGrid[T]) GetCached(c Coord, cache *Cache[T]) (*T, bool, bool) {
	t, local := g.locate(c, cache, false)
	if t == nil {
		return nil, false, g.absentFillBitAt(c)
	}
	li := int(t.local.Encode(local))
	filled := t.filled != nil && t.filled.Get(li)
	if t.active.Get(li) {
		return &t.payload[li], true, filled
	}
	return nil, false, filled
}

func (g *treeGrid[T]) SetCached(c Coord, cache *Cache[T], fn func(payload *T, active *bool)) {
	t, local := g.locate(c, cache, true)
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
		if t.active.Count() == 0 && (t.filled == nil || t.filled.Count() == 0) {
			g.prune(c)
		}
	}
}

// TreeCacher is satisfied by Grid[T] values built with a tree back-end; it
// exposes the cache-aware access path the plain Grid[T] contract omits.
type TreeCacher[T any] interface {
	NewTreeCache() *Cache[T]
	GetCached(c Coord, cache *Cache[T]) (*T, bool, bool)
	SetCached(c Coord, cache *Cache[T], fn func(payload *T, active *bool))
}
