package grid

import "fmt"

// FillMode selects how a grid's background/fill values are interpreted for
// flood_fill (§3). LevelSet treats the stored scalar sign as the inside
// test; Fillable compares against an explicit fill value. A grid configured
// as neither aborts on FloodFill, matching §7's "flood-fill on a grid
// neither marked level-set nor fillable is fatal".
type FillMode int

const (
	FillModeNone FillMode = iota
	FillModeLevelSet
	FillModeFillable
)

// Backend names the three back-end families plus the '*' build-default
// token (§6). BackendTreeBit selects the tree back-end restricted to the
// bit (T=struct{}) case purely as a naming convenience; structurally it is
// the same treeGrid[struct{}] a caller gets from New[struct{}](BackendTree,...).
type Backend string

const (
	BackendDense    Backend = "dense"
	BackendFlatTile Backend = "flat-tiled"
	BackendTree     Backend = "tree"
	BackendTreeBit  Backend = "tree-bit"
	BackendDefault  Backend = "*"
)

// ResolveBackend replaces the '*' build-time-default token.
func ResolveBackend(b Backend, def Backend) Backend {
	if b == BackendDefault {
		return def
	}
	return b
}

// InsideFunc decides whether a stored value counts as "inside" for
// flood-fill purposes (§3, §4.4). Grids built with NewLevelSet / NewFillable
// install the right one automatically; it is exposed so callers building a
// grid manually (FillModeNone grids used purely as bit-masks, etc.) can
// still opt in.
type InsideFunc[T any] func(v T) bool

// Grid is the contract every back-end (dense, flat-tiled, tree) and the bit
// variant (T=struct{}) satisfy (§4.1). A nil payload pointer returned from
// Get means the cell is inactive; the caller must never dereference it.
//
// Go has no const-qualified methods, so the C++ original's const_/mutable
// iterator pairs collapse into one signature each here: callers that only
// read simply don't write through the pointer.
type Grid[T any] interface {
	// Shape returns the grid's shape.
	Shape() Shape

	// ElementSize reports payload size as the spec's B; zero for bit grids.
	// Go derives this from T automatically (unsafe.Sizeof), so callers never
	// need to pass B explicitly the way the C++ constructor does.
	ElementSize() int

	// Background returns the value read for inactive, non-filled cells.
	Background() T
	// Fill returns the value read for inactive, filled cells.
	Fill() T

	// SetDriver installs the parallel driver used by the Parallel* methods.
	// nil forces serial execution. Dilate, Erode and FloodFill do not read
	// it; they always scan serially.
	SetDriver(d Driver)

	// Set activates/mutates/deactivates the cell at c. fn receives a pointer
	// to the payload slot (freshly placement-constructed from the zero value
	// if the cell was inactive) and a mutable active flag seeded with the
	// cell's current state; fn's return value of active is applied after it
	// returns (§3, §4.1).
	Set(c Coord, fn func(payload *T, active *bool))

	// Get returns a pointer to the payload when active (nil otherwise), the
	// active flag and the filled flag.
	Get(c Coord) (payload *T, active bool, filled bool)

	// Count returns the number of active cells (population count, O(mask
	// size), not O(cells)).
	Count() int

	// Copy deep-copies src's shape, payload, active and filled state into
	// the receiver, using copyFn to copy one payload. Shapes must match.
	Copy(src Grid[T], copyFn func(dst *T, src T))

	// Dilate grows the active set by up to count face-hops: any inactive
	// cell with an active face-neighbor is offered to fn; if fn sets
	// active=true the cell joins the active set with whatever payload fn
	// wrote. Repeated count times.
	Dilate(fn func(payload *T, active *bool), count int)

	// Erode shrinks the active set symmetrically: any active cell with an
	// in-bounds inactive face-neighbor is offered to fn for possible
	// removal. Repeated count times. Intended for bit-only grids (§4.1.4)
	// but implemented generically.
	Erode(fn func(payload *T, active *bool), count int)

	// FloodFill classifies filled cells per the grid's FillMode and inside
	// predicate (§4.4). Panics if FillMode is FillModeNone (§7).
	FloodFill()

	// SerialActives/ParallelActives visit exactly the active cells.
	SerialActives(fn func(c Coord, v *T))
	ParallelActives(fn func(c Coord, v *T))

	// SerialAll/ParallelAll visit every cell in the shape.
	SerialAll(fn func(c Coord, v *T, active, filled bool))
	ParallelAll(fn func(c Coord, v *T, active, filled bool))

	// SerialInside/ParallelInside visit exactly the filled cells.
	SerialInside(fn func(c Coord, v *T))
	ParallelInside(fn func(c Coord, v *T))

	// Interruptible* serial scans stop as soon as fn returns true (§5).
	InterruptibleSerialActives(fn func(c Coord, v *T) (stop bool))
	InterruptibleSerialAll(fn func(c Coord, v *T, active, filled bool) (stop bool))
	InterruptibleSerialInside(fn func(c Coord, v *T) (stop bool))
}

// Options configure a grid at construction time, mirroring §6's option
// table entries for the grid engine (TileSize, MaxDepth, MaxBuffer,
// EnableCache). MaxBuffer is passed to the tree back-end, which ignores it;
// no back-end reads it.
type Options struct {
	Backend     Backend
	Background  any // reinterpreted as T by New; nil means the zero value
	Fill        any
	FillMode    FillMode
	Inside      any // InsideFunc[T]; required when FillMode != FillModeNone
	TileSize    int32
	MaxDepth    int
	MaxBuffer   int
	EnableCache bool
}

// DefaultOptions returns the engine's build-time defaults.
func DefaultOptions() Options {
	return Options{
		Backend:   BackendDense,
		TileSize:  16,
		MaxDepth:  0, // 0 = derive from shape
		MaxBuffer: 4096,
	}
}

// New constructs a grid of the requested back-end (§6's selector string,
// with BackendDefault resolved to dense). Out-of-range shapes are a caller
// error (assertion, §7) surfaced here as a panic since shape validity is
// knowable entirely at construction time.
func New[T any](shape Shape, opts Options) Grid[T] {
	if err := shape.Validate(); err != nil {
		panic(err)
	}
	backend := ResolveBackend(opts.Backend, BackendDense)

	var background, fill T
	if v, ok := opts.Background.(T); ok {
		background = v
	}
	if v, ok := opts.Fill.(T); ok {
		fill = v
	}
	var inside InsideFunc[T]
	if f, ok := opts.Inside.(InsideFunc[T]); ok {
		inside = f
	}
	if opts.FillMode != FillModeNone && inside == nil {
		panic("grid: FillMode set without an Inside predicate")
	}

	switch backend {
	case BackendDense:
		return newDenseGrid[T](shape, background, fill, opts.FillMode, inside)
	case BackendFlatTile:
		tileSize := opts.TileSize
		if tileSize <= 0 {
			tileSize = 16
		}
		return newTiledGrid[T](shape, tileSize, background, fill, opts.FillMode, inside)
	case BackendTree, BackendTreeBit:
		branch := opts.TileSize
		if branch <= 0 {
			branch = 32
		}
		return newTreeGrid[T](shape, branch, opts.MaxDepth, opts.MaxBuffer, opts.EnableCache, background, fill, opts.FillMode, inside)
	default:
		panic(fmt.Sprintf("grid: unknown backend %q", backend))
	}
}

// NewLevelSet constructs a grid in level-set mode: background=+halfBand,
// fill=-halfBand, inside := value < 0 (§3).
func NewLevelSet(shape Shape, halfBand float64, opts Options) Grid[float64] {
	opts.Background = halfBand
	opts.Fill = -halfBand
	opts.FillMode = FillModeLevelSet
	opts.Inside = InsideFunc[float64](func(v float64) bool { return v < 0 })
	return New[float64](shape, opts)
}

// NewFillable constructs a grid in fillable mode: inside := value ==
// fillValue (§3).
func NewFillable[T comparable](shape Shape, background, fillValue T, opts Options) Grid[T] {
	opts.Background = background
	opts.Fill = fillValue
	opts.FillMode = FillModeFillable
	opts.Inside = InsideFunc[T](func(v T) bool { return v == fillValue })
	return New[T](shape, opts)
}

// NewBit constructs a bit-only grid (B=0, §4.1.4): T is struct{}, which the
// Go compiler lays out with zero size, so no payload storage is ever
// allocated — this is the idiomatic-Go rendering of the C++ "B=0 elides
// payload storage" rule, with no separate bit-grid type needed.
func NewBit(shape Shape, backend Backend, opts Options) Grid[struct{}] {
	opts.Backend = backend
	return New[struct{}](shape, opts)
}
