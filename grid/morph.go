package grid

import "sync"

// filledWriter is the small back-end-specific seam FloodFill needs: a way
// to reset every filled bit and set one filled bit, allocating storage
// lazily exactly the way Set does for activation. Every back-end
// implements it; it stays unexported because callers never need to set
// an individual filled bit outside flood-fill — ResetFilled below is the
// one piece of it exposed publicly, for resetting en masse.
type filledWriter interface {
	resetFilled()
	setFilled(c Coord, v bool)
}

// ResetFilled clears every filled bit on g without touching active cells or
// payloads. It is the public seam for callers outside this package that need
// to drop stale filled state without re-running FloodFill, such as the
// shared grid pool clearing a borrowed instance back to "fresh" (§4.3).
func ResetFilled[T any](g Grid[T]) {
	if fw, ok := g.(filledWriter); ok {
		fw.resetFilled()
	}
}

// dilateGeneric implements §4.1's dilate contract as two phases, "collect
// candidates, then commit": each of the count rounds gathers the inactive
// cells with an active face-neighbor in one serial scan over the active
// set (see collectCandidates; the grid's driver is not used), deduplicates
// them, then commits them one by one via Set after the scan has finished,
// so activation never happens inside a scan (§5: "Activating
// new cells from inside a parallel scan is undefined... the sanctioned
// path is dilate").
func dilateGeneric[T any](g Grid[T], count int, fn func(payload *T, active *bool)) {
	shape := g.Shape()
	for round := 0; round < count; round++ {
		candidates := collectCandidates(g, shape, func(c Coord) bool {
			_, active, _ := g.Get(c)
			return !active
		})
		if len(candidates) == 0 {
			return
		}
		for _, c := range candidates {
			g.Set(c, func(payload *T, active *bool) {
				*active = true
				fn(payload, active)
			})
		}
	}
}

// erodeGeneric implements §4.1's erode contract (bit-grids conceptually,
// generic in implementation): active cells with an in-bounds inactive
// face-neighbor are offered to fn for possible removal.
func erodeGeneric[T any](g Grid[T], count int, fn func(payload *T, active *bool)) {
	shape := g.Shape()
	for round := 0; round < count; round++ {
		var candidates []Coord
		g.SerialActives(func(c Coord, _ *T) {
			hasInactiveNeighbor := false
			FaceNeighbors(c, shape.Dims, func(n Coord) {
				if hasInactiveNeighbor || !shape.InBounds(n) {
					return
				}
				_, active, _ := g.Get(n)
				if !active {
					hasInactiveNeighbor = true
				}
			})
			if hasInactiveNeighbor {
				candidates = append(candidates, c)
			}
		})
		if len(candidates) == 0 {
			return
		}
		for _, c := range candidates {
			g.Set(c, func(payload *T, active *bool) {
				*active = true
				fn(payload, active)
			})
		}
	}
}

// collectCandidates gathers, over every currently-active cell, the distinct
// in-bounds face-neighbors satisfying `take`, scanning the actives serially
// and deduplicating through a map. dilateGeneric uses it; erodeGeneric
// collects its own candidates.
func collectCandidates[T any](g Grid[T], shape Shape, take func(c Coord) bool) []Coord {
	seen := make(map[Coord]struct{})
	var mu sync.Mutex
	g.SerialActives(func(c Coord, _ *T) {
		FaceNeighbors(c, shape.Dims, func(n Coord) {
			if !shape.InBounds(n) || !take(n) {
				return
			}
			mu.Lock()
			seen[n] = struct{}{}
			mu.Unlock()
		})
	})
	out := make([]Coord, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	return out
}

// floodFillGeneric implements §4.4's flood-fill: mark inside active cells
// as filled, then spread the filled bit depth-first (an explicit stack)
// through inactive cells until
// blocked by an active non-inside cell or the domain boundary. Re-running
// it recomputes the filled set from scratch, which gives the idempotence
// property in §8 ("flood_fill; flood_fill equals flood_fill") for free.
func floodFillGeneric[T any](g Grid[T]) {
	fw, ok := g.(filledWriter)
	if !ok {
		panic("grid: back-end does not support FloodFill")
	}
	fm, ok := g.(interface {
		fillModeOf() FillMode
		insideOf(v T) bool
	})
	if !ok {
		panic("grid: back-end does not expose fill-mode metadata")
	}
	if fm.fillModeOf() == FillModeNone {
		panic("grid: FloodFill called on a grid neither level-set nor fillable")
	}

	fw.resetFilled()
	shape := g.Shape()

	queue := make([]Coord, 0, 64)
	seen := make(map[Coord]struct{})

	g.SerialActives(func(c Coord, v *T) {
		if fm.insideOf(*v) {
			fw.setFilled(c, true)
			seen[c] = struct{}{}
			queue = append(queue, c)
		}
	})

	for len(queue) > 0 {
		c := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		FaceNeighbors(c, shape.Dims, func(n Coord) {
			if !shape.InBounds(n) {
				return
			}
			if _, already := seen[n]; already {
				return
			}
			v, active, _ := g.Get(n)
			if active {
				if fm.insideOf(*v) {
					// Already (or about to be) seeded directly; still mark
					// so BFS can continue outward from it.
					seen[n] = struct{}{}
					fw.setFilled(n, true)
					queue = append(queue, n)
				}
				return // active & non-inside: blocks propagation
			}
			seen[n] = struct{}{}
			fw.setFilled(n, true)
			queue = append(queue, n)
		})
	}
}
