package grid

import "testing"

func TestCollectCandidatesDeduplicatesSharedNeighbors(t *testing.T) {
	shape := NewShape2(10, 10)
	g := New[int](shape, Options{Backend: BackendDense})
	// Two active cells sharing a common face-neighbor must yield that
	// neighbor only once.
	g.Set(At(4, 5), func(p *int, a *bool) { *a = true })
	g.Set(At(6, 5), func(p *int, a *bool) { *a = true })

	candidates := collectCandidates[int](g, shape, func(c Coord) bool {
		_, active, _ := g.Get(c)
		return !active
	})

	seen := map[Coord]int{}
	for _, c := range candidates {
		seen[c]++
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("candidate %v appeared %d times, want 1", c, n)
		}
	}
	if _, ok := seen[At(5, 5)]; !ok {
		t.Error("expected (5,5) among dilate candidates shared by both seeds")
	}
}

func TestDilateRespectsDomainBoundary(t *testing.T) {
	shape := NewShape2(4, 4)
	g := New[int](shape, Options{Backend: BackendDense})
	g.Set(At(0, 0), func(p *int, a *bool) { *a = true })

	g.Dilate(func(p *int, a *bool) { *a = true }, 1)

	g.SerialActives(func(c Coord, v *int) {
		if !shape.InBounds(c) {
			t.Errorf("dilate produced an out-of-bounds cell %v", c)
		}
	})
}

func TestDilateStopsWhenNoCandidatesRemain(t *testing.T) {
	shape := NewShape2(3, 1)
	g := New[int](shape, Options{Backend: BackendDense})
	shape.Iterate(func(c Coord) bool {
		g.Set(c, func(p *int, a *bool) { *a = true })
		return false
	})
	before := g.Count()
	g.Dilate(func(p *int, a *bool) { *a = true }, 5)
	if g.Count() != before {
		t.Errorf("Dilate grew a fully-active grid: before=%d after=%d", before, g.Count())
	}
}
