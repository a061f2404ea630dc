package hashgrid

import (
	"sort"
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
)

func TestSortPointsBucketsByCell(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	g := New(shape, 1.0, Position{})

	pts := []Position{
		{0.5, 0.5, 0},
		{0.9, 0.9, 0},
		{2.5, 2.5, 0},
	}
	g.SortPoints(pts)

	cell00 := g.GetPointsInCell(grid.At(0, 0))
	if len(cell00) != 2 {
		t.Fatalf("cell (0,0) has %d points, want 2", len(cell00))
	}
	cell22 := g.GetPointsInCell(grid.At(2, 2))
	if len(cell22) != 1 || cell22[0] != 2 {
		t.Fatalf("cell (2,2) = %v, want [2]", cell22)
	}
}

func TestSortPointsRebuildsFromScratch(t *testing.T) {
	shape := grid.NewShape2(4, 4)
	g := New(shape, 1.0, Position{})

	g.SortPoints([]Position{{0.1, 0.1, 0}})
	g.SortPoints([]Position{{3.1, 3.1, 0}})

	if len(g.GetPointsInCell(grid.At(0, 0))) != 0 {
		t.Error("a stale bucket from the previous SortPoints call survived a rebuild")
	}
	if len(g.GetPointsInCell(grid.At(3, 3))) != 1 {
		t.Error("the new point was not bucketed after rebuild")
	}
}

func TestGetPointsInCellOutOfBoundsIsEmpty(t *testing.T) {
	g := New(grid.NewShape2(4, 4), 1.0, Position{})
	if pts := g.GetPointsInCell(grid.At(-1, 0)); pts != nil {
		t.Errorf("out-of-bounds cell returned %v, want nil", pts)
	}
}

func TestGetCellNeighborsFullIncludesDiagonalBlock(t *testing.T) {
	shape := grid.NewShape2(5, 5)
	g := New(shape, 1.0, Position{})
	g.SortPoints([]Position{
		{2.5, 2.5, 0}, // center
		{1.5, 1.5, 0}, // diagonal neighbor
		{4.5, 4.5, 0}, // far away, not a neighbor
	})

	got := g.GetCellNeighbors(grid.At(2, 2), NeighborFull)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []int32{0, 1}
	if !equalInt32(got, want) {
		t.Errorf("GetCellNeighbors(Full) = %v, want %v", got, want)
	}
}

func TestGetCellNeighborsFaceAdjacentExcludesDiagonal(t *testing.T) {
	shape := grid.NewShape2(5, 5)
	g := New(shape, 1.0, Position{})
	g.SortPoints([]Position{
		{2.5, 2.5, 0}, // center
		{1.5, 1.5, 0}, // diagonal, excluded
		{1.5, 2.5, 0}, // face-adjacent, included
	})

	got := g.GetCellNeighbors(grid.At(2, 2), NeighborFaceAdjacent)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []int32{0, 2}
	if !equalInt32(got, want) {
		t.Errorf("GetCellNeighbors(FaceAdjacent) = %v, want %v", got, want)
	}
}

func TestGetFaceNeighborsUnionsBothAdjacentCells(t *testing.T) {
	cellShape := grid.NewShape2(5, 5)
	g := New(cellShape, 1.0, Position{})
	g.SortPoints([]Position{
		{1.5, 2.5, 0}, // cell (1,2), lo side of face axis-0 index 2
		{2.5, 2.5, 0}, // cell (2,2), hi side
		{4.5, 4.5, 0}, // unrelated
	})

	// Face index 2 on axis 0 sits between cells (1,*) and (2,*).
	got := g.GetFaceNeighbors(grid.At(2, 2), 0)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []int32{0, 1}
	if !equalInt32(got, want) {
		t.Errorf("GetFaceNeighbors = %v, want %v", got, want)
	}
}

func TestGetFaceNeighborsClampsAtDomainBoundary(t *testing.T) {
	cellShape := grid.NewShape2(4, 4)
	g := New(cellShape, 1.0, Position{})
	g.SortPoints([]Position{{0.5, 0.5, 0}})

	// Face index 0 on axis 0 only has a hi-side cell (0,*); the lo side is
	// out of bounds and must be skipped, not panic.
	got := g.GetFaceNeighbors(grid.At(0, 0), 0)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("GetFaceNeighbors at boundary = %v, want [0]", got)
	}
}

func equalInt32(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
