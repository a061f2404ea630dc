// Package hashgrid implements the point-grid hash (§4.7): a bucket
// structure that answers "which particles lie near this cell/face"
// queries in O(1) per cell rather than a spatial tree. Grounded on
// pthm-soup/systems/spatial.go's SpatialGrid: a flat array of per-cell
// entity buckets rebuilt each frame from scratch (Clear + Insert), reused
// here for particle indices instead of ECS entities and for a bounded
// grid domain instead of a toroidal one.
package hashgrid

import "github.com/pthm-cable/flipgrid/grid"

// Position is a 3-component point; 2D callers leave Z at zero.
type Position [3]float64

// NeighborMode selects how wide a cell-neighbor query reaches.
type NeighborMode int

const (
	// NeighborFull reports the full 3^N block around a cell (26 neighbors
	// plus self in 3D, 8 plus self in 2D).
	NeighborFull NeighborMode = iota
	// NeighborFaceAdjacent restricts the query to the cell itself plus its
	// 2N face-adjacent cells, excluding its diagonal neighbors.
	NeighborFaceAdjacent
)

// Grid buckets particle indices by the cell containing their position.
// It does not own the position slice; SortPoints re-reads it every call,
// matching the per-step "rebuild the hash grid after advection" lifecycle
// description in §4.6.4.
type Grid struct {
	cellShape grid.Shape
	dx        float64
	origin    Position
	buckets   [][]int32
	positions []Position
}

// New builds an empty hash grid over cellShape with uniform cell size dx
// and the domain's lower corner at origin.
func New(cellShape grid.Shape, dx float64, origin Position) *Grid {
	buckets := make([][]int32, cellShape.Count())
	for i := range buckets {
		buckets[i] = make([]int32, 0, 4)
	}
	return &Grid{cellShape: cellShape, dx: dx, origin: origin, buckets: buckets}
}

// CellOf returns the cell coordinate containing pos, clamped to the
// domain's bounds.
func (g *Grid) CellOf(pos Position) grid.Coord {
	cx := int32((pos[0] - g.origin[0]) / g.dx)
	cy := int32((pos[1] - g.origin[1]) / g.dx)
	var cz int32
	if g.cellShape.Dims == grid.Dims3 {
		cz = int32((pos[2] - g.origin[2]) / g.dx)
	}
	c := grid.Coord{X: cx, Y: cy, Z: cz}
	return clampToShape(c, g.cellShape)
}

func clampToShape(c grid.Coord, s grid.Shape) grid.Coord {
	c.X = clampAxis(c.X, s.X)
	c.Y = clampAxis(c.Y, s.Y)
	if s.Dims == grid.Dims3 {
		c.Z = clampAxis(c.Z, s.Z)
	} else {
		c.Z = 0
	}
	return c
}

func clampAxis(v, extent int32) int32 {
	if v < 0 {
		return 0
	}
	if v >= extent {
		return extent - 1
	}
	return v
}

// SortPoints rebuilds every bucket from positions, bucket-sorting each
// index by the cell containing its point (§4.7 "sort_points").
func (g *Grid) SortPoints(positions []Position) {
	g.positions = positions
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	for i, p := range positions {
		idx := g.cellShape.Encode(g.CellOf(p))
		g.buckets[idx] = append(g.buckets[idx], int32(i))
	}
}

// GetPointsInCell returns the particle indices bucketed into cell c. Out
// of bounds cells report no particles.
func (g *Grid) GetPointsInCell(c grid.Coord) []int32 {
	if !g.cellShape.InBounds(c) {
		return nil
	}
	return g.buckets[g.cellShape.Encode(c)]
}

// GetCellNeighbors reports particle indices within the 3^N (NeighborFull)
// or 2N face-adjacent (NeighborFaceAdjacent) neighborhood of c, always
// including c itself.
func (g *Grid) GetCellNeighbors(c grid.Coord, mode NeighborMode) []int32 {
	var out []int32
	switch mode {
	case NeighborFaceAdjacent:
		out = append(out, g.GetPointsInCell(c)...)
		grid.FaceNeighbors(c, g.cellShape.Dims, func(n grid.Coord) {
			out = append(out, g.GetPointsInCell(n)...)
		})
	default:
		g.forEachBlockOffset(func(d grid.Coord) {
			out = append(out, g.GetPointsInCell(c.Add(d))...)
		})
	}
	return out
}

// GetFaceNeighbors reports particle indices within the union of the 3^N
// neighborhoods of the two cells adjoining the face at coordinate c on
// axis, i.e. up to 2·3^N cells' worth of particles (§4.7). c is expressed
// in the face grid's own coordinate space (Shape.Face(axis)).
func (g *Grid) GetFaceNeighbors(c grid.Coord, axis int) []int32 {
	loVal := axisValue(c, axis) - 1
	hiVal := axisValue(c, axis)

	var out []int32
	seen := map[grid.Coord]bool{}
	for _, cellVal := range []int32{loVal, hiVal} {
		if cellVal < 0 || cellVal >= cellExtent(g.cellShape, axis) {
			continue
		}
		base := withAxis(c, axis, cellVal)
		g.forEachBlockOffset(func(d grid.Coord) {
			n := base.Add(d)
			if !g.cellShape.InBounds(n) || seen[n] {
				return
			}
			seen[n] = true
			out = append(out, g.GetPointsInCell(n)...)
		})
	}
	return out
}

// forEachBlockOffset visits the 3^N relative offsets {-1,0,1}^dims,
// skipping axis Z when the grid is 2D.
func (g *Grid) forEachBlockOffset(fn func(d grid.Coord)) {
	for dz := int32(-1); dz <= 1; dz++ {
		if g.cellShape.Dims == grid.Dims2 && dz != 0 {
			continue
		}
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				fn(grid.Coord{X: dx, Y: dy, Z: dz})
			}
		}
	}
}

func axisValue(c grid.Coord, axis int) int32 {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

func withAxis(c grid.Coord, axis int, v int32) grid.Coord {
	switch axis {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	default:
		c.Z = v
	}
	return c
}

func cellExtent(s grid.Shape, axis int) int32 {
	switch axis {
	case 0:
		return s.X
	case 1:
		return s.Y
	default:
		return s.Z
	}
}
