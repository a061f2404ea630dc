package mac

import "github.com/pthm-cable/flipgrid/grid"

// Vector is an N-component sample; 2D grids leave Z at zero and ignore it.
type Vector struct {
	X, Y, Z float64
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

// ToCellCentered reduces a float64 MAC grid to cell-centered vectors
// (§4.2): a cell is populated only when all 2N of its bounding faces are
// active, with each component taken as the average of its two opposing
// face values.
func ToCellCentered(g *Grid[float64]) grid.Grid[Vector] {
	out := grid.New[Vector](g.cellShape, grid.Options{Backend: grid.BackendDense})
	g.cellShape.Iterate(func(c grid.Coord) bool {
		var v Vector
		complete := true
		for d := 0; d < g.NumAxes(); d++ {
			loC := c
			hiC := withAxis(c, d, axisValue(c, d)+1)
			loV, loActive, _ := g.axes[d].Get(loC)
			hiV, hiActive, _ := g.axes[d].Get(hiC)
			if !loActive || !hiActive {
				complete = false
				break
			}
			avg := (*loV + *hiV) / 2
			switch d {
			case 0:
				v.X = avg
			case 1:
				v.Y = avg
			case 2:
				v.Z = avg
			}
		}
		if complete {
			out.Set(c, func(p *Vector, active *bool) { *p = v; *active = true })
		}
		return false
	})
	return out
}

// ToFaceVectors is the float64 specialization of the per-axis full-vector
// expansion described in §4.2: the axis's own component plus the other axes
// sampled from the 4-neighbor block of their own face grids and averaged,
// clamped at boundaries. It is a free function (rather than a method on
// Grid[T]) because Go forbids specializing a generic method for one
// instantiation of T. Faces whose own-axis component is inactive are
// skipped; faces where every cross-axis neighbor is out of bounds or
// inactive leave that component at zero.
func ToFaceVectors(g *Grid[float64], axis int) grid.Grid[Vector] {
	g.checkAxis(axis)
	faceShape := g.axes[axis].Shape()
	out := grid.New[Vector](faceShape, grid.Options{Backend: grid.BackendDense})

	faceShape.Iterate(func(c grid.Coord) bool {
		ownV, ownActive, _ := g.axes[axis].Get(c)
		if !ownActive {
			return false
		}
		v := Vector{}
		setComponent(&v, axis, *ownV)

		for e := 0; e < g.NumAxes(); e++ {
			if e == axis {
				continue
			}
			sum, n := 0.0, 0
			// The face at (axis, c) sits between cells c[axis]-1 and c[axis]
			// along axis; sample axis e's own faces around both of those
			// cells (up to four samples), skipping out-of-bounds or inactive
			// ones (clamped at boundaries).
			for _, cellAxisVal := range []int32{axisValue(c, axis) - 1, axisValue(c, axis)} {
				if cellAxisVal < 0 || cellAxisVal >= cellExtent(g.cellShape, axis) {
					continue
				}
				cellCoord := withAxis(c, axis, cellAxisVal)
				for _, eFace := range []int32{axisValue(cellCoord, e), axisValue(cellCoord, e) + 1} {
					sampleC := withAxis(cellCoord, e, eFace)
					eShape := g.axes[e].Shape()
					if !eShape.InBounds(sampleC) {
						continue
					}
					sv, sActive, _ := g.axes[e].Get(sampleC)
					if !sActive {
						continue
					}
					sum += *sv
					n++
				}
			}
			if n > 0 {
				setComponent(&v, e, sum/float64(n))
			}
		}
		out.Set(c, func(p *Vector, active *bool) { *p = v; *active = true })
		return false
	})
	return out
}

func setComponent(v *Vector, axis int, val float64) {
	switch axis {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	}
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
