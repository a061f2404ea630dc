// Package grid implements the sparse, spatially-tiled, N-dimensional
// (2D/3D) cell-indexed grid engine: three interchangeable back-ends (dense,
// flat-tiled, recursive-tree) behind one contract, plus a bit-only variant,
// dilate/erode morphology, flood-fill classification and a population-count
// helper.
//
// A grid cell carries an opaque fixed-size payload (T), an active bit and a
// filled bit. Turning a cell active initializes its payload via a
// caller-supplied closure; turning it inactive drops the payload. Bit-only
// grids instantiate Grid[struct{}], which the Go compiler lays out with zero
// size, matching the C++ original's B=0 "elided storage" case without a
// second code path.
package grid

import "fmt"

// Dims is the number of spatial axes a grid spans. Only 2 and 3 are
// supported; other values are a caller error.
type Dims int

const (
	Dims2 Dims = 2
	Dims3 Dims = 3
)

// Shape is the extent of a grid along each axis. Grids carry Dims==2 or
// Dims==3; for 2D shapes Z is fixed at 1 so that back-end code is written
// once and dimension-generic, rather than duplicated per axis count the way
// the original C++ (array2/array3) does.
type Shape struct {
	Dims    Dims
	X, Y, Z int32
}

// NewShape2 builds a 2D shape.
func NewShape2(x, y int32) Shape {
	return Shape{Dims: Dims2, X: x, Y: y, Z: 1}
}

// NewShape3 builds a 3D shape.
func NewShape3(x, y, z int32) Shape {
	return Shape{Dims: Dims3, X: x, Y: y, Z: z}
}

// Validate checks that the shape is well-formed.
func (s Shape) Validate() error {
	if s.Dims != Dims2 && s.Dims != Dims3 {
		return fmt.Errorf("grid: invalid Dims %d", s.Dims)
	}
	if s.X < 0 || s.Y < 0 || s.Z < 0 {
		return fmt.Errorf("grid: negative extent in shape %+v", s)
	}
	if s.Dims == Dims2 && s.Z != 1 {
		return fmt.Errorf("grid: 2D shape must have Z=1, got %+v", s)
	}
	return nil
}

// Count returns the total number of cells, product(S).
func (s Shape) Count() int64 {
	return int64(s.X) * int64(s.Y) * int64(s.Z)
}

// Face returns the face shape of axis d: the extent along d incremented by
// one, others unchanged. Used to size MAC-grid components.
func (s Shape) Face(axis int) Shape {
	out := s
	switch axis {
	case 0:
		out.X++
	case 1:
		out.Y++
	case 2:
		if s.Dims != Dims3 {
			panic("grid: Face(2) requested on a 2D shape")
		}
		out.Z++
	default:
		panic(fmt.Sprintf("grid: invalid axis %d", axis))
	}
	return out
}

// InBounds reports whether c lies in [0,extent_d) on every axis.
func (s Shape) InBounds(c Coord) bool {
	if c.X < 0 || c.X >= s.X || c.Y < 0 || c.Y >= s.Y {
		return false
	}
	if s.Dims == Dims3 && (c.Z < 0 || c.Z >= s.Z) {
		return false
	}
	return true
}

// Encode linearizes a coordinate as n = x + y*W (+ z*W*H), lexicographic in
// (z,y,x) with x fastest.
func (s Shape) Encode(c Coord) int64 {
	n := int64(c.X) + int64(s.X)*int64(c.Y)
	if s.Dims == Dims3 {
		n += int64(s.X) * int64(s.Y) * int64(c.Z)
	}
	return n
}

// Decode is the inverse of Encode.
func (s Shape) Decode(n int64) Coord {
	x := int32(n % int64(s.X))
	n /= int64(s.X)
	y := int32(n % int64(s.Y))
	if s.Dims == Dims2 {
		return Coord{X: x, Y: y, Z: 0}
	}
	n /= int64(s.Y)
	z := int32(n)
	return Coord{X: x, Y: y, Z: z}
}

// Coord is an integer N-tuple cell coordinate. 2D coordinates carry Z==0 and
// it is ignored by 2D shapes.
type Coord struct {
	X, Y, Z int32
}

// At builds a 2D coordinate.
func At(x, y int32) Coord { return Coord{X: x, Y: y} }

// At3 builds a 3D coordinate.
func At3(x, y, z int32) Coord { return Coord{X: x, Y: y, Z: z} }

// Add returns c+d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

// NumAxes returns how many axes are meaningful for the given dims (2 or 3).
func NumAxes(d Dims) int {
	if d == Dims3 {
		return 3
	}
	return 2
}

// FaceNeighbors calls fn with each of the 2*N face-adjacent coordinates of c
// (two per axis, -1 and +1), skipping axis Z when dims==2.
func FaceNeighbors(c Coord, dims Dims, fn func(neighbor Coord)) {
	fn(Coord{X: c.X - 1, Y: c.Y, Z: c.Z})
	fn(Coord{X: c.X + 1, Y: c.Y, Z: c.Z})
	fn(Coord{X: c.X, Y: c.Y - 1, Z: c.Z})
	fn(Coord{X: c.X, Y: c.Y + 1, Z: c.Z})
	if dims == Dims3 {
		fn(Coord{X: c.X, Y: c.Y, Z: c.Z - 1})
		fn(Coord{X: c.X, Y: c.Y, Z: c.Z + 1})
	}
}

// Iterate calls fn for every cell of the shape in lexicographic order (x
// fastest, then y, then z). Returning true from fn stops the scan early.
func (s Shape) Iterate(fn func(c Coord) (stop bool)) {
	for z := int32(0); z < s.Z; z++ {
		for y := int32(0); y < s.Y; y++ {
			for x := int32(0); x < s.X; x++ {
				if fn(Coord{X: x, Y: y, Z: z}) {
					return
				}
			}
		}
		if s.Dims == Dims2 {
			break
		}
	}
}
