// Package mac implements the MAC-staggered multi-component vector grid
// (§4.2): an ordered tuple of N scalar grids, one per axis, each sized to
// the face-shape of the cell grid along its own axis. It wraps grid.Grid
// rather than reimplementing storage, matching the teacher's habit of
// composing its systems packages out of smaller single-purpose grids
// (pthm-soup/systems/spatial.go composes an array of cell buckets the same
// way) instead of hand-rolling a new flat layout per component.
package mac

import (
	"fmt"

	"github.com/pthm-cable/flipgrid/grid"
)

// Grid is a staggered vector field: component d lives on Shape.Face(d) and
// its value at integer coordinate c is defined to sit on the face of cell c
// perpendicular to axis d.
type Grid[T any] struct {
	cellShape grid.Shape
	axes      []grid.Grid[T]
}

// New builds a MAC grid over cellShape with one component grid per axis,
// each constructed with newAxis(axis, faceShape) so callers can choose the
// back-end/options per component the way grid.New does for a single grid.
func New[T any](cellShape grid.Shape, newAxis func(axis int, faceShape grid.Shape) grid.Grid[T]) *Grid[T] {
	n := grid.NumAxes(cellShape.Dims)
	axes := make([]grid.Grid[T], n)
	for d := 0; d < n; d++ {
		axes[d] = newAxis(d, cellShape.Face(d))
	}
	return &Grid[T]{cellShape: cellShape, axes: axes}
}

// NewUniform builds a MAC grid whose every axis uses the same back-end and
// element options (the common case).
func NewUniform[T any](cellShape grid.Shape, opts grid.Options) *Grid[T] {
	return New[T](cellShape, func(axis int, faceShape grid.Shape) grid.Grid[T] {
		return grid.New[T](faceShape, opts)
	})
}

// CellShape returns the shape of the underlying cell grid (not any
// component's face shape).
func (g *Grid[T]) CellShape() grid.Shape { return g.cellShape }

// NumAxes returns how many axis components this MAC grid carries (2 or 3).
func (g *Grid[T]) NumAxes() int { return len(g.axes) }

// Axis returns the scalar grid backing component d. Operating on it only
// ever touches that axis (§8 "MAC axis isolation") since each component is
// an entirely separate grid.Grid instance.
func (g *Grid[T]) Axis(d int) grid.Grid[T] {
	g.checkAxis(d)
	return g.axes[d]
}

func (g *Grid[T]) checkAxis(d int) {
	if d < 0 || d >= len(g.axes) {
		panic(fmt.Sprintf("mac: axis %d out of range for %d-axis grid", d, len(g.axes)))
	}
}

// SetDriver installs a shared driver on every axis component.
func (g *Grid[T]) SetDriver(d grid.Driver) {
	for _, axis := range g.axes {
		axis.SetDriver(d)
	}
}

// ForEachAxis calls fn once per axis component; callers wanting the axes
// scanned concurrently should launch fn's body themselves (one scan per
// axis, as §4.2 describes) — this package does not impose concurrency.
func (g *Grid[T]) ForEachAxis(fn func(axis int, g grid.Grid[T])) {
	for d, axis := range g.axes {
		fn(d, axis)
	}
}

// Set mutates the face cell c on axis d.
func (g *Grid[T]) Set(axis int, c grid.Coord, fn func(payload *T, active *bool)) {
	g.checkAxis(axis)
	g.axes[axis].Set(c, fn)
}

// Get reads the face cell c on axis d.
func (g *Grid[T]) Get(axis int, c grid.Coord) (payload *T, active bool, filled bool) {
	g.checkAxis(axis)
	return g.axes[axis].Get(c)
}
