package mac

import (
	"testing"

	"github.com/pthm-cable/flipgrid/grid"
)

func newUniformMAC(cellShape grid.Shape) *Grid[float64] {
	return NewUniform[float64](cellShape, grid.Options{Backend: grid.BackendDense})
}

func TestFaceShapesMatchSpecExample(t *testing.T) {
	// §8 "MAC face shape": 3D MAC grid on shape (4,5,6): axis 0 subgrid has
	// shape (5,5,6), axis 1 has (4,6,6), axis 2 has (4,5,7).
	g := newUniformMAC(grid.NewShape3(4, 5, 6))

	want := []grid.Shape{
		grid.NewShape3(5, 5, 6),
		grid.NewShape3(4, 6, 6),
		grid.NewShape3(4, 5, 7),
	}
	for d, w := range want {
		got := g.Axis(d).Shape()
		if got != w {
			t.Errorf("axis %d shape = %+v, want %+v", d, got, w)
		}
	}
}

func TestAxisIsolation(t *testing.T) {
	// §8 "MAC axis isolation": writing to axis 0 at (0,0,0) does not change
	// reads on axes 1 or 2.
	g := newUniformMAC(grid.NewShape3(4, 5, 6))

	g.Set(1, grid.At3(0, 0, 0), func(p *float64, a *bool) { *p = 9; *a = true })
	g.Set(2, grid.At3(0, 0, 0), func(p *float64, a *bool) { *p = 9; *a = true })

	g.Set(0, grid.At3(0, 0, 0), func(p *float64, a *bool) { *p = 1; *a = true })

	v0, a0, _ := g.Get(0, grid.At3(0, 0, 0))
	if !a0 || *v0 != 1 {
		t.Fatalf("axis 0 = (%v,%v), want (1,true)", v0, a0)
	}
	v1, a1, _ := g.Get(1, grid.At3(0, 0, 0))
	if !a1 || *v1 != 9 {
		t.Errorf("axis 1 changed by axis-0 write: (%v,%v), want (9,true)", v1, a1)
	}
	v2, a2, _ := g.Get(2, grid.At3(0, 0, 0))
	if !a2 || *v2 != 9 {
		t.Errorf("axis 2 changed by axis-0 write: (%v,%v), want (9,true)", v2, a2)
	}
}

func TestToCellCenteredOnlyPopulatesFullyBoundedCells(t *testing.T) {
	cellShape := grid.NewShape2(3, 3)
	g := newUniformMAC(cellShape)

	c := grid.At(1, 1)
	// Activate all 4 bounding faces of the single interior cell (1,1) with
	// a known average per axis.
	g.Set(0, grid.At(1, 1), func(p *float64, a *bool) { *p = 2; *a = true })
	g.Set(0, grid.At(2, 1), func(p *float64, a *bool) { *p = 4; *a = true })
	g.Set(1, grid.At(1, 1), func(p *float64, a *bool) { *p = 10; *a = true })
	g.Set(1, grid.At(1, 2), func(p *float64, a *bool) { *p = 20; *a = true })

	out := ToCellCentered(g)
	v, active, _ := out.Get(c)
	if !active {
		t.Fatal("cell (1,1) should be populated once all 4 bounding faces are active")
	}
	if v.X != 3 || v.Y != 15 {
		t.Errorf("got %+v, want X=3 Y=15", *v)
	}

	_, otherActive, _ := out.Get(grid.At(0, 0))
	if otherActive {
		t.Error("cell (0,0) should stay unpopulated; its faces were never activated")
	}
}

func TestToFaceVectorsCarriesOwnComponentAndSamplesOthers(t *testing.T) {
	cellShape := grid.NewShape2(3, 3)
	g := newUniformMAC(cellShape)

	// Own-axis (0) face value.
	faceC := grid.At(1, 1)
	g.Set(0, faceC, func(p *float64, a *bool) { *p = 5; *a = true })

	// Axis-1 faces surrounding the two cells (0,1) and (1,1) adjoining
	// face-0 index 1: cell (0,1) e-faces at y=1,2; cell (1,1) e-faces at
	// y=1,2.
	for _, c := range []grid.Coord{grid.At(0, 1), grid.At(0, 2), grid.At(1, 1), grid.At(1, 2)} {
		cc := c
		g.Set(1, cc, func(p *float64, a *bool) { *p = 8; *a = true })
	}

	out := ToFaceVectors(g, 0)
	v, active, _ := out.Get(faceC)
	if !active {
		t.Fatal("face (1,1) on axis 0 should be populated; its own component is active")
	}
	if v.X != 5 {
		t.Errorf("own component X = %v, want 5", v.X)
	}
	if v.Y != 8 {
		t.Errorf("cross-sampled Y = %v, want 8 (all 4 neighbor samples were 8)", v.Y)
	}
}

func TestToFaceVectorsSkipsInactiveOwnFace(t *testing.T) {
	cellShape := grid.NewShape2(3, 3)
	g := newUniformMAC(cellShape)
	out := ToFaceVectors(g, 0)
	_, active, _ := out.Get(grid.At(1, 1))
	if active {
		t.Error("a face with no own-axis value set should not appear in the output")
	}
}
