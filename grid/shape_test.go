package grid

import "testing"

func TestShapeEncodeDecodeRoundTrip(t *testing.T) {
	shapes := []Shape{
		NewShape2(5, 7),
		NewShape3(3, 4, 5),
	}
	for _, s := range shapes {
		s.Iterate(func(c Coord) bool {
			n := s.Encode(c)
			got := s.Decode(n)
			if got != c {
				t.Errorf("shape %+v: Decode(Encode(%+v)) = %+v", s, c, got)
			}
			return false
		})
	}
}

func TestShapeValidate(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{"valid 2d", NewShape2(4, 4), false},
		{"valid 3d", NewShape3(4, 4, 4), false},
		{"bad dims", Shape{Dims: 5, X: 1, Y: 1, Z: 1}, true},
		{"negative extent", Shape{Dims: Dims2, X: -1, Y: 1, Z: 1}, true},
		{"2d with z != 1", Shape{Dims: Dims2, X: 1, Y: 1, Z: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShapeFace(t *testing.T) {
	s := NewShape3(4, 5, 6)
	fx := s.Face(0)
	if fx.X != 5 || fx.Y != 5 || fx.Z != 6 {
		t.Errorf("Face(0) = %+v", fx)
	}
	fy := s.Face(1)
	if fy.X != 4 || fy.Y != 6 || fy.Z != 6 {
		t.Errorf("Face(1) = %+v", fy)
	}
	fz := s.Face(2)
	if fz.X != 4 || fz.Y != 5 || fz.Z != 7 {
		t.Errorf("Face(2) = %+v", fz)
	}
}

func TestShapeFacePanicsOnAxis2For2D(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic requesting Face(2) on a 2D shape")
		}
	}()
	NewShape2(4, 4).Face(2)
}

func TestShapeInBounds(t *testing.T) {
	s := NewShape2(3, 3)
	if !s.InBounds(At(0, 0)) || !s.InBounds(At(2, 2)) {
		t.Error("corner coordinates should be in bounds")
	}
	if s.InBounds(At(-1, 0)) || s.InBounds(At(3, 0)) || s.InBounds(At(0, 3)) {
		t.Error("out-of-range coordinates should not be in bounds")
	}
}

func TestFaceNeighbors2D(t *testing.T) {
	var got []Coord
	FaceNeighbors(At(1, 1), Dims2, func(n Coord) { got = append(got, n) })
	if len(got) != 4 {
		t.Fatalf("expected 4 face neighbors in 2D, got %d", len(got))
	}
}

func TestFaceNeighbors3D(t *testing.T) {
	var got []Coord
	FaceNeighbors(At3(1, 1, 1), Dims3, func(n Coord) { got = append(got, n) })
	if len(got) != 6 {
		t.Fatalf("expected 6 face neighbors in 3D, got %d", len(got))
	}
}

func TestShapeIterateCount(t *testing.T) {
	s := NewShape3(2, 3, 4)
	n := 0
	s.Iterate(func(c Coord) bool { n++; return false })
	if int64(n) != s.Count() {
		t.Errorf("Iterate visited %d cells, want %d", n, s.Count())
	}
}

func TestShapeIterateStopsEarly(t *testing.T) {
	s := NewShape2(10, 10)
	n := 0
	s.Iterate(func(c Coord) bool {
		n++
		return n == 5
	})
	if n != 5 {
		t.Errorf("Iterate did not stop early, visited %d", n)
	}
}
