package physics

import (
	"math"
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	v, ok := Vec{3, 4}.Normalize()
	if !ok || math.Abs(v.X-0.6) > 1e-9 || math.Abs(v.Y-0.8) > 1e-9 {
		t.Fatalf("Normalize(3,4) = %v, %v", v, ok)
	}
	if _, ok := (Vec{}).Normalize(); ok {
		t.Fatal("zero vector should not normalize")
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 2)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-2) > 1e-9 {
		t.Fatalf("FromAngle(pi/2, 2) = %v", v)
	}
}

func TestRectClampAndContains(t *testing.T) {
	r := Rect{MinX: 88, MinY: 48, MaxX: 1192, MaxY: 672}
	tests := []struct {
		in, want Vec
	}{
		{Vec{0, 0}, Vec{88, 48}},
		{Vec{2000, 1000}, Vec{1192, 672}},
		{Vec{500, 300}, Vec{500, 300}},
	}
	for _, tt := range tests {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !r.Contains(Vec{80, 48}, 10) {
		t.Error("point inside margin should be contained")
	}
	if r.Contains(Vec{70, 48}, 10) {
		t.Error("point outside margin should not be contained")
	}
}

func TestCirclesOverlap(t *testing.T) {
	if !CirclesOverlap(Vec{0, 0}, 5, Vec{9, 0}, 5) {
		t.Error("circles 9 apart with radii 5 should overlap")
	}
	if CirclesOverlap(Vec{0, 0}, 5, Vec{10, 0}, 5) {
		t.Error("touching circles should not overlap")
	}
}

func TestSpatialGridQueryAround(t *testing.T) {
	g := NewSpatialGrid(1280, 720, 80)
	g.Insert(Vec{100, 100}, 1)
	g.Insert(Vec{170, 170}, 2)
	g.Insert(Vec{900, 600}, 3)
	g.Insert(Vec{-40, 900}, 4) // off the field, lands in an edge cell

	var got []int
	g.QueryAround(Vec{120, 120}, func(i int) bool {
		got = append(got, i)
		return false
	})
	slices.Sort(got)
	if !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("QueryAround = %v, want [1 2]", got)
	}

	got = got[:0]
	g.QueryAround(Vec{0, 719}, func(i int) bool {
		got = append(got, i)
		return false
	})
	if !slices.Equal(got, []int{4}) {
		t.Fatalf("edge query = %v, want [4]", got)
	}

	g.Clear()
	g.QueryAround(Vec{120, 120}, func(int) bool {
		t.Fatal("grid should be empty after Clear")
		return true
	})
}
