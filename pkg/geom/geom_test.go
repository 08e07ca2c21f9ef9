package geom

import (
	"math"
	"testing"
)

func TestRectMidpoints(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 40, Height: 10}

	tests := []struct {
		side Side
		want Point
	}{
		{SideTop, Point{30, 20}},
		{SideBottom, Point{30, 30}},
		{SideLeft, Point{10, 25}},
		{SideRight, Point{50, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := r.Midpoint(tt.side); got != tt.want {
				t.Errorf("Midpoint(%v) = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestRectCenter(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	if got := r.Center(); got != (Point{50, 25}) {
		t.Errorf("Center() = %v, want {50 25}", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{15, 15}, true},
		{"top-left corner", Point{10, 10}, true},
		{"right edge excluded", Point{30, 15}, false},
		{"bottom edge excluded", Point{15, 30}, false},
		{"outside", Point{0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestVecUnit(t *testing.T) {
	u, ok := Vec{3, 4}.Unit()
	if !ok {
		t.Fatal("Unit() reported zero length for {3 4}")
	}
	if math.Abs(u.X-0.6) > 1e-9 || math.Abs(u.Y-0.8) > 1e-9 {
		t.Errorf("Unit() = %v, want {0.6 0.8}", u)
	}

	if _, ok := (Vec{}).Unit(); ok {
		t.Error("Unit() of zero vector should report false")
	}
}

func TestVecPerp(t *testing.T) {
	if got := (Vec{1, 0}).Perp(); got != (Vec{0, 1}) {
		t.Errorf("Perp({1 0}) = %v, want {0 1}", got)
	}
}
