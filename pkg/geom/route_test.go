package geom

import "testing"

func TestRouteSideSelection(t *testing.T) {
	tests := []struct {
		name     string
		src, dst Rect
		wantSrc  Point
		wantDst  Point
	}{
		{
			name:    "target to the right",
			src:     Rect{0, 0, 100, 50},
			dst:     Rect{300, 0, 100, 50},
			wantSrc: Point{100, 25},
			wantDst: Point{300, 25},
		},
		{
			name:    "target to the left",
			src:     Rect{300, 0, 100, 50},
			dst:     Rect{0, 0, 100, 50},
			wantSrc: Point{300, 25},
			wantDst: Point{100, 25},
		},
		{
			name:    "target below",
			src:     Rect{0, 0, 100, 50},
			dst:     Rect{0, 200, 100, 50},
			wantSrc: Point{50, 50},
			wantDst: Point{50, 200},
		},
		{
			name:    "target above",
			src:     Rect{0, 200, 100, 50},
			dst:     Rect{0, 0, 100, 50},
			wantSrc: Point{50, 200},
			wantDst: Point{50, 50},
		},
		{
			// Both a horizontal and a vertical pair are valid; the mostly
			// horizontal offset makes right→left the shorter one.
			name:    "diagonal favors shorter pair",
			src:     Rect{0, 0, 100, 50},
			dst:     Rect{400, 80, 100, 50},
			wantSrc: Point{100, 25},
			wantDst: Point{400, 105},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSrc, gotDst := Route(tt.src, tt.dst)
			if gotSrc != tt.wantSrc || gotDst != tt.wantDst {
				t.Errorf("Route() = %v → %v, want %v → %v",
					gotSrc, gotDst, tt.wantSrc, tt.wantDst)
			}
		})
	}
}

// Whenever at least one side pairing matches the center arrangement, Route
// must never return a pairing that contradicts it.
func TestRouteNeverInvalidWhenValidExists(t *testing.T) {
	src := Rect{0, 0, 80, 40}
	dsts := []Rect{
		{200, 0, 80, 40},     // right
		{-200, 0, 80, 40},    // left
		{0, 150, 80, 40},     // below
		{0, -150, 80, 40},    // above
		{200, 150, 80, 40},   // right-below
		{-200, -150, 80, 40}, // left-above
	}

	for _, dst := range dsts {
		sp, tp := Route(src, dst)
		d := dst.Center().Sub(src.Center())

		// A valid result leaves through the facing half of the source
		// rectangle: e.g. with the target to the right the source point
		// cannot sit on the left side.
		if d.X > 0 && sp.X == src.X && sp.Y == src.Y+src.Height/2 {
			t.Errorf("dst %v: routed out of the left side with target to the right", dst)
		}
		if d.X < 0 && sp.X == src.Right() && sp.Y == src.Y+src.Height/2 {
			t.Errorf("dst %v: routed out of the right side with target to the left", dst)
		}
		if d.Y > 0 && sp.Y == src.Y && sp.X == src.X+src.Width/2 {
			t.Errorf("dst %v: routed out of the top side with target below", dst)
		}
		if d.Y < 0 && sp.Y == src.Bottom() && sp.X == src.X+src.Width/2 {
			t.Errorf("dst %v: routed out of the bottom side with target above", dst)
		}
		if tp == sp {
			t.Errorf("dst %v: coincident endpoints", dst)
		}
	}
}

func TestRouteFallbackConcentric(t *testing.T) {
	// Identical rectangles share a center: no side pair is valid and the
	// fallback must still produce endpoints from the candidate midpoints.
	r := Rect{10, 10, 60, 30}
	sp, tp := Route(r, r)

	onBoundary := func(p Point) bool {
		for _, s := range Sides {
			if r.Midpoint(s) == p {
				return true
			}
		}
		return false
	}
	if !onBoundary(sp) || !onBoundary(tp) {
		t.Errorf("Route(r, r) = %v → %v, endpoints not on side midpoints", sp, tp)
	}
}

func TestArrowhead(t *testing.T) {
	tri, ok := Arrowhead(Point{0, 0}, Point{100, 0})
	if !ok {
		t.Fatal("Arrowhead() reported degenerate direction for distinct points")
	}

	if tri[0] != (Point{100, 0}) {
		t.Errorf("tip = %v, want {100 0}", tri[0])
	}
	// Base corners sit arrowLength behind the tip, arrowHalfWidth to each side.
	if tri[1] != (Point{100 - arrowLength, arrowHalfWidth}) {
		t.Errorf("base[0] = %v, want {%v %v}", tri[1], 100-arrowLength, arrowHalfWidth)
	}
	if tri[2] != (Point{100 - arrowLength, -arrowHalfWidth}) {
		t.Errorf("base[1] = %v, want {%v %v}", tri[2], 100-arrowLength, -arrowHalfWidth)
	}
}

func TestArrowheadZeroLength(t *testing.T) {
	if _, ok := Arrowhead(Point{5, 5}, Point{5, 5}); ok {
		t.Error("Arrowhead() should not produce a polygon for coincident points")
	}
}
