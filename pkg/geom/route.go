package geom

// Arrowhead dimensions, in canvas units. The tip sits on the target boundary
// point; the base is offset back along the connection direction.
const (
	arrowLength    = 12.0
	arrowHalfWidth = 5.0
)

// Route computes the connection endpoints between two rectangles.
//
// For each rectangle the midpoints of its four sides are candidates. A side
// pair is considered valid when it matches the relative arrangement of the
// two rectangle centers: a target center to the right admits only
// source-right → target-left, and analogously for left, above and below.
// Among the valid pairs the one with the smallest Euclidean distance wins.
//
// When no pair is valid (overlapping or concentric rectangles) Route falls
// back to the globally shortest pair over all sixteen combinations. The
// fallback looks redundant with the primary search but is kept so degenerate
// geometry still yields usable endpoints instead of a zero line.
func Route(src, dst Rect) (Point, Point) {
	d := dst.Center().Sub(src.Center())

	type pair struct{ s, t Side }
	var valid []pair
	if d.X > 0 {
		valid = append(valid, pair{SideRight, SideLeft})
	}
	if d.X < 0 {
		valid = append(valid, pair{SideLeft, SideRight})
	}
	if d.Y > 0 {
		valid = append(valid, pair{SideBottom, SideTop})
	}
	if d.Y < 0 {
		valid = append(valid, pair{SideTop, SideBottom})
	}

	if len(valid) > 0 {
		best := valid[0]
		bestDist := src.Midpoint(best.s).DistanceTo(dst.Midpoint(best.t))
		for _, p := range valid[1:] {
			if dist := src.Midpoint(p.s).DistanceTo(dst.Midpoint(p.t)); dist < bestDist {
				best, bestDist = p, dist
			}
		}
		return src.Midpoint(best.s), dst.Midpoint(best.t)
	}

	// Degenerate arrangement: ignore side validity entirely.
	bestS, bestT := src.Midpoint(SideTop), dst.Midpoint(SideTop)
	bestDist := bestS.DistanceTo(bestT)
	for _, ss := range Sides {
		for _, ts := range Sides {
			sp, tp := src.Midpoint(ss), dst.Midpoint(ts)
			if dist := sp.DistanceTo(tp); dist < bestDist {
				bestS, bestT, bestDist = sp, tp, dist
			}
		}
	}
	return bestS, bestT
}

// Arrowhead returns the triangular arrowhead polygon for a connection ending
// at to. The tip is at to; the two base corners are offset from the tip by a
// fixed length along the reverse connection direction and a fixed half-width
// perpendicular to it.
//
// The second return value is false when from and to coincide, in which case
// no direction exists and no polygon is produced.
func Arrowhead(from, to Point) ([3]Point, bool) {
	dir, ok := to.Sub(from).Unit()
	if !ok {
		return [3]Point{}, false
	}

	base := to.Add(dir.Scale(-arrowLength))
	side := dir.Perp().Scale(arrowHalfWidth)
	return [3]Point{
		to,
		base.Add(side),
		base.Add(side.Scale(-1)),
	}, true
}
