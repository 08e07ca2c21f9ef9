// Package geom provides the 2D primitives and connection routing used by the
// diagram canvas.
//
// The central operation is [Route], which picks one boundary point on each of
// two axis-aligned rectangles so that a straight connection line between them
// leaves and enters through the sides facing each other. [Arrowhead] turns the
// chosen endpoint pair into a triangular polygon anchored at the target point.
package geom

import "math"

// Point is a position in canvas coordinates.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by v.
func (p Point) Add(v Vec) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec { return Vec{p.X - q.X, p.Y - q.Y} }

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Vec is a 2D displacement.
type Vec struct {
	X float64
	Y float64
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Unit returns the unit vector in the direction of v and true, or the zero
// vector and false when v has zero length.
func (v Vec) Unit() (Vec, bool) {
	l := v.Len()
	if l == 0 {
		return Vec{}, false
	}
	return Vec{v.X / l, v.Y / l}, true
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec) Perp() Vec { return Vec{-v.Y, v.X} }

// Rect is an axis-aligned rectangle identified by its top-left corner.
// Width and Height must be non-negative; the zero value is a degenerate
// rectangle at the origin.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside the rectangle, right and bottom
// edges excluded.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Translate returns the rectangle moved by v.
func (r Rect) Translate(v Vec) Rect {
	return Rect{r.X + v.X, r.Y + v.Y, r.Width, r.Height}
}

// Side identifies one of the four sides of a rectangle.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Midpoint returns the midpoint of the given side of the rectangle.
func (r Rect) Midpoint(s Side) Point {
	switch s {
	case SideTop:
		return Point{r.X + r.Width/2, r.Y}
	case SideBottom:
		return Point{r.X + r.Width/2, r.Y + r.Height}
	case SideLeft:
		return Point{r.X, r.Y + r.Height/2}
	default:
		return Point{r.X + r.Width, r.Y + r.Height/2}
	}
}

// Sides lists all four sides in a fixed order, used when enumerating
// candidate side pairs.
var Sides = [4]Side{SideTop, SideBottom, SideLeft, SideRight}
