package arena

import "math"

// Rect is an axis-aligned box anchored at its top-left corner
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the box
func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Overlaps reports whether two boxes share a region of non-zero area.
// Boxes that only touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.W &&
		a.X+a.W > b.X &&
		a.Y < b.Y+b.H &&
		a.Y+a.H > b.Y
}

// CircleRect checks a circle against a box using per-axis distances from the
// box center, falling back to the corner distance.
func CircleRect(c Vec, radius float64, r Rect) bool {
	hw, hh := r.W/2, r.H/2
	dx := math.Abs(c.X - (r.X + hw))
	dy := math.Abs(c.Y - (r.Y + hh))

	if dx > hw+radius || dy > hh+radius {
		return false
	}
	if dx <= hw || dy <= hh {
		return true
	}

	cx := dx - hw
	cy := dy - hh
	return cx*cx+cy*cy <= radius*radius
}

// WithinRadius checks if two points are strictly closer than radius
func WithinRadius(a, b Vec, radius float64) bool {
	return Distance(a, b) < radius
}
