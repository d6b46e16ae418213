// Package physics provides vector math, playfield bounds and overlap tests.
package physics

import "math"

// Vec is a 2D point or direction in playfield pixels.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length. The second result is false for
// the zero vector, which is returned unchanged.
func (v Vec) Normalize() (Vec, bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return v, false
	}
	return Vec{v.X / l, v.Y / l}, true
}

// FromAngle returns a vector of the given length pointing at angle radians.
// Angle 0 points right; positive angles turn towards +Y (down the screen).
func FromAngle(angle, length float64) Vec {
	return Vec{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap. Touching circles do not.
func CirclesOverlap(a Vec, ra float64, b Vec, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a.X, a.Y, b.X, b.Y) < minDist*minDist
}

// Rect is an axis-aligned rectangle with inclusive edges.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Clamp returns p moved inside r.
func (r Rect) Clamp(p Vec) Vec {
	return Vec{
		X: math.Max(r.MinX, math.Min(r.MaxX, p.X)),
		Y: math.Max(r.MinY, math.Min(r.MaxY, p.Y)),
	}
}

// Contains reports whether p lies inside r grown by margin on every side.
func (r Rect) Contains(p Vec, margin float64) bool {
	return p.X >= r.MinX-margin && p.X <= r.MaxX+margin &&
		p.Y >= r.MinY-margin && p.Y <= r.MaxY+margin
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }
