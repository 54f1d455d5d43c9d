// Package core provides the geometric primitives the collision engine is built on.
// It contains no external dependencies to keep the math pure and testable.
package core

import "math"

// Point is an immutable (x, y) pair.
type Point struct {
	X, Y float64
}

// P is shorthand for constructing a Point.
func P(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Range is a closed interval [Start, End].
// Start <= End is not enforced; [0, 0] is used by callers to mean "no overlap".
type Range struct {
	Start, End float64
}

// Less orders ranges by start, then by end.
func (r Range) Less(other Range) bool {
	if r.Start == other.Start {
		return r.End < other.End
	}
	return r.Start < other.Start
}

// Contains returns true if v lies within [Start, End].
func (r Range) Contains(v float64) bool {
	return v >= r.Start && v <= r.End
}

// IsZero returns true for the degenerate [0, 0] range.
func (r Range) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// IsNegative returns true if both endpoints lie before zero.
func (r Range) IsNegative() bool {
	return r.Start < 0 && r.End < 0
}

// Overlaps returns true if the two ranges share at least one instant.
func (r Range) Overlaps(other Range) bool {
	smaller, bigger := r, other
	if !r.Less(other) {
		smaller, bigger = other, r
	}
	return smaller.End >= bigger.Start
}

// Rect represents an axis-aligned bounding box.
// Y grows downward, so Bottom is Y + H.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Intersects returns true if this rectangle overlaps with another.
// Flush edges do not count as overlap.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Lerp linearly interpolates between r (frac = 0) and to (frac = 1).
func (r Rect) Lerp(to Rect, frac float64) Rect {
	return Rect{
		X: r.X + (to.X-r.X)*frac,
		Y: r.Y + (to.Y-r.Y)*frac,
		W: r.W + (to.W-r.W)*frac,
		H: r.H + (to.H-r.H)*frac,
	}
}

// TruncateTo drops every decimal past places, truncating toward zero.
// Tolerance checks throughout the engine are tuned against truncation, not rounding.
func TruncateTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Trunc(v*scale) / scale
}

// IsWithinRange returns true if got lies within want +- tolerance.
func IsWithinRange(want, got, tolerance float64) bool {
	return got >= want-tolerance && got <= want+tolerance
}

// IsBetweenValues returns true if got lies within [lo - tolerance, hi + tolerance].
func IsBetweenValues(lo, hi, got, tolerance float64) bool {
	return got >= lo-tolerance && got <= hi+tolerance
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
