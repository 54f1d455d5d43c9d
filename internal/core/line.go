package core

import "math"

// AxisNudge is added to one endpoint of an axis-aligned segment so its slope
// stays finite and non-zero. The segment keeps its vertical/horizontal flag.
const AxisNudge = 1e-10

// LineSegment is the segment between two points, described by y = Slope*x + Intercept.
type LineSegment struct {
	Start, End   Point
	Slope        float64
	Intercept    float64
	IsVertical   bool
	IsHorizontal bool
}

// NewLineSegment builds a segment from start to end.
// Equal x (or y) coordinates are nudged apart by AxisNudge.
func NewLineSegment(start, end Point) LineSegment {
	l := LineSegment{Start: start, End: end}

	if l.Start.X == l.End.X {
		l.End.X += AxisNudge
		l.IsVertical = true
	}
	if l.Start.Y == l.End.Y {
		l.End.Y += AxisNudge
		l.IsHorizontal = true
	}

	l.Slope = (l.Start.Y - l.End.Y) / (l.Start.X - l.End.X)
	l.Intercept = l.Start.Y - l.Slope*l.Start.X
	return l
}

// Seg is shorthand for NewLineSegment(P(x1, y1), P(x2, y2)).
func Seg(x1, y1, x2, y2 float64) LineSegment {
	return NewLineSegment(P(x1, y1), P(x2, y2))
}

// YAt evaluates the underlying line at x.
func (l LineSegment) YAt(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// XAt solves the underlying line for x at y.
func (l LineSegment) XAt(y float64) float64 {
	return (y - l.Intercept) / l.Slope
}

// XBounds returns the segment's min and max x.
func (l LineSegment) XBounds() (lo, hi float64) {
	return math.Min(l.Start.X, l.End.X), math.Max(l.Start.X, l.End.X)
}

// YBounds returns the segment's min and max y.
func (l LineSegment) YBounds() (lo, hi float64) {
	return math.Min(l.Start.Y, l.End.Y), math.Max(l.Start.Y, l.End.Y)
}

// ContainsPoint reports whether p lies on the segment, allowing tolerance on every axis.
// Axis-aligned segments only check the bounding extents.
func (l LineSegment) ContainsPoint(p Point, tolerance float64) bool {
	xLo, xHi := l.XBounds()
	yLo, yHi := l.YBounds()

	inBounds := IsBetweenValues(xLo, xHi, p.X, tolerance) && IsBetweenValues(yLo, yHi, p.Y, tolerance)
	if l.IsVertical || l.IsHorizontal {
		return inBounds
	}
	return inBounds && IsWithinRange(l.YAt(p.X), p.Y, tolerance)
}

// ContainsX reports whether x lies within the segment's x extent.
func (l LineSegment) ContainsX(x, tolerance float64) bool {
	lo, hi := l.XBounds()
	return IsBetweenValues(lo, hi, x, tolerance)
}

// Length returns the distance from Start to End.
func (l LineSegment) Length() float64 {
	return Distance(l.Start, l.End)
}
