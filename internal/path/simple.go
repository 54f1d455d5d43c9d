package path

import (
	"math"

	"github.com/vovakirdan/sweep/internal/core"
)

// SimplePath is a polyline through points ordered by increasing x.
// With time on the x axis it describes an edge coordinate over several waypoints.
type SimplePath struct {
	points []core.Point
	lines  []core.LineSegment
}

// NewSimplePath starts a path at the given point.
func NewSimplePath(start core.Point) *SimplePath {
	return &SimplePath{points: []core.Point{start}}
}

// AddPoint extends the path with a segment from the last point to p.
func (s *SimplePath) AddPoint(p core.Point) {
	s.lines = append(s.lines, core.NewLineSegment(s.LastPoint(), p))
	s.points = append(s.points, p)
}

// Points returns the waypoints in order.
func (s *SimplePath) Points() []core.Point {
	return s.points
}

// Lines returns the segments between consecutive points.
func (s *SimplePath) Lines() []core.LineSegment {
	return s.lines
}

// FirstLine returns the first segment. A single-point path yields a degenerate segment.
func (s *SimplePath) FirstLine() core.LineSegment {
	if len(s.lines) == 0 {
		return core.NewLineSegment(s.points[0], s.points[0])
	}
	return s.lines[0]
}

// LastLine returns the last segment.
func (s *SimplePath) LastLine() core.LineSegment {
	if len(s.lines) == 0 {
		return s.FirstLine()
	}
	return s.lines[len(s.lines)-1]
}

// LastPoint returns the most recently added point.
func (s *SimplePath) LastPoint() core.Point {
	return s.points[len(s.points)-1]
}

// YAt evaluates the path at x using the segment whose x extent contains it.
func (s *SimplePath) YAt(x float64) (float64, bool) {
	for _, l := range s.lines {
		if l.ContainsX(x, 0) {
			if l.IsVertical {
				return l.Start.Y, true
			}
			return l.YAt(x), true
		}
	}
	if len(s.lines) == 0 && s.points[0].X == x {
		return s.points[0].Y, true
	}
	return 0, false
}

// ContainsX reports whether x lies within the path's x extent.
func (s *SimplePath) ContainsX(x, tolerance float64) bool {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range s.points {
		lo = math.Min(lo, p.X)
		hi = math.Max(hi, p.X)
	}
	return core.IsBetweenValues(lo, hi, x, tolerance)
}
