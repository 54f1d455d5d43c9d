package path

import (
	"github.com/vovakirdan/sweep/internal/core"
)

// Waypoint is a box position at a time offset within the path.
type Waypoint struct {
	Time float64
	Rect core.Rect
}

// Edges holds one SimplePath per bounding-box edge.
type Edges struct {
	Left, Right, Top, Bottom *SimplePath
}

// Path is the motion of a box through several waypoints, piecewise linear in time.
type Path struct {
	waypoints []Waypoint
}

// NewPath starts a path at t = 0 with the given box.
func NewPath(start core.Rect) *Path {
	return &Path{waypoints: []Waypoint{{Time: 0, Rect: start}}}
}

// FromObjectPath converts a two-snapshot path into a two-waypoint Path.
func FromObjectPath(p ObjectPath) *Path {
	out := NewPath(p.Prev)
	out.AddWaypoint(p.Duration, p.Current)
	return out
}

// AddWaypoint appends a position reached at time t.
// Waypoints must be added in increasing time; out-of-order waypoints are ignored.
func (p *Path) AddWaypoint(t float64, r core.Rect) bool {
	if t <= p.waypoints[len(p.waypoints)-1].Time {
		return false
	}
	p.waypoints = append(p.waypoints, Waypoint{Time: t, Rect: r})
	return true
}

// Waypoints returns every waypoint in time order.
func (p *Path) Waypoints() []Waypoint {
	return p.waypoints
}

// Duration is the time of the last waypoint.
func (p *Path) Duration() float64 {
	return p.waypoints[len(p.waypoints)-1].Time
}

// Edges builds the four edge-over-time paths.
func (p *Path) Edges() Edges {
	first := p.waypoints[0]
	e := Edges{
		Left:   NewSimplePath(core.P(first.Time, first.Rect.X)),
		Right:  NewSimplePath(core.P(first.Time, first.Rect.Right())),
		Top:    NewSimplePath(core.P(first.Time, first.Rect.Y)),
		Bottom: NewSimplePath(core.P(first.Time, first.Rect.Bottom())),
	}
	for _, w := range p.waypoints[1:] {
		e.Left.AddPoint(core.P(w.Time, w.Rect.X))
		e.Right.AddPoint(core.P(w.Time, w.Rect.Right()))
		e.Top.AddPoint(core.P(w.Time, w.Rect.Y))
		e.Bottom.AddPoint(core.P(w.Time, w.Rect.Bottom()))
	}
	return e
}

// RectAt returns the interpolated box at time t, clamped to the path's time span.
func (p *Path) RectAt(t float64) core.Rect {
	if t <= 0 {
		return p.waypoints[0].Rect
	}
	for i := 1; i < len(p.waypoints); i++ {
		from, to := p.waypoints[i-1], p.waypoints[i]
		if t <= to.Time {
			return from.Rect.Lerp(to.Rect, (t-from.Time)/(to.Time-from.Time))
		}
	}
	return p.waypoints[len(p.waypoints)-1].Rect
}
