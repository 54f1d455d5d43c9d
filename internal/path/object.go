// Package path turns a body's (previous, current) snapshots into time-parameterized lines.
//
// Motion inside a frame is assumed linear: every edge moves at constant speed from its
// previous value at t = 0 to its current value at t = Duration.
package path

import "github.com/vovakirdan/sweep/internal/core"

// MatchDimensions returns a copy of prev resized to current's width and height.
// The copy is shifted by the size difference so a resize is not reported as motion.
func MatchDimensions(prev, current core.Rect) core.Rect {
	dw := current.W - prev.W
	dh := current.H - prev.H

	matched := prev
	matched.W = current.W
	matched.H = current.H
	matched.X -= dw
	matched.Y -= dh
	return matched
}

// TimeLines holds one line per bounding-box edge with time on the x axis
// and the edge coordinate on the y axis.
type TimeLines struct {
	Left, Right, Top, Bottom core.LineSegment
}

// ObjectPath is the straight-line motion of a box over one frame.
type ObjectPath struct {
	Prev     core.Rect
	Current  core.Rect
	Duration float64
}

// NewObjectPath builds a path from the previous snapshot to the current state.
// prev is reconciled with current's dimensions first.
func NewObjectPath(prev, current core.Rect, duration float64) ObjectPath {
	return ObjectPath{
		Prev:     MatchDimensions(prev, current),
		Current:  current,
		Duration: duration,
	}
}

// TimeLines returns the four edge lines over [0, Duration].
func (p ObjectPath) TimeLines() TimeLines {
	at := func(from, to float64) core.LineSegment {
		return core.NewLineSegment(core.P(0, from), core.P(p.Duration, to))
	}
	return TimeLines{
		Left:   at(p.Prev.X, p.Current.X),
		Right:  at(p.Prev.Right(), p.Current.Right()),
		Top:    at(p.Prev.Y, p.Current.Y),
		Bottom: at(p.Prev.Bottom(), p.Current.Bottom()),
	}
}

// Lines returns the trajectories of the four corners in x/y space:
// top-left, top-right, bottom-left, bottom-right.
func (p ObjectPath) Lines() []core.LineSegment {
	corner := func(dx, dy float64) core.LineSegment {
		return core.NewLineSegment(
			core.P(p.Prev.X+dx, p.Prev.Y+dy),
			core.P(p.Current.X+dx, p.Current.Y+dy),
		)
	}
	w, h := p.Current.W, p.Current.H
	return []core.LineSegment{
		corner(0, 0),
		corner(w, 0),
		corner(0, h),
		corner(w, h),
	}
}

// StartPoint is the top-left corner at t = 0.
func (p ObjectPath) StartPoint() core.Point {
	return p.Prev.Origin()
}

// TotalDistance is how far the top-left corner travels over the frame.
func (p ObjectPath) TotalDistance() float64 {
	return core.Distance(p.Prev.Origin(), p.Current.Origin())
}

// XYPoint maps a point on one of the corner lines back to the top-left corner's
// position at the moment that corner reached it.
func (p ObjectPath) XYPoint(line core.LineSegment, point core.Point) core.Point {
	offset := line.Start.Sub(p.StartPoint())
	return point.Sub(offset)
}

// HasMoved reports whether the reference point moved at all.
func (p ObjectPath) HasMoved() bool {
	return p.Prev.X != p.Current.X || p.Prev.Y != p.Current.Y
}

// RectAt returns the interpolated box at time t.
func (p ObjectPath) RectAt(t float64) core.Rect {
	if p.Duration <= 0 {
		return p.Current
	}
	return p.Prev.Lerp(p.Current, t/p.Duration)
}

// XYAt returns the top-left corner at time t.
func (p ObjectPath) XYAt(t float64) core.Point {
	return p.RectAt(t).Origin()
}

// Stationary is the path of a box that did not move during the frame.
func Stationary(r core.Rect, duration float64) ObjectPath {
	return ObjectPath{Prev: r, Current: r, Duration: duration}
}
