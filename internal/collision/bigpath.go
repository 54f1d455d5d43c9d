package collision

import (
	"math"
	"sort"

	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/path"
)

// PathLineCollisionPoints returns every point where the line crosses one of the path's segments.
func (tol Tolerances) PathLineCollisionPoints(line core.LineSegment, p *path.SimplePath) []core.Point {
	var points []core.Point
	for _, segment := range p.Lines() {
		if point, ok := tol.LineCollisionPoint(segment, line); ok {
			points = append(points, point)
		}
	}
	return points
}

// PathLineCollision returns the crossing with the smallest x.
func (tol Tolerances) PathLineCollision(p *path.SimplePath, line core.LineSegment) (core.Point, bool) {
	var (
		best  core.Point
		found bool
	)
	for _, point := range tol.PathLineCollisionPoints(line, p) {
		if !found || point.X < best.X {
			best = point
			found = true
		}
	}
	return best, found
}

// PathCollisionTimes returns the x (time) of every crossing between two polylines.
func (tol Tolerances) PathCollisionTimes(p1, p2 *path.SimplePath) []float64 {
	var times []float64
	for _, l1 := range p1.Lines() {
		for _, l2 := range p2.Lines() {
			if point, ok := tol.LineCollisionPoint(l1, l2); ok {
				times = append(times, point.X)
			}
		}
	}
	return times
}

// RangesBetween is TimesBetween over polylines: every interval during which p lies
// between bottom and top. A crossing found twice at a shared waypoint counts once.
func (tol Tolerances) RangesBetween(p, bottom, top *path.SimplePath) []core.Range {
	times := tol.PathCollisionTimes(p, bottom)
	times = append(times, tol.PathCollisionTimes(p, top)...)
	sort.Float64s(times)

	inside := isBetween(p.FirstLine().Start.Y, bottom.FirstLine().Start.Y, top.FirstLine().Start.Y)

	var (
		result []core.Range
		start  float64
		prev   = math.Inf(-1)
	)
	for _, t := range times {
		if t <= 0 || core.IsWithinRange(prev, t, tol.PointDeviation) {
			continue
		}
		prev = t
		if inside {
			result = append(result, core.Range{Start: start, End: t})
		}
		inside = !inside
		start = t
	}

	if inside && isBetween(p.LastLine().End.Y, bottom.LastLine().End.Y, top.LastLine().End.Y) {
		result = append(result, core.Range{Start: start, End: p.LastPoint().X})
	}

	if len(result) == 0 {
		return []core.Range{{}}
	}
	return result
}

// BigPathCollisionTime returns the earliest time two multi-waypoint paths overlap on both axes.
func (tol Tolerances) BigPathCollisionTime(p1, p2 *path.Path) (float64, bool) {
	e1, e2 := p1.Edges(), p2.Edges()

	var xRanges, yRanges []core.Range
	xRanges = append(xRanges, tol.RangesBetween(e1.Left, e2.Left, e2.Right)...)
	xRanges = append(xRanges, tol.RangesBetween(e1.Right, e2.Left, e2.Right)...)
	xRanges = append(xRanges, tol.RangesBetween(e2.Left, e1.Left, e1.Right)...)
	xRanges = append(xRanges, tol.RangesBetween(e2.Right, e1.Left, e1.Right)...)

	yRanges = append(yRanges, tol.RangesBetween(e1.Top, e2.Top, e2.Bottom)...)
	yRanges = append(yRanges, tol.RangesBetween(e1.Bottom, e2.Top, e2.Bottom)...)
	yRanges = append(yRanges, tol.RangesBetween(e2.Top, e1.Top, e1.Bottom)...)
	yRanges = append(yRanges, tol.RangesBetween(e2.Bottom, e1.Top, e1.Bottom)...)

	best := earliestOverlap(FilterRanges(xRanges), FilterRanges(yRanges), math.Inf(1))
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}
