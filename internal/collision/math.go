// Package collision implements swept (continuous) collision detection between
// axis-aligned rectangles and ellipses that moved during one frame.
//
// The math works on time lines: every bounding-box edge is a linear function of
// elapsed time inside the frame. Two boxes collide when there is an instant at
// which they overlap on both axes.
package collision

import (
	"math"
	"sort"

	"github.com/vovakirdan/sweep/internal/config"
	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/path"
)

// Tolerances are the numeric knobs of the collision math.
// The default values are load-bearing and were tuned empirically.
type Tolerances struct {
	PointDeviation     float64 // How far a candidate point may sit off a segment
	DiscriminantPlaces int     // Decimals kept before the discriminant sign check
	TouchPlaces        int     // Decimals compared when testing flush edges
	MovedPlaces        int     // Decimals compared when testing displacement
	TimeBuffer         float64 // Hits up to TimeBuffer * frame duration are accepted
}

// Default holds the tolerances the engine ships with.
var Default = TolerancesFrom(config.DefaultEngine())

// TolerancesFrom extracts the tolerances from an engine configuration.
func TolerancesFrom(cfg config.EngineConfig) Tolerances {
	return Tolerances{
		PointDeviation:     cfg.PointDeviation,
		DiscriminantPlaces: cfg.DiscriminantPlaces,
		TouchPlaces:        cfg.TouchPlaces,
		MovedPlaces:        cfg.MovedPlaces,
		TimeBuffer:         cfg.TimeBuffer,
	}
}

// LineCollisionPoint returns the point where two segments cross.
// Parallel segments never cross; a vertical segment's x is substituted into the other line.
func (tol Tolerances) LineCollisionPoint(l1, l2 core.LineSegment) (core.Point, bool) {
	if l1.Slope == l2.Slope {
		return core.Point{}, false
	}

	var p core.Point
	if l1.IsVertical || l2.IsVertical {
		vertical, other := l1, l2
		if !l1.IsVertical {
			vertical, other = l2, l1
		}
		x := vertical.Start.X
		p = core.P(x, other.YAt(x))
	} else {
		x := (l2.Intercept - l1.Intercept) / (l1.Slope - l2.Slope)
		p = core.P(x, l1.YAt(x))
	}

	if !l1.ContainsPoint(p, tol.PointDeviation) || !l2.ContainsPoint(p, tol.PointDeviation) {
		return core.Point{}, false
	}
	return p, true
}

// IsLineCollision reports whether two segments cross.
func (tol Tolerances) IsLineCollision(l1, l2 core.LineSegment) bool {
	_, ok := tol.LineCollisionPoint(l1, l2)
	return ok
}

func isBetween(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// TimesBetween returns the interval of [0, duration] during which line lies between
// bottom and top. All three are time lines. An empty result is the zero Range.
//
// Crossing times are walked in order, flipping between inside and outside starting
// from the state at t = 0. A crossing exactly at t = 0 is ignored.
func (tol Tolerances) TimesBetween(line, bottom, top core.LineSegment, duration float64) core.Range {
	inside := isBetween(line.Start.Y, bottom.Start.Y, top.Start.Y)

	var times []float64
	if p, ok := tol.LineCollisionPoint(line, top); ok {
		times = append(times, p.X)
	}
	if p, ok := tol.LineCollisionPoint(line, bottom); ok {
		times = append(times, p.X)
	}
	sort.Float64s(times)

	var (
		result core.Range
		found  bool
		start  float64
	)
	for _, t := range times {
		if t == 0 {
			continue
		}
		if inside {
			result = core.Range{Start: start, End: t}
			found = true
		}
		inside = !inside
		start = t
	}

	if inside && isBetween(line.End.Y, bottom.End.Y, top.End.Y) {
		result = core.Range{Start: start, End: duration}
		found = true
	}

	if !found {
		return core.Range{}
	}
	return result
}

// FilterRanges drops [0, 0] ranges and ranges that lie entirely before zero.
func FilterRanges(ranges []core.Range) []core.Range {
	result := make([]core.Range, 0, len(ranges))
	for _, r := range ranges {
		if r.IsZero() || r.IsNegative() {
			continue
		}
		result = append(result, r)
	}
	return result
}

// earliestOverlap returns the smallest instant at which an x range and a y range
// overlap, i.e. the later start of an overlapping pair.
func earliestOverlap(xRanges, yRanges []core.Range, best float64) float64 {
	for _, xr := range xRanges {
		for _, yr := range yRanges {
			smaller, bigger := xr, yr
			if !xr.Less(yr) {
				smaller, bigger = yr, xr
			}
			if smaller.End >= bigger.Start && bigger.Start < best {
				best = bigger.Start
			}
		}
	}
	return best
}

// PathCollisionTime returns the earliest time both paths' boxes overlap on both axes.
func (tol Tolerances) PathCollisionTime(p1, p2 path.ObjectPath) (float64, bool) {
	l1, l2 := p1.TimeLines(), p2.TimeLines()
	duration := p1.Duration

	xRanges := FilterRanges([]core.Range{
		tol.TimesBetween(l1.Left, l2.Left, l2.Right, duration),
		tol.TimesBetween(l1.Right, l2.Left, l2.Right, duration),
		tol.TimesBetween(l2.Left, l1.Left, l1.Right, duration),
		tol.TimesBetween(l2.Right, l1.Left, l1.Right, duration),
	})
	yRanges := FilterRanges([]core.Range{
		tol.TimesBetween(l1.Top, l2.Top, l2.Bottom, duration),
		tol.TimesBetween(l1.Bottom, l2.Top, l2.Bottom, duration),
		tol.TimesBetween(l2.Top, l1.Top, l1.Bottom, duration),
		tol.TimesBetween(l2.Bottom, l1.Top, l1.Bottom, duration),
	})

	// Identical extents on one axis for the whole frame make that axis always overlapping.
	sameVertical := p1.Prev.Y == p2.Prev.Y && p1.Current.Bottom() == p2.Current.Bottom()
	sameHorizontal := p1.Prev.X == p2.Prev.X && p1.Current.Right() == p2.Current.Right()

	best := math.Inf(1)
	for _, xr := range xRanges {
		if sameVertical && xr.Start < best {
			best = xr.Start
		}
		if sameHorizontal {
			for _, yr := range yRanges {
				if yr.Start < best {
					best = yr.Start
				}
			}
		}
	}
	best = earliestOverlap(xRanges, yRanges, best)

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// TimeToPoint converts a distance along a path into elapsed time, assuming constant
// speed over the frame. Times past TimeBuffer * duration are rejected.
func (tol Tolerances) TimeToPoint(distance, totalDistance, duration float64) (float64, bool) {
	if totalDistance <= 0 || duration <= 0 {
		return 0, false
	}
	velocity := totalDistance / duration
	t := distance / velocity
	if t > duration*tol.TimeBuffer {
		return 0, false
	}
	return t, true
}

// LineCollisionTime returns when the moving corner line reaches the static line.
func (tol Tolerances) LineCollisionTime(static, moving core.LineSegment, p path.ObjectPath) (float64, bool) {
	point, ok := tol.LineCollisionPoint(static, moving)
	if !ok {
		return 0, false
	}
	return tol.TimeToPoint(core.Distance(moving.Start, point), p.TotalDistance(), p.Duration)
}

// RectangleSides returns the four boundary segments of r: left, bottom, right, top.
func RectangleSides(r core.Rect) []core.LineSegment {
	return []core.LineSegment{
		core.NewLineSegment(core.P(r.X, r.Y), core.P(r.X, r.Bottom())),
		core.NewLineSegment(core.P(r.X, r.Bottom()), core.P(r.Right(), r.Bottom())),
		core.NewLineSegment(core.P(r.Right(), r.Bottom()), core.P(r.Right(), r.Y)),
		core.NewLineSegment(core.P(r.Right(), r.Y), core.P(r.X, r.Y)),
	}
}

// LineRectangleCollisionTime returns the earliest time the moving line reaches any side of r.
func (tol Tolerances) LineRectangleCollisionTime(r core.Rect, line core.LineSegment, p path.ObjectPath) (float64, bool) {
	best := math.Inf(1)
	for _, side := range RectangleSides(r) {
		if t, ok := tol.LineCollisionTime(side, line, p); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// LineEllipseCollisionPoints returns the points where the segment meets the ellipse boundary.
// A tangent segment yields exactly one point.
func (tol Tolerances) LineEllipseCollisionPoints(line core.LineSegment, e core.Ellipse) []core.Point {
	var points []core.Point

	// The nudged slope of a vertical segment is too steep for the quadratic; solve at its x.
	if line.IsVertical {
		x := line.Start.X
		for _, y := range e.YAt(x) {
			if p := core.P(x, y); line.ContainsPoint(p, tol.PointDeviation) {
				points = append(points, p)
			}
		}
		return points
	}

	// c stands in for the ellipse's vertical semi-axis; b is the line's intercept.
	h, k, a, c := e.EquationVariables()
	m, b := line.Slope, line.Intercept

	qa := a*a*m*m + c*c
	qb := 2 * (a*a*(b-k)*m - c*c*h)
	qc := a*a*(b-k)*(b-k) + c*c*h*h - a*a*c*c

	for _, x := range core.SolveQuadratic(qa, qb, qc, tol.DiscriminantPlaces) {
		for _, y := range e.YAt(x) {
			p := core.P(x, y)
			if line.ContainsPoint(p, tol.PointDeviation) {
				points = append(points, p)
			}
		}
	}
	return points
}

// IsLineEllipseCollision reports whether the segment touches the ellipse boundary.
func (tol Tolerances) IsLineEllipseCollision(line core.LineSegment, e core.Ellipse) bool {
	return len(tol.LineEllipseCollisionPoints(line, e)) != 0
}

// LineEllipseCollisionTime returns the earliest time the moving corner line reaches the ellipse.
func (tol Tolerances) LineEllipseCollisionTime(line core.LineSegment, e core.Ellipse, p path.ObjectPath) (float64, bool) {
	return tol.smallestTime(line, p, tol.LineEllipseCollisionPoints(line, e))
}

func (tol Tolerances) smallestTime(line core.LineSegment, p path.ObjectPath, points []core.Point) (float64, bool) {
	best := math.Inf(1)
	start := p.StartPoint()
	for _, point := range points {
		xy := p.XYPoint(line, point)
		if t, ok := tol.TimeToPoint(core.Distance(start, xy), p.TotalDistance(), p.Duration); ok && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// MovingCollisionTime returns when the moving path first reaches a stationary target.
// Each of the mover's four corner lines is tested against the target's outline.
// Rectangle targets are also swept as a stationary box, which catches movers
// whose corners pass around a target thinner than the mover.
func (tol Tolerances) MovingCollisionTime(p path.ObjectPath, target Target) (float64, bool) {
	best := math.Inf(1)
	for _, line := range p.Lines() {
		var (
			t  float64
			ok bool
		)
		switch target.Kind {
		case TargetRectangle:
			t, ok = tol.LineRectangleCollisionTime(target.Rect, line, p)
		case TargetEllipse:
			t, ok = tol.LineEllipseCollisionTime(line, target.Ellipse(), p)
		case TargetLine:
			t, ok = tol.LineCollisionTime(target.Line, line, p)
		default:
			return 0, false
		}
		if ok && t < best {
			best = t
		}
	}

	if target.Kind == TargetRectangle {
		if t, ok := tol.PathCollisionTime(p, path.Stationary(target.Rect, p.Duration)); ok && t < best {
			best = t
		}
	}

	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// IsRightCollision decides whether object 1 struck object 2's right side, given both
// objects' horizontal displacement over the frame. The object that traveled farther
// decides; on a tie object 2's direction wins.
func IsRightCollision(displacement1, displacement2 float64) bool {
	if math.Abs(displacement2) >= math.Abs(displacement1) {
		return displacement2 > 0
	}
	return displacement1 < 0
}
