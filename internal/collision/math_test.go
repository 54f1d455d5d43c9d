package collision

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/path"
)

func TestLineCollisionPoint(t *testing.T) {
	vertical := core.Seg(10, 20, 10, 40)
	diagonal := core.Seg(20, 40, 0, 10)

	p, ok := Default.LineCollisionPoint(vertical, diagonal)
	require.True(t, ok)
	assert.Equal(t, core.P(10, 25), p)

	// Argument order does not matter
	p, ok = Default.LineCollisionPoint(diagonal, vertical)
	require.True(t, ok)
	assert.Equal(t, core.P(10, 25), p)

	assert.True(t, Default.IsLineCollision(vertical, diagonal))
}

func TestLineCollisionPointMisses(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 core.LineSegment
	}{
		{"parallel", core.Seg(0, 0, 10, 10), core.Seg(0, 5, 10, 15)},
		{"lines cross beyond the segments", core.Seg(0, 0, 1, 1), core.Seg(5, 0, 6, -1)},
		{"vertical beside segment", core.Seg(20, 0, 20, 10), core.Seg(0, 0, 10, 10)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Default.LineCollisionPoint(tc.l1, tc.l2)
			assert.False(t, ok)
		})
	}
}

func TestTimesBetween(t *testing.T) {
	bottom := core.Seg(0, 5, 1, 5)
	top := core.Seg(0, 15, 1, 15)

	tests := []struct {
		name     string
		line     core.LineSegment
		expected core.Range
	}{
		{"passes through", core.Seg(0, 0, 1, 20), core.Range{Start: 0.25, End: 0.75}},
		{"always inside", core.Seg(0, 10, 1, 10), core.Range{Start: 0, End: 1}},
		{"never inside", core.Seg(0, 0, 1, 1), core.Range{}},
		{"leaves through the top", core.Seg(0, 10, 1, 30), core.Range{Start: 0, End: 0.25}},
		{"enters and stays", core.Seg(0, 0, 1, 10), core.Range{Start: 0.5, End: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Default.TimesBetween(tc.line, bottom, top, 1)
			assert.InDelta(t, tc.expected.Start, got.Start, 1e-9)
			assert.InDelta(t, tc.expected.End, got.End, 1e-9)
		})
	}
}

func TestFilterRanges(t *testing.T) {
	in := []core.Range{
		{Start: 0, End: 0},
		{Start: -2, End: -1},
		{Start: 0, End: 1},
		{Start: -1, End: 0.5},
		{Start: 0.25, End: 0.75},
	}

	got := FilterRanges(in)
	assert.Equal(t, []core.Range{
		{Start: 0, End: 1},
		{Start: -1, End: 0.5},
		{Start: 0.25, End: 0.75},
	}, got)
}

func TestPathCollisionTime(t *testing.T) {
	// A overtakes B head-on: A's right edge reaches B's left edge halfway through.
	a := path.NewObjectPath(core.NewRect(0, 0, 10, 10), core.NewRect(20, 0, 10, 10), 1)
	b := path.NewObjectPath(core.NewRect(20, 0, 10, 10), core.NewRect(20, 1, 10, 10), 1)

	tm, ok := Default.PathCollisionTime(a, b)
	require.True(t, ok)
	assert.InDelta(t, 0.5, tm, 1e-9)

	// Same motion, but B is far below.
	far := path.NewObjectPath(core.NewRect(20, 100, 10, 10), core.NewRect(20, 101, 10, 10), 1)
	_, ok = Default.PathCollisionTime(a, far)
	assert.False(t, ok)
}

func TestTimeToPoint(t *testing.T) {
	tm, ok := Default.TimeToPoint(5, 10, 2)
	require.True(t, ok)
	assert.Equal(t, 1.0, tm)

	// Within the 10% buffer
	_, ok = Default.TimeToPoint(10.5, 10, 1)
	assert.True(t, ok)

	// Past the buffer
	_, ok = Default.TimeToPoint(12, 10, 1)
	assert.False(t, ok)

	// No motion
	_, ok = Default.TimeToPoint(0, 0, 1)
	assert.False(t, ok)
}

func TestLineEllipseCollisionPoints(t *testing.T) {
	unit := core.Ellipse{Rect: core.NewRect(-1, -1, 2, 2)}

	t.Run("secant", func(t *testing.T) {
		assert.True(t, Default.IsLineEllipseCollision(core.Seg(-2, 0, 2, 1), unit))
	})

	t.Run("tangent yields one point", func(t *testing.T) {
		points := Default.LineEllipseCollisionPoints(core.Seg(-2, 1, 2, 1), unit)
		require.Len(t, points, 1)
		assert.InDelta(t, 0, points[0].X, 1e-9)
		assert.InDelta(t, 1, points[0].Y, 1e-9)
	})

	t.Run("miss", func(t *testing.T) {
		assert.False(t, Default.IsLineEllipseCollision(core.Seg(-2, 3, 2, 3), unit))
	})

	t.Run("segment stops short", func(t *testing.T) {
		assert.False(t, Default.IsLineEllipseCollision(core.Seg(-5, 0, -3, 0), unit))
	})

	t.Run("vertical secant", func(t *testing.T) {
		circle := core.Ellipse{Rect: core.NewRect(0, 0, 20, 20)}
		points := Default.LineEllipseCollisionPoints(core.Seg(5, -5, 5, 25), circle)
		require.Len(t, points, 2)
		assert.InDelta(t, 5, points[0].X, 1e-9)
		assert.InDelta(t, 10-math.Sqrt(75), points[0].Y, 1e-6)
		assert.InDelta(t, 5, points[1].X, 1e-9)
		assert.InDelta(t, 10+math.Sqrt(75), points[1].Y, 1e-6)
	})

	t.Run("vertical tangent yields one point", func(t *testing.T) {
		points := Default.LineEllipseCollisionPoints(core.Seg(1, -2, 1, 2), unit)
		require.Len(t, points, 1)
		assert.InDelta(t, 1, points[0].X, 1e-9)
		assert.InDelta(t, 0, points[0].Y, 1e-9)
	})

	t.Run("vertical miss", func(t *testing.T) {
		assert.False(t, Default.IsLineEllipseCollision(core.Seg(3, -2, 3, 2), unit))
	})

	t.Run("vertical segment stops short", func(t *testing.T) {
		assert.False(t, Default.IsLineEllipseCollision(core.Seg(0, -5, 0, -2), unit))
	})
}

func TestMovingCollisionTime(t *testing.T) {
	mover := path.NewObjectPath(core.NewRect(30, 30, 10, 10), core.NewRect(0, 0, 10, 10), 1)
	still := core.NewRect(0, 20, 20, 20)

	t.Run("rectangle", func(t *testing.T) {
		tm, ok := Default.MovingCollisionTime(mover, RectangleTarget(still))
		require.True(t, ok)
		assert.InDelta(t, 1.0/3, tm, 1e-6)
	})

	t.Run("ellipse", func(t *testing.T) {
		// The bottom-left corner follows y = x + 10 and meets the circle at (10, 20).
		tm, ok := Default.MovingCollisionTime(mover, EllipseTarget(still))
		require.True(t, ok)
		assert.InDelta(t, 1.0/3, tm, 1e-6)
	})

	t.Run("line", func(t *testing.T) {
		wall := core.Seg(25, -100, 25, 100)
		tm, ok := Default.MovingCollisionTime(mover, LineTarget(wall))
		require.True(t, ok)
		// The top-left corner crosses x = 25 first, after a sixth of its travel.
		assert.InDelta(t, 1.0/6, tm, 1e-6)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, ok := Default.MovingCollisionTime(mover, Target{Rect: still})
		assert.False(t, ok)
	})
}

func TestMovingCollisionTimeThinTarget(t *testing.T) {
	// The target sits between the mover's top and bottom edges, so no corner touches it.
	mover := path.NewObjectPath(core.NewRect(0, 0, 10, 10), core.NewRect(100, 0, 10, 10), 1)
	thin := core.NewRect(50, 2, 10, 4)

	tm, ok := Default.MovingCollisionTime(mover, RectangleTarget(thin))
	require.True(t, ok)
	assert.InDelta(t, 0.4, tm, 1e-6)
}

func TestIsRightCollision(t *testing.T) {
	tests := []struct {
		name   string
		d1, d2 float64
		right  bool
	}{
		{"other moves left into a stationary object", 0, -15, false},
		{"stationary other, object moves left", -15, 0, true},
		{"other moves right", 0, 15, true},
		{"object moves farther right", 10, -5, false},
		{"equal distances, other decides", -5, 5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.right, IsRightCollision(tc.d1, tc.d2))
		})
	}
}

func TestBigPathCollisionTime(t *testing.T) {
	still := core.NewRect(20, 15, 10, 10)
	stationary := path.NewPath(still)
	stationary.AddWaypoint(1, still)
	stationary.AddWaypoint(2, still)

	t.Run("hits on the second leg", func(t *testing.T) {
		mover := path.NewPath(core.NewRect(0, 0, 10, 10))
		mover.AddWaypoint(1, core.NewRect(20, 0, 10, 10))
		mover.AddWaypoint(2, core.NewRect(20, 20, 10, 10))

		tm, ok := Default.BigPathCollisionTime(mover, stationary)
		require.True(t, ok)
		assert.InDelta(t, 1.25, tm, 1e-6)
	})

	t.Run("turns back before reaching it", func(t *testing.T) {
		mover := path.NewPath(core.NewRect(0, 0, 10, 10))
		mover.AddWaypoint(1, core.NewRect(20, 0, 10, 10))
		mover.AddWaypoint(2, core.NewRect(0, 0, 10, 10))

		_, ok := Default.BigPathCollisionTime(mover, stationary)
		assert.False(t, ok)
	})
}

func TestPathLineCollision(t *testing.T) {
	p := path.NewSimplePath(core.P(0, 0))
	p.AddPoint(core.P(10, 10))
	p.AddPoint(core.P(20, 0))

	line := core.Seg(0, 5, 20, 5)

	points := Default.PathLineCollisionPoints(line, p)
	assert.Len(t, points, 2)

	first, ok := Default.PathLineCollision(p, line)
	require.True(t, ok)
	assert.InDelta(t, 5, first.X, 1e-6)

	_, ok = Default.PathLineCollision(p, core.Seg(0, 50, 20, 50))
	assert.False(t, ok)
}
