package collision

import (
	"bytes"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/history"
)

// newFrame records prev as the last closed frame and opens a query scope of duration 1.
func newFrame(t *testing.T, prev ...core.Body) *Frame {
	t.Helper()
	store := history.NewStore()
	for _, b := range prev {
		store.Add(b)
	}
	store.EndFrame(1)
	return NewFinder(store).Frame(1)
}

func body(id string, shape core.Shape, x, y, w, h float64) core.Body {
	b := core.NewBody(id, x, y, w, h)
	b.Shape = shape
	return b
}

func TestFrameCollisionScenarios(t *testing.T) {
	type box struct{ x, y, w, h float64 }

	tests := []struct {
		name     string
		prevA    box
		prevB    box
		curA     box
		curB     box
		shapes   []core.Shape
		expected bool
	}{
		{
			name:  "small box moves right into a tall box",
			prevA: box{20, 20, 20, 30}, curA: box{20, 20, 20, 30},
			prevB: box{10, 25, 5, 5}, curB: box{30, 25, 5, 5},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: true,
		},
		{
			name:  "small box moves diagonally left into a tall box",
			prevA: box{20, 20, 20, 30}, curA: box{20, 20, 20, 30},
			prevB: box{50, 25, 5, 5}, curB: box{33, 30, 5, 5},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: true,
		},
		{
			name:  "diagonal pass beside a circle",
			prevA: box{10, 60, 10, 10}, curA: box{10, 60, 10, 10},
			prevB: box{10, 40, 10, 10}, curB: box{40, 70, 10, 10},
			shapes:   []core.Shape{core.ShapeEllipse},
			expected: false,
		},
		{
			name:  "slides off a box it was resting on",
			prevA: box{10, 50, 10, 10}, curA: box{10, 50, 10, 10},
			prevB: box{10, 40, 10, 10}, curB: box{20, 53, 10, 10},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: true,
		},
		{
			name:  "both move and overlap from the start",
			prevA: box{40, 30, 10, 10}, curA: box{50, 20, 10, 10},
			prevB: box{30, 10, 30, 40}, curB: box{60, 10, 30, 40},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: true,
		},
		{
			name:  "both move and never share x",
			prevA: box{40, 30, 10, 10}, curA: box{50, 20, 10, 10},
			prevB: box{30, 10, 10, 40}, curB: box{20, 10, 10, 40},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: false,
		},
		{
			name:  "both move inside a shared column",
			prevA: box{30, 10, 10, 10}, curA: box{40, 20, 10, 10},
			prevB: box{40, 10, 10, 40}, curB: box{45, 10, 10, 40},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: true,
		},
		{
			name:  "player against a pillar",
			prevA: box{233, 429, 25, 25}, curA: box{241, 422, 25, 25},
			prevB: box{209, 350, 24, 150}, curB: box{227, 350, 24, 150},
			shapes:   []core.Shape{core.ShapeRectangle, core.ShapeEllipse},
			expected: true,
		},
	}

	for _, tc := range tests {
		for _, shape := range tc.shapes {
			t.Run(tc.name+"/"+shape.String(), func(t *testing.T) {
				prevA := body("a", shape, tc.prevA.x, tc.prevA.y, tc.prevA.w, tc.prevA.h)
				prevB := body("b", shape, tc.prevB.x, tc.prevB.y, tc.prevB.w, tc.prevB.h)
				curA := prevA.MoveTo(tc.curA.x, tc.curA.y)
				curB := prevB.MoveTo(tc.curB.x, tc.curB.y)

				fr := newFrame(t, prevA, prevB)
				assert.Equal(t, tc.expected, fr.IsCollision(curA, curB))
			})
		}
	}
}

func TestFrameMovingIntoStationary(t *testing.T) {
	prevMover := core.NewBody("mover", 30, 30, 10, 10)
	mover := prevMover.MoveTo(0, 0)

	for _, still := range []core.Body{
		core.NewBody("still", 0, 20, 20, 20),
		core.NewEllipseBody("still", 0, 20, 20, 20),
	} {
		t.Run(still.Shape.String(), func(t *testing.T) {
			fr := newFrame(t, prevMover, still)
			d := fr.CollisionData(mover, still)

			assert.True(t, d.IsCollision)
			assert.True(t, d.IsMovingCollision)
			tm, ok := d.CollisionTime()
			require.True(t, ok)
			assert.InDelta(t, 1.0/3, tm, 1e-6)
			assert.InDelta(t, 20, d.ObjectXY.X, 1e-4)
			assert.InDelta(t, 20, d.ObjectXY.Y, 1e-4)
		})
	}
}

func TestFrameVerticalDropOntoEllipse(t *testing.T) {
	prevMover := core.NewBody("mover", 5, -20, 10, 10)
	mover := prevMover.MoveTo(5, 15)
	still := core.NewEllipseBody("still", 0, 20, 20, 20)

	fr := newFrame(t, prevMover, still)
	d := fr.CollisionData(mover, still)

	assert.True(t, d.IsCollision)
	assert.True(t, d.IsMovingCollision)
	// The bottom corners at x = 5 and x = 15 reach the circle at y = 30 - sqrt(75).
	tm, ok := d.CollisionTime()
	require.True(t, ok)
	assert.InDelta(t, (40-math.Sqrt(75))/35, tm, 1e-6)
	assert.InDelta(t, 5, d.ObjectXY.X, 1e-4)
	assert.InDelta(t, 20-math.Sqrt(75), d.ObjectXY.Y, 1e-4)
	assert.True(t, fr.IsTopCollision(mover, still))
}

func TestFrameTunneling(t *testing.T) {
	tests := []struct {
		name  string
		still core.Body
	}{
		{"same height", core.NewBody("b", 50, 0, 10, 10)},
		{"thinner than the mover", core.NewBody("b", 50, 2, 10, 4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prevA := core.NewBody("a", 0, 0, 10, 10)
			curA := prevA.MoveTo(100, 0)

			fr := newFrame(t, prevA, tc.still)
			d := fr.CollisionData(curA, tc.still)
			require.True(t, d.IsCollision)
			assert.True(t, d.IsMovingCollision)
			assert.InDelta(t, 0.4, d.Time, 1e-6)
			assert.InDelta(t, 40, d.ObjectXY.X, 1e-4)

			assert.True(t, fr.IsLeftCollision(curA, tc.still))
			assert.False(t, fr.IsRightCollision(curA, tc.still))
		})
	}
}

func TestFrameSymmetry(t *testing.T) {
	prevA := core.NewBody("a", 20, 0, 10, 10)
	prevB := core.NewBody("b", 40, 0, 10, 10)
	curB := prevB.MoveTo(25, 0)

	fr := newFrame(t, prevA, prevB)
	ab := fr.CollisionData(prevA, curB)
	ba := fr.CollisionData(curB, prevA)

	require.True(t, ab.IsCollision)
	require.True(t, ba.IsCollision)
	assert.InDelta(t, 2.0/3, ab.Time, 1e-6)
	assert.Equal(t, ab.Time, ba.Time)
	assert.Equal(t, ab.ContactPoint, ba.ContactPoint)
	assert.InDelta(t, 30, ab.ContactPoint.X, 1e-4)
	assert.InDelta(t, 5, ab.ContactPoint.Y, 1e-4)

	// b moved left into a's right side
	assert.True(t, fr.IsMovingLeftCollision(prevA, curB))
	assert.False(t, fr.IsMovingRightCollision(prevA, curB))
	assert.True(t, fr.IsMovingRightCollision(curB, prevA))

	xyA, xyB := fr.ObjectsXY(prevA, curB)
	assert.Equal(t, core.P(20, 0), xyA)
	assert.InDelta(t, 30, xyB.X, 1e-4)
}

func TestFrameStaticPairs(t *testing.T) {
	t.Run("flush boxes touch at the end of the frame", func(t *testing.T) {
		a := core.NewBody("a", 0, 0, 10, 10)
		b := core.NewBody("b", 10, 5, 10, 10)
		fr := newFrame(t, a, b)

		d := fr.CollisionData(a, b)
		assert.True(t, d.IsCollision)
		assert.False(t, d.IsMovingCollision)
		assert.Equal(t, 1.0, d.Time)

		assert.True(t, fr.IsLeftCollision(a, b))
		assert.True(t, fr.IsRightCollision(b, a))
		assert.False(t, fr.IsTopCollision(a, b))
	})

	t.Run("overlapping boxes collide at zero", func(t *testing.T) {
		a := core.NewBody("a", 0, 0, 10, 10)
		b := core.NewBody("b", 5, 5, 10, 10)
		fr := newFrame(t, a, b)

		d := fr.CollisionData(a, b)
		assert.True(t, d.IsCollision)
		assert.False(t, d.IsMovingCollision)
		assert.Equal(t, 0.0, d.Time)
		assert.Equal(t, core.P(7.5, 7.5), d.ContactPoint)
	})

	t.Run("apart", func(t *testing.T) {
		a := core.NewBody("a", 0, 0, 10, 10)
		b := core.NewBody("b", 20, 5, 10, 10)
		fr := newFrame(t, a, b)

		assert.False(t, fr.IsCollision(a, b))
		_, ok := fr.CollisionData(a, b).Contact()
		assert.False(t, ok)
	})
}

func TestFrameMissingHistory(t *testing.T) {
	fr := NewFinder(history.NewStore()).Frame(1)
	a := core.NewBody("a", 0, 0, 10, 10)
	b := core.NewBody("b", 5, 5, 10, 10)

	assert.Equal(t, Data{}, fr.CollisionData(a, b))
	assert.Equal(t, 2, fr.Cache().Len())
	assert.False(t, fr.IsLeftCollision(a, b))
	assert.False(t, fr.IsATopCollision(a, b))
}

func TestFrameCachesBothOrders(t *testing.T) {
	a := core.NewBody("a", 0, 0, 10, 10)
	b := core.NewBody("b", 50, 0, 10, 10)
	fr := newFrame(t, a, b)

	fr.CollisionData(a.MoveTo(100, 0), b)
	assert.Equal(t, 2, fr.Cache().Len())

	// The reverse order is served from the cache.
	fr.CollisionData(b, a.MoveTo(100, 0))
	assert.Equal(t, 2, fr.Cache().Len())
}

func TestFrameVerticalCollision(t *testing.T) {
	prevA := core.NewBody("a", 0, 0, 10, 10)
	floor := core.NewBody("floor", 0, 20, 10, 10)
	curA := prevA.MoveTo(0, 15)

	fr := newFrame(t, prevA, floor)
	require.True(t, fr.IsCollision(curA, floor))

	assert.True(t, fr.IsTopCollision(curA, floor))
	assert.True(t, fr.IsBottomCollision(floor, curA))
	assert.True(t, fr.IsATopCollision(curA, floor))
	assert.True(t, fr.IsATopCollision(floor, curA))
	assert.True(t, fr.IsABottomCollision(curA, floor))
	assert.False(t, fr.IsLeftCollision(curA, floor))

	assert.False(t, fr.IsTopCollision(curA, floor, KnownCollision(false)))
}

func TestFrameAsOf(t *testing.T) {
	store := history.NewStore()
	a := core.NewBody("a", 0, 0, 10, 10)
	b := core.NewBody("b", 50, 0, 10, 10)

	store.Add(a)
	store.Add(b)
	first := store.EndFrame(1)

	a = a.MoveTo(100, 0)
	store.Add(a)
	store.Add(b)
	store.EndFrame(1)

	fr := NewFinder(store).Frame(1)
	assert.False(t, fr.IsCollision(a, b))
	assert.True(t, fr.IsCollision(a, b, AsOf(first)))
	assert.Equal(t, 4, fr.Cache().Len())
}

func TestFrameUnknownTargetShape(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	prevA := core.NewBody("a", 0, 0, 10, 10)
	odd := body("odd", core.Shape(99), 50, 0, 10, 10)

	store := history.NewStore()
	store.Add(prevA)
	store.Add(odd)
	store.EndFrame(1)

	fr := NewFinder(store, WithLogger(logger)).Frame(1)
	assert.False(t, fr.IsCollision(prevA.MoveTo(100, 0), odd))
	assert.Contains(t, buf.String(), "unknown target shape")
}

func TestFinderFrameDuration(t *testing.T) {
	store := history.NewStore()
	f := NewFinder(store)
	assert.Equal(t, 1.0, f.Frame(0).Duration())

	store.EndFrame(0.5)
	assert.Equal(t, 0.5, f.Frame(0).Duration())
	assert.Equal(t, 0.25, f.Frame(0.25).Duration())
}
