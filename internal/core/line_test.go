package core

import "testing"

func TestNewLineSegment(t *testing.T) {
	l := Seg(0, 0, 10, 20)
	if l.Slope != 2 || l.Intercept != 0 {
		t.Errorf("slope/intercept = %v/%v, expected 2/0", l.Slope, l.Intercept)
	}
	if l.IsVertical || l.IsHorizontal {
		t.Error("diagonal segment should not be axis-aligned")
	}
	if l.YAt(3) != 6 {
		t.Errorf("YAt(3) = %v, expected 6", l.YAt(3))
	}
	if l.XAt(6) != 3 {
		t.Errorf("XAt(6) = %v, expected 3", l.XAt(6))
	}
}

func TestNewLineSegmentAxisAligned(t *testing.T) {
	v := Seg(10, 20, 10, 40)
	if !v.IsVertical {
		t.Fatal("equal x should be flagged vertical")
	}
	if v.End.X != 10+AxisNudge {
		t.Errorf("End.X = %v, expected nudged by %v", v.End.X, AxisNudge)
	}
	if v.Start.X != 10 {
		t.Errorf("Start.X should be untouched, got %v", v.Start.X)
	}

	h := Seg(0, 5, 10, 5)
	if !h.IsHorizontal {
		t.Fatal("equal y should be flagged horizontal")
	}
	if h.End.Y != 5+AxisNudge {
		t.Errorf("End.Y = %v, expected nudged by %v", h.End.Y, AxisNudge)
	}
}

func TestLineSegmentContainsPoint(t *testing.T) {
	const tol = 1e-7

	tests := []struct {
		name     string
		line     LineSegment
		p        Point
		expected bool
	}{
		{"on diagonal", Seg(0, 0, 10, 10), P(5, 5), true},
		{"off diagonal", Seg(0, 0, 10, 10), P(5, 6), false},
		{"past the end", Seg(0, 0, 10, 10), P(11, 11), false},
		{"endpoint", Seg(0, 0, 10, 10), P(10, 10), true},
		{"on vertical", Seg(10, 20, 10, 40), P(10, 25), true},
		{"beside vertical", Seg(10, 20, 10, 40), P(11, 25), false},
		{"on horizontal", Seg(0, 5, 10, 5), P(3, 5), true},
		{"within tolerance", Seg(0, 0, 10, 10), P(5, 5+1e-8), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.line.ContainsPoint(tc.p, tol); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestLineSegmentBounds(t *testing.T) {
	l := Seg(10, 0, 0, 5)

	lo, hi := l.XBounds()
	if lo != 0 || hi != 10 {
		t.Errorf("XBounds() = (%v, %v), expected (0, 10)", lo, hi)
	}
	lo, hi = l.YBounds()
	if lo != 0 || hi != 5 {
		t.Errorf("YBounds() = (%v, %v), expected (0, 5)", lo, hi)
	}
	if !l.ContainsX(4, 0) {
		t.Error("ContainsX(4) should be true")
	}
	if l.ContainsX(-1, 0) {
		t.Error("ContainsX(-1) should be false")
	}
}
