package core

import "testing"

func TestEllipseEquationVariables(t *testing.T) {
	e := Ellipse{Rect: NewRect(0, 20, 20, 10)}
	h, k, a, b := e.EquationVariables()
	if h != 10 || k != 25 || a != 10 || b != 5 {
		t.Errorf("EquationVariables() = (%v, %v, %v, %v), expected (10, 25, 10, 5)", h, k, a, b)
	}
}

func TestEllipseYAt(t *testing.T) {
	unit := Ellipse{Rect: NewRect(-1, -1, 2, 2)}

	tests := []struct {
		name     string
		x        float64
		expected []float64
	}{
		{"through center", 0, []float64{-1, 1}},
		{"tangent", 1, []float64{0}},
		{"outside", 2, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := unit.YAt(tc.x)
			if len(got) != len(tc.expected) {
				t.Fatalf("YAt(%v) = %v, expected %v", tc.x, got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("YAt(%v)[%d] = %v, expected %v", tc.x, i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  float64
		expected []float64
	}{
		{"two roots", 1, -30, 125, []float64{5, 25}},
		{"scaled", 200, -6000, 40000, []float64{10, 20}},
		{"double root", 1, 2, 1, []float64{-1}},
		{"no real roots", 1, 0, 1, nil},
		{"linear", 0, 2, -4, []float64{2}},
		{"degenerate", 0, 0, 3, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SolveQuadratic(tc.a, tc.b, tc.c, DiscriminantPlaces)
			if len(got) != len(tc.expected) {
				t.Fatalf("SolveQuadratic() = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("SolveQuadratic()[%d] = %v, expected %v", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestSolveQuadraticTruncatesDiscriminant(t *testing.T) {
	// b^2 - 4ac = -0.00001 truncates to -0 and counts as a tangent.
	got := SolveQuadratic(1, 2, 1.0000025, DiscriminantPlaces)
	if len(got) != 1 {
		t.Fatalf("SolveQuadratic() = %v, expected a single root", got)
	}
}
