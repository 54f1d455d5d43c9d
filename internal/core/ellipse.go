package core

import "math"

// BoundaryPlaces is how many decimals the squared y-term is truncated to
// before its sign is checked.
const BoundaryPlaces = 7

// Ellipse is the axis-aligned ellipse inscribed in its bounding Rect:
// (x - h)^2 / a^2 + (y - k)^2 / b^2 = 1.
type Ellipse struct {
	Rect
}

// EquationVariables returns the center (h, k) and semi-axes (a, b).
func (e Ellipse) EquationVariables() (h, k, a, b float64) {
	return e.X + e.W/2, e.Y + e.H/2, e.W / 2, e.H / 2
}

// YAt returns the boundary y-values at x: none outside the ellipse,
// one at a vertical tangent, two otherwise.
func (e Ellipse) YAt(x float64) []float64 {
	h, k, a, b := e.EquationVariables()
	if a == 0 || b == 0 {
		return nil
	}

	// (y - k)^2 = (1 - (x - h)^2 / a^2) * b^2
	squared := (1 - (x-h)*(x-h)/(a*a)) * b * b
	squared = TruncateTo(squared, BoundaryPlaces)
	if squared < 0 {
		return nil
	}
	if squared == 0 {
		return []float64{k}
	}

	root := math.Sqrt(squared)
	return []float64{k - root, k + root}
}

// DiscriminantPlaces is the default truncation applied to a quadratic's discriminant.
const DiscriminantPlaces = 4

// SolveQuadratic returns the real roots of a*x^2 + b*x + c = 0 in ascending order
// (for a > 0). The discriminant is truncated to places decimals first, so a tangent
// whose true discriminant is zero is not lost to float noise. Equal roots are returned once.
func SolveQuadratic(a, b, c float64, places int) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}

	discriminant := TruncateTo(b*b-4*a*c, places)
	if discriminant < 0 {
		return nil
	}

	root := math.Sqrt(discriminant)
	lo := (-b - root) / (2 * a)
	hi := (-b + root) / (2 * a)
	if lo == hi {
		return []float64{lo}
	}
	return []float64{lo, hi}
}
