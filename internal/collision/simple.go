package collision

import "github.com/vovakirdan/sweep/internal/core"

// IsHeightCollision reports whether the vertical extents overlap. Flush edges count.
func IsHeightCollision(a, b core.Rect) bool {
	return a.Bottom() >= b.Y && a.Y <= b.Bottom()
}

// IsLengthCollision reports whether the horizontal extents overlap. Flush edges count.
func IsLengthCollision(a, b core.Rect) bool {
	return a.X <= b.Right() && a.Right() >= b.X
}

// IsSimpleCollision is a frame-local overlap test with no time dimension.
func IsSimpleCollision(a, b core.Rect) bool {
	return IsHeightCollision(a, b) && IsLengthCollision(a, b)
}

// ObjectsAreTouching reports whether two boxes are exactly flush on some edge
// while overlapping along it.
func (tol Tolerances) ObjectsAreTouching(a, b core.Rect) bool {
	eq := func(x, y float64) bool {
		return core.TruncateTo(x, tol.TouchPlaces) == core.TruncateTo(y, tol.TouchPlaces)
	}

	horizontal := (eq(a.X, b.Right()) || eq(b.X, a.Right())) && IsHeightCollision(a, b)
	vertical := (eq(a.Y, b.Bottom()) || eq(b.Y, a.Bottom())) && IsLengthCollision(a, b)
	return horizontal || vertical
}

// ObjectHasMoved reports whether the displacement survives truncation to MovedPlaces.
func (tol Tolerances) ObjectHasMoved(prev, current core.Rect) bool {
	return core.TruncateTo(prev.X-current.X, tol.MovedPlaces) != 0 ||
		core.TruncateTo(prev.Y-current.Y, tol.MovedPlaces) != 0
}
