package collision

import (
	"fmt"

	"github.com/vovakirdan/sweep/internal/core"
)

// TargetKind is the outline a stationary object presents to a mover.
type TargetKind uint8

const (
	TargetUnknown TargetKind = iota
	TargetRectangle
	TargetEllipse
	TargetLine
)

func (k TargetKind) String() string {
	switch k {
	case TargetRectangle:
		return "rectangle"
	case TargetEllipse:
		return "ellipse"
	case TargetLine:
		return "line"
	default:
		return fmt.Sprintf("target(%d)", uint8(k))
	}
}

// Target is a stationary outline. Rect is used by rectangles and ellipses,
// Line by line targets.
type Target struct {
	Kind TargetKind
	Rect core.Rect
	Line core.LineSegment
}

// RectangleTarget wraps a box.
func RectangleTarget(r core.Rect) Target {
	return Target{Kind: TargetRectangle, Rect: r}
}

// EllipseTarget wraps the ellipse inscribed in a box.
func EllipseTarget(r core.Rect) Target {
	return Target{Kind: TargetEllipse, Rect: r}
}

// LineTarget wraps a raw segment.
func LineTarget(l core.LineSegment) Target {
	return Target{Kind: TargetLine, Line: l}
}

// TargetOf returns the outline matching a body's shape.
// Unrecognized shapes map to TargetUnknown, which never collides.
func TargetOf(b core.Body) Target {
	switch b.Shape {
	case core.ShapeRectangle:
		return RectangleTarget(b.Rect)
	case core.ShapeEllipse:
		return EllipseTarget(b.Rect)
	default:
		return Target{Kind: TargetUnknown, Rect: b.Rect}
	}
}

// Ellipse returns the target's box as an ellipse.
func (t Target) Ellipse() core.Ellipse {
	return core.Ellipse{Rect: t.Rect}
}
