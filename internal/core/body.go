package core

import "fmt"

// Shape identifies the geometric kind of a body's outline.
type Shape uint8

const (
	ShapeRectangle Shape = iota
	ShapeEllipse
)

// String returns the lowercase name used in scenario files.
func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeEllipse:
		return "ellipse"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// ParseShape converts a scenario-file name into a Shape.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "", "rectangle", "rect", "box":
		return ShapeRectangle, nil
	case "ellipse", "circle":
		return ShapeEllipse, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", name)
	}
}

// Body is anything the engine can collide: a stable identity plus its bounding box.
type Body struct {
	ID    string
	Shape Shape
	Rect
}

// NewBody creates a rectangular body.
func NewBody(id string, x, y, w, h float64) Body {
	return Body{ID: id, Shape: ShapeRectangle, Rect: NewRect(x, y, w, h)}
}

// NewEllipseBody creates an elliptical body inscribed in the given box.
func NewEllipseBody(id string, x, y, w, h float64) Body {
	return Body{ID: id, Shape: ShapeEllipse, Rect: NewRect(x, y, w, h)}
}

// Snapshot returns an independent copy safe to keep after the body moves.
func (b Body) Snapshot() Body {
	return b
}

// MoveTo returns a copy of the body at the given position.
func (b Body) MoveTo(x, y float64) Body {
	b.X, b.Y = x, y
	return b
}

// Ellipse returns the body's outline as an ellipse.
func (b Body) Ellipse() Ellipse {
	return Ellipse{Rect: b.Rect}
}
