package tui

import (
	"context"
	"math"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/scenario"
)

// SceneFrame is everything the viewer shows for one frame.
type SceneFrame struct {
	Bodies  []core.Body
	Results []scenario.Result
}

// Scene is a fully evaluated scenario, ready for stepping back and forth.
type Scene struct {
	Scenario *scenario.Scenario
	Frames   []SceneFrame
	Report   *scenario.Report
	Bounds   core.Rect
}

// BuildScene runs the scenario once and keeps every frame's bodies and results.
func BuildScene(ctx context.Context, sc *scenario.Scenario, finder *collision.Finder, opts ...scenario.RunOption) (*Scene, error) {
	scene := &Scene{Scenario: sc, Bounds: sc.Bounds()}

	collect := func(_ int, bodies []core.Body, results []scenario.Result) {
		scene.Frames = append(scene.Frames, SceneFrame{Bodies: bodies, Results: results})
	}
	opts = append(opts, scenario.WithObserver(collect))

	report, err := scenario.Run(ctx, sc, finder, opts...)
	if err != nil {
		return nil, err
	}
	scene.Report = report
	return scene, nil
}

// Failures returns the failed expectations of one frame.
func (s *Scene) Failures(frame int) []scenario.Failure {
	var out []scenario.Failure
	for _, f := range s.Report.Failures {
		if f.Frame == frame {
			out = append(out, f)
		}
	}
	return out
}

// projection maps world coordinates onto a screen of w x h cells.
type projection struct {
	origin core.Point
	sx, sy float64
}

func newProjection(bounds core.Rect, w, h int) projection {
	// One world unit of margin keeps edges off the screen border.
	bounds = core.NewRect(bounds.X-1, bounds.Y-1, bounds.W+2, bounds.H+2)

	p := projection{origin: bounds.Origin(), sx: 1, sy: 1}
	if bounds.W > 0 && w > 1 {
		p.sx = float64(w-1) / bounds.W
	}
	if bounds.H > 0 && h > 1 {
		p.sy = float64(h-1) / bounds.H
	}
	return p
}

func (p projection) cell(pt core.Point) (int, int) {
	return int(math.Round((pt.X - p.origin.X) * p.sx)), int(math.Round((pt.Y - p.origin.Y) * p.sy))
}

func (p projection) box(r core.Rect) (x, y, w, h int) {
	x, y = p.cell(r.Origin())
	x2, y2 := p.cell(core.P(r.Right(), r.Bottom()))
	return x, y, max(1, x2-x+1), max(1, y2-y+1)
}

// DrawScene draws one frame onto dst. Bodies involved in a collision are drawn in red
// and every contact point is marked.
func DrawScene(dst *core.Screen, frame SceneFrame, bounds core.Rect) {
	dst.Clear()
	p := newProjection(bounds, dst.Width(), dst.Height())

	hit := make(map[string]bool)
	for _, r := range frame.Results {
		if r.Data.IsCollision {
			hit[r.A] = true
			hit[r.B] = true
		}
	}

	for i, b := range frame.Bodies {
		color := core.BodyColor(i)
		if hit[b.ID] {
			color = core.ColorRed
		}

		x, y, w, h := p.box(b.Rect)
		switch b.Shape {
		case core.ShapeEllipse:
			dst.DrawEllipse(x, y, w, h, color)
		default:
			dst.DrawBox(x, y, w, h, color)
		}
		if w > len(b.ID)+1 && h > 2 {
			dst.DrawText(x+1, y+1, b.ID, color)
		}
	}

	for _, r := range frame.Results {
		if contact, ok := r.Data.Contact(); ok {
			x, y := p.cell(contact)
			dst.Set(x, y, '✱', core.ColorYellow)
		}
	}
}
