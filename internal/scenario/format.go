package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sweep/internal/core"
)

// YAMLScenario is the on-disk shape of a scenario file.
type YAMLScenario struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description,omitempty"`
	FrameDuration float64    `yaml:"frame_duration,omitempty"`
	Bodies        []YAMLBody `yaml:"bodies"`
	Pairs         []YAMLPair `yaml:"pairs,omitempty"`
}

// YAMLBody is a body with its per-frame boxes.
type YAMLBody struct {
	ID     string    `yaml:"id"`
	Shape  string    `yaml:"shape,omitempty"`
	Frames []YAMLBox `yaml:"frames"`
}

// YAMLBox is a bounding box.
type YAMLBox struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// YAMLPair names two bodies and optional expectations.
type YAMLPair struct {
	A      string            `yaml:"a"`
	B      string            `yaml:"b"`
	Expect []YAMLExpectation `yaml:"expect,omitempty"`
}

// YAMLExpectation pins results at one frame.
type YAMLExpectation struct {
	Frame     int   `yaml:"frame"`
	Collision *bool `yaml:"collision,omitempty"`
	Moving    *bool `yaml:"moving,omitempty"`
	Left      *bool `yaml:"left,omitempty"`
	Right     *bool `yaml:"right,omitempty"`
	Top       *bool `yaml:"top,omitempty"`
	Bottom    *bool `yaml:"bottom,omitempty"`
}

// ParseYAML parses and validates a scenario file.
func ParseYAML(data []byte) (*Scenario, error) {
	var ys YAMLScenario
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	sc := &Scenario{
		ID:            ys.ID,
		Name:          ys.Name,
		Description:   ys.Description,
		FrameDuration: ys.FrameDuration,
	}
	if sc.Name == "" {
		sc.Name = sc.ID
	}

	for _, yb := range ys.Bodies {
		shape, err := core.ParseShape(yb.Shape)
		if err != nil {
			return nil, fmt.Errorf("%w: body %q: %v", ErrInvalid, yb.ID, err)
		}
		t := Track{ID: yb.ID, Shape: shape, Frames: make([]core.Rect, len(yb.Frames))}
		for i, box := range yb.Frames {
			t.Frames[i] = core.NewRect(box.X, box.Y, box.W, box.H)
		}
		sc.Tracks = append(sc.Tracks, t)
	}

	for _, yp := range ys.Pairs {
		p := Pair{A: yp.A, B: yp.B}
		for _, ye := range yp.Expect {
			p.Expect = append(p.Expect, Expectation(ye))
		}
		sc.Pairs = append(sc.Pairs, p)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Encode renders a scenario back into its file format.
func (s *Scenario) Encode() ([]byte, error) {
	ys := YAMLScenario{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		FrameDuration: s.FrameDuration,
	}
	for _, t := range s.Tracks {
		yb := YAMLBody{ID: t.ID, Shape: t.Shape.String()}
		for _, r := range t.Frames {
			yb.Frames = append(yb.Frames, YAMLBox{X: r.X, Y: r.Y, W: r.W, H: r.H})
		}
		ys.Bodies = append(ys.Bodies, yb)
	}
	for _, p := range s.Pairs {
		yp := YAMLPair{A: p.A, B: p.B}
		for _, e := range p.Expect {
			yp.Expect = append(yp.Expect, YAMLExpectation(e))
		}
		ys.Pairs = append(ys.Pairs, yp)
	}
	return yaml.Marshal(ys)
}
