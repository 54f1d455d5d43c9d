// Package scenario describes scripted multi-frame body movements and drives them
// through the collision finder.
//
// A scenario lists bodies with one box per frame and the pairs whose collision
// results should be evaluated. Pairs may carry expectations, which turns a
// scenario into a regression check.
package scenario

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/sweep/internal/core"
)

var (
	// ErrUnknownBody is returned when a pair references a body the scenario does not define.
	ErrUnknownBody = errors.New("scenario: unknown body")
	// ErrInvalid is returned for structurally broken scenarios.
	ErrInvalid = errors.New("scenario: invalid")
)

// Track is one body's scripted movement. Frames[i] is the box at frame i;
// the last box holds once the track runs out.
type Track struct {
	ID     string
	Shape  core.Shape
	Frames []core.Rect
}

// At returns the track's body at the given frame.
func (t Track) At(frame int) core.Body {
	if len(t.Frames) == 0 {
		return core.Body{ID: t.ID, Shape: t.Shape}
	}
	if frame >= len(t.Frames) {
		frame = len(t.Frames) - 1
	}
	if frame < 0 {
		frame = 0
	}
	return core.Body{ID: t.ID, Shape: t.Shape, Rect: t.Frames[frame]}
}

// Expectation pins the results of a pair at one frame. Nil fields are not checked.
type Expectation struct {
	Frame     int
	Collision *bool
	Moving    *bool
	Left      *bool
	Right     *bool
	Top       *bool
	Bottom    *bool
}

// Pair is an ordered pair of bodies evaluated every frame.
type Pair struct {
	A, B   string
	Expect []Expectation
}

// Scenario is a complete scripted run.
type Scenario struct {
	ID            string
	Name          string
	Description   string
	FrameDuration float64
	Tracks        []Track
	Pairs         []Pair
	FilePath      string
}

// Frames returns the number of frames, the length of the longest track.
func (s *Scenario) Frames() int {
	n := 0
	for _, t := range s.Tracks {
		if len(t.Frames) > n {
			n = len(t.Frames)
		}
	}
	return n
}

// Track returns the track with the given ID.
func (s *Scenario) Track(id string) (Track, bool) {
	for _, t := range s.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// BodiesAt returns every body at the given frame, in track order.
func (s *Scenario) BodiesAt(frame int) []core.Body {
	bodies := make([]core.Body, len(s.Tracks))
	for i, t := range s.Tracks {
		bodies[i] = t.At(frame)
	}
	return bodies
}

// Bounds returns the smallest box containing every body in every frame.
func (s *Scenario) Bounds() core.Rect {
	var (
		minX, minY, maxX, maxY float64
		seen                   bool
	)
	for _, t := range s.Tracks {
		for _, r := range t.Frames {
			if !seen {
				minX, minY, maxX, maxY = r.X, r.Y, r.Right(), r.Bottom()
				seen = true
				continue
			}
			minX = min(minX, r.X)
			minY = min(minY, r.Y)
			maxX = max(maxX, r.Right())
			maxY = max(maxY, r.Bottom())
		}
	}
	return core.NewRect(minX, minY, maxX-minX, maxY-minY)
}

// Validate checks track IDs are unique, every track has frames and every pair
// references known bodies.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}
	if s.FrameDuration < 0 {
		return fmt.Errorf("%w: %s: negative frame duration", ErrInvalid, s.ID)
	}

	ids := make(map[string]bool, len(s.Tracks))
	for _, t := range s.Tracks {
		if t.ID == "" {
			return fmt.Errorf("%w: %s: body without id", ErrInvalid, s.ID)
		}
		if ids[t.ID] {
			return fmt.Errorf("%w: %s: duplicate body %q", ErrInvalid, s.ID, t.ID)
		}
		if len(t.Frames) == 0 {
			return fmt.Errorf("%w: %s: body %q has no frames", ErrInvalid, s.ID, t.ID)
		}
		ids[t.ID] = true
	}

	for _, p := range s.Pairs {
		for _, id := range []string{p.A, p.B} {
			if !ids[id] {
				return fmt.Errorf("%w: %s: %q", ErrUnknownBody, s.ID, id)
			}
		}
		if p.A == p.B {
			return fmt.Errorf("%w: %s: pair of %q with itself", ErrInvalid, s.ID, p.A)
		}
	}
	return nil
}
