package scenario

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/history"
)

// Result is one pair's outcome in one frame.
type Result struct {
	Frame  int
	A, B   string
	Data   collision.Data
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// Failure is an expectation that did not hold.
type Failure struct {
	Frame int
	A, B  string
	Field string
	Want  bool
	Got   bool
}

func (f Failure) String() string {
	return fmt.Sprintf("frame %d %s/%s: %s = %t, expected %t", f.Frame, f.A, f.B, f.Field, f.Got, f.Want)
}

// Report summarizes a run.
type Report struct {
	ScenarioID string
	Frames     int
	Results    []Result
	Failures   []Failure
	StartedAt  time.Time
	Elapsed    time.Duration
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Collisions counts results with a collision.
func (r *Report) Collisions() int {
	n := 0
	for _, res := range r.Results {
		if res.Data.IsCollision {
			n++
		}
	}
	return n
}

// Observer is called after each frame's pairs are evaluated, before the frame is recorded.
type Observer func(frame int, bodies []core.Body, results []Result)

// FrameRecorder persists a closed history frame.
type FrameRecorder interface {
	SaveFrame(ctx context.Context, scenarioID string, key history.FrameKey, duration float64, snapshots []history.Snapshot) error
}

// RunOption configures Run.
type RunOption func(*runner)

type runner struct {
	logger    *log.Logger
	observers []Observer
	recorder  FrameRecorder
	delay     time.Duration
}

// WithLogger sets the run logger. A nil logger is silent.
func WithLogger(logger *log.Logger) RunOption {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver adds a per-frame observer.
func WithObserver(o Observer) RunOption {
	return func(r *runner) {
		r.observers = append(r.observers, o)
	}
}

// WithRecorder persists every closed frame.
func WithRecorder(rec FrameRecorder) RunOption {
	return func(r *runner) {
		r.recorder = rec
	}
}

// WithFrameDelay sleeps between frames, for live playback.
func WithFrameDelay(d time.Duration) RunOption {
	return func(r *runner) {
		r.delay = d
	}
}

// Run plays the scenario frame by frame. Each frame gets a fresh query scope,
// evaluates every pair against the previous frame, then records all bodies and
// closes the frame. The finder's history is cleared first, so a finder can be
// reused across runs. Cancelling ctx stops the run between frames.
func Run(ctx context.Context, sc *Scenario, finder *collision.Finder, opts ...RunOption) (*Report, error) {
	r := &runner{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}

	store := finder.Store()
	store.Reset()

	dt := sc.FrameDuration
	if dt <= 0 {
		dt = finder.Frame(0).Duration()
	}

	report := &Report{
		ScenarioID: sc.ID,
		Frames:     sc.Frames(),
		StartedAt:  time.Now(),
	}
	logger := r.logger.With("scenario", sc.ID)
	logger.Info("run started", "frames", report.Frames, "pairs", len(sc.Pairs), "dt", dt)

	for i := 0; i < report.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		bodies := sc.BodiesAt(i)
		results := Step(finder.Frame(dt), sc, i, bodies)
		for _, res := range results {
			if res.Data.IsCollision {
				logger.Debug("collision", "frame", i, "a", res.A, "b", res.B,
					"time", res.Data.Time, "moving", res.Data.IsMovingCollision)
			}
		}
		report.Results = append(report.Results, results...)
		report.Failures = append(report.Failures, check(sc, i, results)...)

		for _, o := range r.observers {
			o(i, bodies, results)
		}

		for _, b := range bodies {
			store.Add(b)
		}
		key := store.EndFrame(dt)

		if r.recorder != nil {
			if err := r.recorder.SaveFrame(ctx, sc.ID, key, dt, store.Frame(key)); err != nil {
				return report, fmt.Errorf("scenario: record frame %d: %w", i, err)
			}
		}

		if r.delay > 0 && i < report.Frames-1 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}

	report.Elapsed = time.Since(report.StartedAt)
	for _, f := range report.Failures {
		logger.Warn("expectation failed", "detail", f.String())
	}
	logger.Info("run finished", "collisions", report.Collisions(), "failures", len(report.Failures))
	return report, nil
}

// Step evaluates every pair of the scenario in one frame scope.
func Step(fr *collision.Frame, sc *Scenario, frame int, bodies []core.Body) []Result {
	byID := make(map[string]core.Body, len(bodies))
	for _, b := range bodies {
		byID[b.ID] = b
	}

	results := make([]Result, 0, len(sc.Pairs))
	for _, p := range sc.Pairs {
		a, b := byID[p.A], byID[p.B]
		d := fr.CollisionData(a, b)
		known := collision.KnownCollision(d.IsCollision)
		results = append(results, Result{
			Frame:  frame,
			A:      p.A,
			B:      p.B,
			Data:   d,
			Left:   fr.IsLeftCollision(a, b, known),
			Right:  fr.IsRightCollision(a, b, known),
			Top:    fr.IsTopCollision(a, b, known),
			Bottom: fr.IsBottomCollision(a, b, known),
		})
	}
	return results
}

func check(sc *Scenario, frame int, results []Result) []Failure {
	var failures []Failure
	for i, p := range sc.Pairs {
		res := results[i]
		for _, e := range p.Expect {
			if e.Frame != frame {
				continue
			}
			fields := []struct {
				name string
				want *bool
				got  bool
			}{
				{"collision", e.Collision, res.Data.IsCollision},
				{"moving", e.Moving, res.Data.IsMovingCollision},
				{"left", e.Left, res.Left},
				{"right", e.Right, res.Right},
				{"top", e.Top, res.Top},
				{"bottom", e.Bottom, res.Bottom},
			}
			for _, f := range fields {
				if f.want != nil && *f.want != f.got {
					failures = append(failures, Failure{
						Frame: frame, A: p.A, B: p.B,
						Field: f.name, Want: *f.want, Got: f.got,
					})
				}
			}
		}
	}
	return failures
}
