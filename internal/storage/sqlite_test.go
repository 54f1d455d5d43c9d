package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/history"
	"github.com/vovakirdan/sweep/internal/scenario"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testReport(id string, collide bool) *scenario.Report {
	hit := collision.Data{
		IsCollision:       true,
		IsMovingCollision: true,
		Time:              0.4,
		ObjectXY:          core.P(40, 0),
		ContactPoint:      core.P(50, 5),
	}
	r := &scenario.Report{
		ScenarioID: id,
		Frames:     2,
		Results: []scenario.Result{
			{Frame: 0, A: "a", B: "b"},
			{Frame: 1, A: "a", B: "b", Left: true},
		},
		Elapsed: 1500 * time.Microsecond,
	}
	if collide {
		r.Results[1].Data = hit
	} else {
		r.Failures = []scenario.Failure{{Frame: 1, A: "a", B: "b", Field: "collision", Want: true}}
	}
	return r
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveReport(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveReport(testReport("tunnel", true))
	if err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run == nil {
		t.Fatal("RunByID() returned nil")
	}
	if run.ScenarioID != "tunnel" || run.Frames != 2 || run.Pairs != 1 || run.Collisions != 1 || !run.Passed {
		t.Errorf("RunByID() = %+v", run)
	}
	if run.Elapsed != 1500*time.Microsecond {
		t.Errorf("Elapsed = %v, expected 1.5ms", run.Elapsed)
	}

	events, err := store.RunEvents(id)
	if err != nil {
		t.Fatalf("RunEvents() failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("RunEvents() returned %d events, expected 1", len(events))
	}
	e := events[0]
	if e.Frame != 1 || !e.Moving || !e.Left || e.Right || e.Time != 0.4 || e.Contact != core.P(50, 5) {
		t.Errorf("event = %+v", e)
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	run, err := store.RunByID(42)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run != nil {
		t.Errorf("RunByID() = %+v, expected nil", run)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		if _, err := store.SaveReport(testReport("tunnel", true)); err != nil {
			t.Fatalf("SaveReport() failed: %v", err)
		}
	}
	if _, err := store.SaveReport(testReport("landing", false)); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}

	all, err := store.RecentRuns("", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 runs, got %d", len(all))
	}
	if all[0].ScenarioID != "landing" || all[0].Passed {
		t.Errorf("Most recent run = %+v, expected the failed landing run", all[0])
	}

	limited, _ := store.RecentRuns("tunnel", 2)
	if len(limited) != 2 {
		t.Errorf("Expected 2 runs with limit, got %d", len(limited))
	}

	stats, err := store.ScenarioStats()
	if err != nil {
		t.Fatalf("ScenarioStats() failed: %v", err)
	}
	if st := stats["tunnel"]; st == nil || st.Runs != 3 || st.Passed != 3 || st.Collisions != 3 {
		t.Errorf("tunnel stats = %+v", st)
	}
	if st := stats["landing"]; st == nil || st.Runs != 1 || st.Passed != 0 {
		t.Errorf("landing stats = %+v", st)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	tunnelID, _ := store.SaveReport(testReport("tunnel", true))
	store.SaveReport(testReport("landing", true))

	if err := store.ClearRuns("tunnel"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, _ := store.RecentRuns("", 10)
	if len(runs) != 1 || runs[0].ScenarioID != "landing" {
		t.Errorf("Runs after clear = %+v, expected only landing", runs)
	}
	events, _ := store.RunEvents(tunnelID)
	if len(events) != 0 {
		t.Errorf("Expected cleared run's events to be gone, got %d", len(events))
	}

	if err := store.ClearRuns(""); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, _ = store.RecentRuns("", 10)
	if len(runs) != 0 {
		t.Errorf("Expected no runs, got %d", len(runs))
	}
}

func TestStoreFramesRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := history.NewStore()
	rec.Add(core.NewBody("a", 0, 0, 10, 10))
	rec.Add(core.NewEllipseBody("b", 50, 0, 10, 10))
	first := rec.EndFrame(0.5)
	rec.Add(core.NewBody("a", 100, 0, 10, 10))
	rec.Add(core.NewEllipseBody("b", 50, 0, 10, 10))
	second := rec.EndFrame(0.5)

	for _, key := range []history.FrameKey{first, second} {
		if err := store.SaveFrame(ctx, "tunnel", key, 0.5, rec.Frame(key)); err != nil {
			t.Fatalf("SaveFrame(%d) failed: %v", key, err)
		}
	}
	// Saving again replaces rather than duplicates.
	if err := store.SaveFrame(ctx, "tunnel", second, 0.5, rec.Frame(second)); err != nil {
		t.Fatalf("SaveFrame() failed: %v", err)
	}

	restored := history.NewStore()
	n, err := store.LoadHistory(ctx, "tunnel", restored)
	if err != nil {
		t.Fatalf("LoadHistory() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("LoadHistory() restored %d frames, expected 2", n)
	}

	if last, ok := restored.LastKey(); !ok || last != second {
		t.Errorf("LastKey() = %d, %v, expected %d", last, ok, second)
	}
	if restored.LastDuration() != 0.5 {
		t.Errorf("LastDuration() = %v, expected 0.5", restored.LastDuration())
	}

	b, ok := restored.At("b", first)
	if !ok || b.Shape != core.ShapeEllipse || b.X != 50 {
		t.Errorf("At(b, first) = %+v, %v", b, ok)
	}
	a, ok := restored.Last("a")
	if !ok || a.X != 100 {
		t.Errorf("Last(a) = %+v, %v, expected x=100", a, ok)
	}

	other, _ := store.LoadHistory(ctx, "other", history.NewStore())
	if other != 0 {
		t.Errorf("LoadHistory(other) restored %d frames, expected 0", other)
	}
}

func TestStoreRecordsScenarioRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sc := &scenario.Scenario{
		ID: "recorded",
		Tracks: []scenario.Track{
			{ID: "a", Frames: []core.Rect{core.NewRect(0, 0, 10, 10), core.NewRect(100, 0, 10, 10)}},
			{ID: "b", Frames: []core.Rect{core.NewRect(50, 0, 10, 10)}},
		},
		Pairs: []scenario.Pair{{A: "a", B: "b"}},
	}

	finder := collision.NewFinder(history.NewStore())
	report, err := scenario.Run(ctx, sc, finder, scenario.WithRecorder(store))
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if _, err := store.SaveReport(report); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}

	restored := history.NewStore()
	if n, err := store.LoadHistory(ctx, "recorded", restored); err != nil || n != 2 {
		t.Errorf("LoadHistory() = %d, %v, expected 2 frames", n, err)
	}

	runs, _ := store.RecentRuns("recorded", 1)
	if len(runs) != 1 || runs[0].Collisions != 1 {
		t.Errorf("RecentRuns() = %+v, expected one run with one collision", runs)
	}
}
