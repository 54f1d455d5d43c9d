// Package storage provides SQLite-based persistence for scenario runs, their
// collision events and recorded history frames.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/sweep/internal/core"
	"github.com/vovakirdan/sweep/internal/history"
	"github.com/vovakirdan/sweep/internal/scenario"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one recorded scenario run.
type RunEntry struct {
	ID         int64
	ScenarioID string
	Frames     int
	Pairs      int
	Collisions int
	Failures   int
	Passed     bool
	Elapsed    time.Duration
	CreatedAt  time.Time
}

// Event is one collision recorded during a run.
type Event struct {
	ID       int64
	RunID    int64
	Frame    int
	A, B     string
	Moving   bool
	Time     float64
	ObjectXY core.Point
	Contact  core.Point
	Left     bool
	Right    bool
	Top      bool
	Bottom   bool
}

// ScenarioStats contains aggregated run statistics for a scenario.
type ScenarioStats struct {
	ScenarioID string
	Runs       int
	Passed     int
	Collisions int
	LastRun    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scenario_id TEXT NOT NULL,
			frames INTEGER NOT NULL,
			pairs INTEGER NOT NULL,
			collisions INTEGER NOT NULL DEFAULT 0,
			failures INTEGER NOT NULL DEFAULT 0,
			passed INTEGER NOT NULL,
			elapsed_us INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario_id ON runs(scenario_id);

		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			frame INTEGER NOT NULL,
			body_a TEXT NOT NULL,
			body_b TEXT NOT NULL,
			moving INTEGER NOT NULL,
			time REAL NOT NULL,
			object_x REAL NOT NULL,
			object_y REAL NOT NULL,
			contact_x REAL NOT NULL,
			contact_y REAL NOT NULL,
			left_hit INTEGER NOT NULL,
			right_hit INTEGER NOT NULL,
			top_hit INTEGER NOT NULL,
			bottom_hit INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id);

		CREATE TABLE IF NOT EXISTS snapshots (
			scenario_id TEXT NOT NULL,
			frame_key INTEGER NOT NULL,
			duration REAL NOT NULL,
			body_id TEXT NOT NULL,
			shape TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			w REAL NOT NULL,
			h REAL NOT NULL,
			PRIMARY KEY (scenario_id, frame_key, body_id)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReport records a run and every collision it produced.
// Returns the ID of the inserted run.
func (s *Store) SaveReport(report *scenario.Report) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	pairs := 0
	if report.Frames > 0 {
		pairs = len(report.Results) / report.Frames
	}

	res, err := tx.Exec(
		`INSERT INTO runs (scenario_id, frames, pairs, collisions, failures, passed, elapsed_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ScenarioID,
		report.Frames,
		pairs,
		report.Collisions(),
		len(report.Failures),
		report.Passed(),
		report.Elapsed.Microseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, r := range report.Results {
		if !r.Data.IsCollision {
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO events
			 (run_id, frame, body_a, body_b, moving, time, object_x, object_y, contact_x, contact_y,
			  left_hit, right_hit, top_hit, bottom_hit)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, r.Frame, r.A, r.B,
			r.Data.IsMovingCollision, r.Data.Time,
			r.Data.ObjectXY.X, r.Data.ObjectXY.Y,
			r.Data.ContactPoint.X, r.Data.ContactPoint.Y,
			r.Left, r.Right, r.Top, r.Bottom,
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot save event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return runID, nil
}

// RecentRuns retrieves the most recent runs, optionally for one scenario.
func (s *Store) RecentRuns(scenarioID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, scenario_id, frames, pairs, collisions, failures, passed, elapsed_us, created_at
		 FROM runs
		 WHERE ? = '' OR scenario_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scenarioID, scenarioID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var (
			e         RunEntry
			elapsedUS int64
			createdAt any
		)
		if err := rows.Scan(&e.ID, &e.ScenarioID, &e.Frames, &e.Pairs, &e.Collisions,
			&e.Failures, &e.Passed, &elapsedUS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// RunEvents retrieves the collisions recorded for a run, in frame order.
func (s *Store) RunEvents(runID int64) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, frame, body_a, body_b, moving, time, object_x, object_y,
		        contact_x, contact_y, left_hit, right_hit, top_hit, bottom_hit
		 FROM events
		 WHERE run_id = ?
		 ORDER BY frame, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.RunID, &e.Frame, &e.A, &e.B, &e.Moving, &e.Time,
			&e.ObjectXY.X, &e.ObjectXY.Y, &e.Contact.X, &e.Contact.Y,
			&e.Left, &e.Right, &e.Top, &e.Bottom); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return events, nil
}

// ClearRuns deletes the runs of one scenario, or every run when scenarioID is empty.
func (s *Store) ClearRuns(scenarioID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM events WHERE run_id IN (SELECT id FROM runs WHERE ? = '' OR scenario_id = ?)`,
		scenarioID, scenarioID,
	); err != nil {
		return fmt.Errorf("storage: cannot clear events: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM runs WHERE ? = '' OR scenario_id = ?`, scenarioID, scenarioID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return nil
}

// SaveFrame stores the snapshots of one closed history frame, replacing any earlier
// copy of the same frame.
func (s *Store) SaveFrame(ctx context.Context, scenarioID string, key history.FrameKey, duration float64, snapshots []history.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE scenario_id = ? AND frame_key = ?`,
		scenarioID, int64(key),
	); err != nil {
		return fmt.Errorf("storage: cannot replace frame: %w", err)
	}

	for _, snap := range snapshots {
		b := snap.Body
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (scenario_id, frame_key, duration, body_id, shape, x, y, w, h)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			scenarioID, int64(key), duration, b.ID, b.Shape.String(), b.X, b.Y, b.W, b.H,
		); err != nil {
			return fmt.Errorf("storage: cannot save snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit frame: %w", err)
	}
	return nil
}

// LoadHistory restores every stored frame of a scenario into store, oldest first.
// Returns the number of frames restored.
func (s *Store) LoadHistory(ctx context.Context, scenarioID string, store *history.Store) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT frame_key, duration, body_id, shape, x, y, w, h
		 FROM snapshots
		 WHERE scenario_id = ?
		 ORDER BY frame_key, body_id`,
		scenarioID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var (
		frames   int
		current  int64 = -1
		duration float64
		bodies   []core.Body
	)
	flush := func() {
		if current >= 0 {
			store.Restore(history.FrameKey(current), duration, bodies)
			frames++
		}
	}

	for rows.Next() {
		var (
			key   int64
			dur   float64
			b     core.Body
			shape string
		)
		if err := rows.Scan(&key, &dur, &b.ID, &shape, &b.X, &b.Y, &b.W, &b.H); err != nil {
			return frames, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if b.Shape, err = core.ParseShape(shape); err != nil {
			return frames, fmt.Errorf("storage: snapshot %s: %w", b.ID, err)
		}

		if key != current {
			flush()
			current, duration, bodies = key, dur, nil
		}
		bodies = append(bodies, b)
	}
	if err := rows.Err(); err != nil {
		return frames, fmt.Errorf("storage: row iteration error: %w", err)
	}

	flush()
	return frames, nil
}

// ScenarioStats retrieves aggregated statistics for every scenario that has runs.
func (s *Store) ScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario_id, COUNT(*), COALESCE(SUM(passed), 0), COALESCE(SUM(collisions), 0), MAX(created_at)
		 FROM runs
		 GROUP BY scenario_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var (
			st      ScenarioStats
			lastRun any
		)
		if err := rows.Scan(&st.ScenarioID, &st.Runs, &st.Passed, &st.Collisions, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.ScenarioID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// RunByID retrieves a single run. Returns nil if it does not exist.
func (s *Store) RunByID(id int64) (*RunEntry, error) {
	var (
		e         RunEntry
		elapsedUS int64
		createdAt any
	)
	err := s.db.QueryRow(
		`SELECT id, scenario_id, frames, pairs, collisions, failures, passed, elapsed_us, created_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.ScenarioID, &e.Frames, &e.Pairs, &e.Collisions, &e.Failures, &e.Passed, &elapsedUS, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}

	e.Elapsed = time.Duration(elapsedUS) * time.Microsecond
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Ensure Store implements FrameRecorder
var _ scenario.FrameRecorder = (*Store)(nil)
