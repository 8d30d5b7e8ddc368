package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/osi-field-checker/internal/checker"
	"github.com/banshee-data/osi-field-checker/internal/timeutil"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("check run not found")

// Run is one simulation run of a field checker instance.
type Run struct {
	RunID          string
	InstanceName   string
	StartedAt      int64 // unix nanos
	FinishedAt     int64 // unix nanos, zero while running
	Steps          int
	CheckedSteps   int
	ExpectedFields int
	MeanObjects    float64
	MaxObjects     int
	// Passed is nil until the run finished.
	Passed *bool
}

// Store provides persistence for check runs and their missing fields.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens (creating if needed) the SQLite database at path and migrates
// it to the latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent and matches the
	// single-threaded host calling convention.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, clock: timeutil.RealClock{}}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SetClock replaces the clock used for run timestamps.
func (s *Store) SetClock(c timeutil.Clock) { s.clock = c }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// CreateRun inserts run. If RunID is empty, a UUID is generated; a zero
// StartedAt is set to now.
func (s *Store) CreateRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt == 0 {
		run.StartedAt = s.clock.Now().UnixNano()
	}
	_, err := s.db.Exec(`
		INSERT INTO check_runs (run_id, instance_name, started_at, expected_fields)
		VALUES (?, ?, ?, ?)`,
		run.RunID, run.InstanceName, run.StartedAt, run.ExpectedFields,
	)
	if err != nil {
		return fmt.Errorf("insert check run: %w", err)
	}
	return nil
}

// FinishRun records the final statistics and verdict of run.
func (s *Store) FinishRun(run *Run, passed bool) error {
	if run.FinishedAt == 0 {
		run.FinishedAt = s.clock.Now().UnixNano()
	}
	run.Passed = &passed
	res, err := s.db.Exec(`
		UPDATE check_runs
		SET finished_at = ?, steps = ?, checked_steps = ?, expected_fields = ?,
		    mean_objects = ?, max_objects = ?, passed = ?
		WHERE run_id = ?`,
		run.FinishedAt, run.Steps, run.CheckedSteps, run.ExpectedFields,
		run.MeanObjects, run.MaxObjects, passed, run.RunID,
	)
	if err != nil {
		return fmt.Errorf("update check run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish %s: %w", run.RunID, ErrRunNotFound)
	}
	return nil
}

// InsertMissingField records a violation for runID, replacing an earlier
// row for the same path.
func (s *Store) InsertMissingField(runID string, v checker.Violation) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO check_missing_fields (run_id, field_path, first_seen, steps)
		VALUES (?, ?, ?, ?)`,
		runID, v.Path, v.FirstSeen, v.Steps,
	)
	if err != nil {
		return fmt.Errorf("insert missing field %s: %w", v.Path, err)
	}
	return nil
}

// ListMissingFields returns the violations of runID ordered by path.
func (s *Store) ListMissingFields(runID string) ([]checker.Violation, error) {
	rows, err := s.db.Query(`
		SELECT field_path, first_seen, steps
		FROM check_missing_fields
		WHERE run_id = ?
		ORDER BY field_path`, runID)
	if err != nil {
		return nil, fmt.Errorf("query missing fields: %w", err)
	}
	defer rows.Close()

	var out []checker.Violation
	for rows.Next() {
		var v checker.Violation
		if err := rows.Scan(&v.Path, &v.FirstSeen, &v.Steps); err != nil {
			return nil, fmt.Errorf("scan missing field: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetRun returns a single run by ID.
func (s *Store) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, instance_name, started_at, finished_at, steps, checked_steps,
		       expected_fields, mean_objects, max_objects, passed
		FROM check_runs
		WHERE run_id = ?`, runID)

	var r Run
	var finished sql.NullInt64
	var passed sql.NullBool
	err := row.Scan(&r.RunID, &r.InstanceName, &r.StartedAt, &finished, &r.Steps, &r.CheckedSteps,
		&r.ExpectedFields, &r.MeanObjects, &r.MaxObjects, &passed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan check run: %w", err)
	}
	r.FinishedAt = finished.Int64
	if passed.Valid {
		p := passed.Bool
		r.Passed = &p
	}
	return &r, nil
}

// ListRuns returns every run, most recent first.
func (s *Store) ListRuns() ([]string, error) {
	rows, err := s.db.Query(`SELECT run_id FROM check_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query check runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
