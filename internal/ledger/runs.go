package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run modes.
const (
	ModeHierarchy = "hierarchy"
	ModeDocuments = "documents"
)

// Run is one invocation of the generator.
type Run struct {
	ID          string
	Mode        string
	Source      string
	Status      string
	StartedAt   time.Time
	FinishedAt  time.Time
	Collections int
	Manifests   int
	Reused      int
	Canvases    int
	Error       string
}

// Counts summarizes what a run emitted.
type Counts struct {
	Collections int
	Manifests   int
	Reused      int
	Canvases    int
}

// Resource is one emitted output file.
type Resource struct {
	RunID    string
	Path     string
	Kind     string
	Code     string
	Canvases int
	Reused   bool
}

// BeginRun records the start of a generation run and returns its id.
func (s *Store) BeginRun(ctx context.Context, mode, source string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, mode, source, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, mode, source, StatusRunning, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run completed or failed and stores its counters.
func (s *Store) FinishRun(ctx context.Context, runID, status string, counts Counts, runErr error) error {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, collections = ?, manifests = ?, reused = ?, canvases = ?, error = ?
         WHERE id = ?`,
		status, now, counts.Collections, counts.Manifests, counts.Reused, counts.Canvases, errText, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordResource appends one emitted output to a run.
func (s *Store) RecordResource(ctx context.Context, res Resource) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	reused := 0
	if res.Reused {
		reused = 1
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO resources (run_id, path, kind, code, canvases, reused, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Path, res.Kind, res.Code, res.Canvases, reused, now,
	)
	if err != nil {
		return fmt.Errorf("record resource: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, mode, source, status, started_at, finished_at, collections, manifests, reused, canvases, error
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunResources returns the resources a run emitted, in insertion order.
func (s *Store) RunResources(ctx context.Context, runID string) ([]Resource, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT run_id, path, kind, code, canvases, reused FROM resources WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var resources []Resource
	for rows.Next() {
		var (
			res    Resource
			reused int
		)
		if err := rows.Scan(&res.RunID, &res.Path, &res.Kind, &res.Code, &res.Canvases, &reused); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		res.Reused = reused != 0
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}
	return resources, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		startedAt  string
		finishedAt sql.NullString
		errText    sql.NullString
	)
	err := rows.Scan(&run.ID, &run.Mode, &run.Source, &run.Status, &startedAt, &finishedAt,
		&run.Collections, &run.Manifests, &run.Reused, &run.Canvases, &errText)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = ts
	}
	if finishedAt.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
			run.FinishedAt = ts
		}
	}
	run.Error = errText.String
	return run, nil
}
