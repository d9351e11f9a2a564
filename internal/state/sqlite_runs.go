package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/crease/pkg/core"
)

const loadRunColumns = `id, source, status, matches, deliveries, started_at, completed_at, error`

// CreateLoadRun records a new running load for source.
func (s *SQLiteStore) CreateLoadRun(source string) (*core.LoadRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &core.LoadRun{
		ID:        generateID(),
		Source:    source,
		Status:    core.LoadRunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating load run", slog.String("id", run.ID), slog.String("source", source))

	_, err := s.db.ExecContext(ctx(),
		`INSERT INTO load_runs (id, source, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create load run: %w", err)
	}
	return run, nil
}

// CompleteLoadRun marks a load run as finished with the given status and row counts.
func (s *SQLiteStore) CompleteLoadRun(id string, status core.LoadRunStatus, matches, deliveries int, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	var errVal sql.NullString
	if errMsg != "" {
		errVal = sql.NullString{String: errMsg, Valid: true}
	}

	res, err := s.db.ExecContext(ctx(),
		`UPDATE load_runs SET status = ?, matches = ?, deliveries = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), matches, deliveries, formatTime(time.Now()), errVal, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete load run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("load run not found: %s", id)
	}
	return nil
}

// GetLoadRun retrieves a load run by ID.
func (s *SQLiteStore) GetLoadRun(id string) (*core.LoadRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx(), `SELECT `+loadRunColumns+` FROM load_runs WHERE id = ?`, id)
	run, err := scanLoadRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get load run: %w", err)
	}
	return run, nil
}

// GetLatestLoadRun retrieves the most recent load run for source.
// Returns nil, nil when the source has never been loaded.
func (s *SQLiteStore) GetLatestLoadRun(source string) (*core.LoadRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx(),
		`SELECT `+loadRunColumns+` FROM load_runs WHERE source = ? ORDER BY started_at DESC LIMIT 1`, source)
	run, err := scanLoadRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest load run: %w", err)
	}
	return run, nil
}

// ListLoadRuns returns the most recent load runs, newest first.
// A limit of zero or less returns every run.
func (s *SQLiteStore) ListLoadRuns(limit int) ([]*core.LoadRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx(),
		`SELECT `+loadRunColumns+` FROM load_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list load runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.LoadRun
	for rows.Next() {
		run, err := scanLoadRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating load runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoadRun(row rowScanner) (*core.LoadRun, error) {
	var (
		run         core.LoadRun
		status      string
		startedAt   string
		completedAt sql.NullString
		errMsg      sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Source, &status, &run.Matches, &run.Deliveries, &startedAt, &completedAt, &errMsg); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("started_at: %w", err)
	}
	if run.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, fmt.Errorf("completed_at: %w", err)
	}
	run.Status = core.LoadRunStatus(status)
	run.Error = errMsg.String
	return &run, nil
}
