package state

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/leapstack-labs/crease/pkg/core"
)

// GetSourceFile retrieves the last recorded state of a source file.
// Returns nil, nil when the path has never been recorded.
func (s *SQLiteStore) GetSourceFile(path string) (*core.SourceFile, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var (
		f      core.SourceFile
		runID  sql.NullString
		seenAt string
	)
	err := s.db.QueryRowContext(ctx(),
		`SELECT path, table_name, content_hash, size_bytes, run_id, seen_at FROM source_files WHERE path = ?`, path,
	).Scan(&f.Path, &f.Table, &f.ContentHash, &f.SizeBytes, &runID, &seenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source file: %w", err)
	}

	f.RunID = runID.String
	if f.SeenAt, err = parseTime(seenAt); err != nil {
		return nil, fmt.Errorf("seen_at: %w", err)
	}
	return &f, nil
}

// SetSourceFile stores the state of a source file, replacing any previous record.
func (s *SQLiteStore) SetSourceFile(file *core.SourceFile) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	var runID sql.NullString
	if file.RunID != "" {
		runID = sql.NullString{String: file.RunID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx(), `
		INSERT INTO source_files (path, table_name, content_hash, size_bytes, run_id, seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			table_name = excluded.table_name,
			content_hash = excluded.content_hash,
			size_bytes = excluded.size_bytes,
			run_id = excluded.run_id,
			seen_at = excluded.seen_at`,
		file.Path, file.Table, file.ContentHash, file.SizeBytes, runID, formatTime(file.SeenAt),
	)
	if err != nil {
		return fmt.Errorf("failed to set source file: %w", err)
	}
	return nil
}
