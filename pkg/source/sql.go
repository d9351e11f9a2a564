package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/crease/pkg/core"
)

// SQLRows adapts *sql.Rows to RowReader. Every column is scanned as text.
type SQLRows struct {
	rows *sql.Rows
	buf  []sql.NullString
}

// NewSQLRows wraps rows. The caller still owns rows and must close it.
func NewSQLRows(rows *sql.Rows) *SQLRows {
	return &SQLRows{rows: rows}
}

// Columns returns the result column names.
func (s *SQLRows) Columns() ([]string, error) {
	cols, err := s.rows.Columns()
	if err != nil {
		return nil, err
	}
	s.buf = make([]sql.NullString, len(cols))
	return cols, nil
}

// Next scans the next row, returning io.EOF after the last one.
func (s *SQLRows) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	dest := make([]any, len(s.buf))
	for i := range s.buf {
		dest[i] = &s.buf[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return nil, err
	}
	values := make([]string, len(s.buf))
	for i, v := range s.buf {
		if v.Valid {
			values[i] = v.String
		}
	}
	return values, nil
}

// BaseSQLSource provides the database/sql plumbing shared by SQL backed sources.
// Embed it in concrete source implementations to get Close and table loading.
type BaseSQLSource struct {
	DB     *sql.DB
	Cfg    core.SourceConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLSource) Close() error {
	if b.DB != nil {
		b.Logger.Debug("closing database connection")
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// QueryMatches runs query and decodes the result as a match table.
func (b *BaseSQLSource) QueryMatches(ctx context.Context, query string, origin Origin) (core.Matches, error) {
	var matches core.Matches
	err := b.query(ctx, query, origin, core.TableMatches, func(rr RowReader) error {
		var err error
		matches, err = DecodeMatches(rr, origin)
		return err
	})
	return matches, err
}

// QueryDeliveries runs query and decodes the result as a delivery table.
func (b *BaseSQLSource) QueryDeliveries(ctx context.Context, query string, origin Origin) (core.Deliveries, error) {
	var deliveries core.Deliveries
	err := b.query(ctx, query, origin, core.TableDeliveries, func(rr RowReader) error {
		var err error
		deliveries, err = DecodeDeliveries(rr, origin)
		return err
	})
	return deliveries, err
}

func (b *BaseSQLSource) query(ctx context.Context, query string, origin Origin, table string, decode func(RowReader) error) error {
	if b.DB == nil {
		return &core.DataUnavailableError{
			Source: origin.Source,
			Table:  table,
			Path:   origin.Path,
			Err:    fmt.Errorf("database connection not established"),
		}
	}

	b.Logger.Debug("querying table", slog.String("table", table), slog.String("path", origin.Path))
	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return &core.DataUnavailableError{
			Source: origin.Source,
			Table:  table,
			Path:   origin.Path,
			Err:    err,
		}
	}
	defer func() { _ = rows.Close() }()

	return decode(NewSQLRows(rows))
}
