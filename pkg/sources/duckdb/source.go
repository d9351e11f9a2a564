// Package duckdb provides a dataset source that reads the CSV tables through
// DuckDB's read_csv_auto, which also accepts httpfs paths such as s3:// URLs.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Name is the registered source type.
const Name = "duckdb"

// Source implements core.FileSource on an in-memory DuckDB connection.
type Source struct {
	source.BaseSQLSource

	params *Params
	mu     sync.Mutex
}

// New creates a new DuckDB source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	return &Source{
		BaseSQLSource: source.BaseSQLSource{Logger: source.DiscardLogger(logger)},
		params:        &Params{},
	}
}

// Name returns the registered source type.
func (s *Source) Name() string {
	return Name
}

// Configure validates the file locations and decodes the DuckDB params.
func (s *Source) Configure(cfg core.SourceConfig) error {
	if cfg.Matches == "" || cfg.Deliveries == "" {
		return fmt.Errorf("duckdb source requires both matches and deliveries paths")
	}
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}
	s.Cfg = cfg
	s.params = params
	return nil
}

// Files returns the table name to file path mapping.
func (s *Source) Files() map[string]string {
	return map[string]string{
		core.TableMatches:    s.Cfg.Matches,
		core.TableDeliveries: s.Cfg.Deliveries,
	}
}

// connect opens the in-memory database on first use and applies the params.
func (s *Source) connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DB != nil {
		return nil
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	for _, stmt := range s.params.setupStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return fmt.Errorf("duckdb setup %q: %w", redact(stmt), err)
		}
	}

	s.DB = db
	return nil
}

// LoadMatches reads the match table.
func (s *Source) LoadMatches(ctx context.Context) (core.Matches, error) {
	query, origin, err := s.prepare(ctx, core.TableMatches, s.Cfg.Matches)
	if err != nil {
		return nil, err
	}
	return s.QueryMatches(ctx, query, origin)
}

// LoadDeliveries reads the delivery table.
func (s *Source) LoadDeliveries(ctx context.Context) (core.Deliveries, error) {
	query, origin, err := s.prepare(ctx, core.TableDeliveries, s.Cfg.Deliveries)
	if err != nil {
		return nil, err
	}
	return s.QueryDeliveries(ctx, query, origin)
}

// Load reads both tables.
func (s *Source) Load(ctx context.Context) (*core.Dataset, error) {
	return source.LoadTables(ctx, s)
}

// Close closes the database connection.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.BaseSQLSource.Close()
}

func (s *Source) prepare(ctx context.Context, table, path string) (string, source.Origin, error) {
	origin := source.Origin{Source: Name, Path: path}
	if err := s.connect(ctx); err != nil {
		return "", origin, &core.DataUnavailableError{Source: Name, Table: table, Path: path, Err: err}
	}
	return readCSVQuery(path), origin, nil
}

// readCSVQuery builds the scan query for a CSV path. Local paths are made
// absolute; remote URLs are passed through.
func readCSVQuery(path string) string {
	if !strings.Contains(path, "://") {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header=true, all_varchar=true)", quote(path))
}

// redact hides secret values in setup statements used in error messages.
func redact(stmt string) string {
	if strings.HasPrefix(stmt, "CREATE OR REPLACE SECRET") {
		name, _, _ := strings.Cut(strings.TrimPrefix(stmt, "CREATE OR REPLACE SECRET "), " ")
		return "CREATE OR REPLACE SECRET " + name
	}
	return stmt
}

// Ensure Source implements core.FileSource interface
var _ core.FileSource = (*Source)(nil)
