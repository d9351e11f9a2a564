// Package postgres provides a dataset source that reads the match and
// delivery tables from PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
)

// Name is the registered source type.
const Name = "postgres"

// Default table and schema names.
const (
	DefaultSchema          = "public"
	DefaultMatchesTable    = "matches"
	DefaultDeliveriesTable = "deliveries"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Source implements core.Source for PostgreSQL.
type Source struct {
	source.BaseSQLSource

	mu sync.Mutex
}

// New creates a new PostgreSQL source instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Source {
	return &Source{
		BaseSQLSource: source.BaseSQLSource{Logger: source.DiscardLogger(logger)},
	}
}

// NewWithDB creates a source on an existing connection.
func NewWithDB(db *sql.DB, cfg core.SourceConfig, logger *slog.Logger) (*Source, error) {
	s := New(logger)
	if err := s.Configure(cfg); err != nil {
		return nil, err
	}
	s.DB = db
	return s, nil
}

// Name returns the registered source type.
func (s *Source) Name() string {
	return Name
}

// Configure applies defaults and validates table identifiers.
func (s *Source) Configure(cfg core.SourceConfig) error {
	if cfg.Database == "" {
		return fmt.Errorf("postgres source requires a database name")
	}
	if cfg.Schema == "" {
		cfg.Schema = DefaultSchema
	}
	if cfg.MatchesTable == "" {
		cfg.MatchesTable = DefaultMatchesTable
	}
	if cfg.DeliveriesTable == "" {
		cfg.DeliveriesTable = DefaultDeliveriesTable
	}
	for _, ident := range []string{cfg.Schema, cfg.MatchesTable, cfg.DeliveriesTable} {
		if !identPattern.MatchString(ident) {
			return fmt.Errorf("invalid postgres identifier %q", ident)
		}
	}
	s.Cfg = cfg
	return nil
}

// connect opens the connection pool on first use.
func (s *Source) connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DB != nil {
		return nil
	}

	s.Logger.Debug("connecting to postgres", slog.String("host", s.Cfg.Host), slog.String("database", s.Cfg.Database))

	connCfg, err := pgx.ParseConfig(buildPostgresDSN(s.Cfg))
	if err != nil {
		return fmt.Errorf("invalid postgres connection settings: %w", err)
	}
	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	s.DB = db
	return nil
}

// Ping checks the connection without reading any table.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	return s.DB.PingContext(ctx)
}

// LoadMatches reads the match table.
func (s *Source) LoadMatches(ctx context.Context) (core.Matches, error) {
	origin := s.origin(s.Cfg.MatchesTable)
	if err := s.connect(ctx); err != nil {
		return nil, &core.DataUnavailableError{Source: Name, Table: core.TableMatches, Path: origin.Path, Err: err}
	}
	return s.QueryMatches(ctx, selectAll(s.Cfg.Schema, s.Cfg.MatchesTable), origin)
}

// LoadDeliveries reads the delivery table.
func (s *Source) LoadDeliveries(ctx context.Context) (core.Deliveries, error) {
	origin := s.origin(s.Cfg.DeliveriesTable)
	if err := s.connect(ctx); err != nil {
		return nil, &core.DataUnavailableError{Source: Name, Table: core.TableDeliveries, Path: origin.Path, Err: err}
	}
	return s.QueryDeliveries(ctx, selectAll(s.Cfg.Schema, s.Cfg.DeliveriesTable), origin)
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

func (s *Source) origin(table string) source.Origin {
	return source.Origin{Source: Name, Path: s.Cfg.Schema + "." + table}
}

// selectAll builds the table scan. Identifiers are validated in Configure.
func selectAll(schema, table string) string {
	return fmt.Sprintf(`SELECT * FROM %q.%q`, schema, table)
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg core.SourceConfig) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, cfg.Database, sslmode)
	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if app, ok := cfg.Options["application_name"]; ok {
		dsn += fmt.Sprintf(" application_name=%s", app)
	}
	return dsn
}

// Ensure Source implements core.Source interface
var _ core.Source = (*Source)(nil)
