package core

import "context"

// Table names used in errors, logs and the state store.
const (
	TableMatches    = "matches"
	TableDeliveries = "deliveries"
)

// Source defines the interface that all dataset sources must implement.
type Source interface {
	// Name returns the registered source type, e.g. "csv".
	Name() string

	// Configure applies the source configuration. It does not touch the data.
	Configure(cfg SourceConfig) error

	// LoadMatches reads the match table.
	LoadMatches(ctx context.Context) (Matches, error)

	// LoadDeliveries reads the delivery table.
	LoadDeliveries(ctx context.Context) (Deliveries, error)

	// Load reads both tables. Any missing, unreadable or malformed table
	// yields a *DataUnavailableError.
	Load(ctx context.Context) (*Dataset, error)

	// Close releases connections held by the source.
	Close() error
}

// FileSource is implemented by sources that read local files.
type FileSource interface {
	Source

	// Files returns the table name to file path mapping.
	Files() map[string]string
}

// SourceConfig holds configuration for a dataset source.
type SourceConfig struct {
	Type string

	// File based sources
	Matches    string
	Deliveries string

	// Database sources
	Host            string
	Port            int
	Database        string
	Username        string
	Password        string
	Schema          string
	MatchesTable    string
	DeliveriesTable string
	Options         map[string]string

	// Params holds source specific settings, decoded by each source.
	Params map[string]any
}
