// Package config provides configuration management for the crease CLI.
//
// Configuration is layered: built-in defaults, then crease.yaml in the
// project root, then a .env file next to it, then CREASE_* environment
// variables, then explicitly set command-line flags.
package config

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/crease/pkg/core"
)

// Default configuration values.
const (
	DefaultDataDir         = "data"
	DefaultTeam            = "Mumbai Indians"
	DefaultSeason          = "all"
	DefaultLimit           = 10
	DefaultStateFile       = ".crease/state.db"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSourceType      = "csv"
	DefaultMatchesFile     = "matches.csv"
	DefaultDeliveriesFile  = "deliveries.csv"
	DefaultUIPort          = 8765
	DefaultSessionSecret   = "crease-dev-session-secret"
	DefaultMatchesTable    = "matches"
	DefaultDeliveriesTable = "deliveries"
)

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string        `koanf:"data_dir"`
	Team         string        `koanf:"team"`
	Season       string        `koanf:"season"`
	Limit        int           `koanf:"limit"`
	StatePath    string        `koanf:"state_path"`
	AdvisoryPath string        `koanf:"advisory_path"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Source       *SourceConfig `koanf:"source"`
	UI           *UIConfig     `koanf:"ui"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// SourceConfig selects and configures the dataset source.
type SourceConfig struct {
	Type            string            `koanf:"type"`
	Matches         string            `koanf:"matches"`
	Deliveries      string            `koanf:"deliveries"`
	Host            string            `koanf:"host"`
	Port            int               `koanf:"port"`
	Database        string            `koanf:"database"`
	User            string            `koanf:"user"`
	Password        string            `koanf:"password"`
	Schema          string            `koanf:"schema"`
	MatchesTable    string            `koanf:"matches_table"`
	DeliveriesTable string            `koanf:"deliveries_table"`
	Options         map[string]string `koanf:"options"`
	Params          map[string]any    `koanf:"params"`
}

// UIConfig holds configuration for the dashboard server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:          DefaultUIPort,
		AutoOpen:      true,
		Watch:         true,
		SessionSecret: DefaultSessionSecret,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	if ui.SessionSecret == "" {
		ui.SessionSecret = DefaultSessionSecret
	}
	return ui
}

// SourceConfig converts the source section into the form sources consume.
// CSV and DuckDB file paths default to matches.csv and deliveries.csv in
// the data directory; relative paths resolve against the data directory.
func (c *Config) SourceConfig() core.SourceConfig {
	src := c.Source
	if src == nil {
		src = &SourceConfig{Type: DefaultSourceType}
	}

	out := core.SourceConfig{
		Type:            strings.ToLower(src.Type),
		Matches:         src.Matches,
		Deliveries:      src.Deliveries,
		Host:            src.Host,
		Port:            src.Port,
		Database:        src.Database,
		Username:        src.User,
		Password:        src.Password,
		Schema:          src.Schema,
		MatchesTable:    src.MatchesTable,
		DeliveriesTable: src.DeliveriesTable,
		Options:         src.Options,
		Params:          src.Params,
	}
	if out.Type == "" {
		out.Type = DefaultSourceType
	}
	if !usesFiles(out.Type) {
		return out
	}

	if out.Matches == "" {
		out.Matches = DefaultMatchesFile
	}
	if out.Deliveries == "" {
		out.Deliveries = DefaultDeliveriesFile
	}
	out.Matches = c.dataPath(out.Matches)
	out.Deliveries = c.dataPath(out.Deliveries)
	return out
}

// Selection returns the configured team and season.
func (c *Config) Selection() (team, season string) {
	return c.Team, c.Season
}

func (c *Config) dataPath(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

func usesFiles(sourceType string) bool {
	return sourceType == "csv" || sourceType == "duckdb"
}
