package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/crease/pkg/source"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Team) == "" {
		return errors.New("team is required")
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", c.Limit)
	}
	if !validOutput(c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.Source != nil {
		if err := c.Source.Validate(); err != nil {
			return fmt.Errorf("invalid source configuration: %w", err)
		}
	}
	if c.UI != nil && (c.UI.Port < 0 || c.UI.Port > 65535) {
		return fmt.Errorf("ui.port out of range: %d", c.UI.Port)
	}

	// Directory existence is checked by ValidateDataDir, so help and
	// version work outside a project.
	return nil
}

// Validate checks the source section against the registered source types.
func (s *SourceConfig) Validate() error {
	if s.Type == "" {
		return errors.New("source type is required")
	}
	if !source.IsRegistered(s.Type) {
		return fmt.Errorf("unknown source type %q (available: %s)", s.Type, strings.Join(source.List(), ", "))
	}
	return nil
}

// ValidateDataDir checks that the data directory exists for file-based sources.
func (c *Config) ValidateDataDir() error {
	if c.Source != nil && !usesFiles(c.Source.Type) {
		return nil
	}
	if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s\nHint: Create the directory or use --data-dir to specify a different path", c.DataDir)
	}
	return nil
}

func validOutput(format string) bool {
	for _, f := range OutputFormats {
		if format == f {
			return true
		}
	}
	return false
}
