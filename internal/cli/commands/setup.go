package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/advisory"
	"github.com/leapstack-labs/crease/internal/cli/config"
	"github.com/leapstack-labs/crease/internal/cli/output"
	"github.com/leapstack-labs/crease/internal/dataset"
	"github.com/leapstack-labs/crease/internal/state"
	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Source   core.Source
	Store    core.LoadStore // nil when the state database could not be opened
	Loader   *dataset.Loader
}

// NewCommandContext creates a CommandContext with a configured source, the
// load history store and a dataset loader.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutSource(cmd)
	cfg := cmdCtx.Cfg

	if err := cfg.ValidateDataDir(); err != nil {
		return nil, nil, err
	}

	src, err := source.New(cfg.SourceConfig(), cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}

	store, err := openStore(cfg, cmdCtx.Logger)
	if err != nil {
		cmdCtx.Logger.Warn("load history disabled", "path", cfg.StatePath, "error", err)
	}

	var ls core.LoadStore
	if store != nil {
		ls = store
	}
	cmdCtx.Source = src
	cmdCtx.Store = ls
	cmdCtx.Loader = dataset.NewLoader(src, ls, cmdCtx.Logger)

	cleanup := func() {
		if err := src.Close(); err != nil {
			cmdCtx.Logger.Debug("closing source", "error", err)
		}
		if store != nil {
			_ = store.Close()
		}
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutSource creates a CommandContext without a source.
// Useful for commands that don't read the dataset.
func NewCommandContextWithoutSource(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Advisory returns the advisory content, from the configured file if any.
func (c *CommandContext) Advisory() (*advisory.Content, error) {
	if c.Cfg.AdvisoryPath == "" {
		return advisory.Load()
	}
	return advisory.LoadFile(c.Cfg.AdvisoryPath)
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		DataDir:      config.DefaultDataDir,
		Team:         config.DefaultTeam,
		Season:       config.DefaultSeason,
		Limit:        config.DefaultLimit,
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
		Source:       &config.SourceConfig{Type: config.DefaultSourceType},
	}
}

// openStore opens the load history database, creating its directory.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if cfg.StatePath == "" {
		return nil, fmt.Errorf("state path not configured")
	}
	stateDir := filepath.Dir(cfg.StatePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return state.OpenStore(cfg.StatePath, logger)
}

// selection returns the team and season to report on, flags first.
func selection(cmd *cobra.Command, cfg *config.Config) (team, season string) {
	team, season = cfg.Selection()
	if f := cmd.Flags().Lookup("team"); f != nil && f.Changed {
		team = f.Value.String()
	}
	if f := cmd.Flags().Lookup("season"); f != nil && f.Changed {
		season = f.Value.String()
	}
	return team, season
}

// rendererFor creates a renderer for an explicit --format value.
func rendererFor(cmd *cobra.Command, format string) *output.Renderer {
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
}
