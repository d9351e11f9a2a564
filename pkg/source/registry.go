// Package source holds the dataset source registry and the row decoding
// shared by every source implementation.
package source

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/crease/pkg/core"
)

// Factory creates an unconfigured source.
type Factory func(*slog.Logger) core.Source

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a source factory to the registry.
// Called by source implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a source factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates and configures a source based on config type.
// The logger parameter is passed to the source constructor (nil uses discard logger).
func New(cfg core.SourceConfig, logger *slog.Logger) (core.Source, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("source type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &core.UnknownSourceError{
			Type:      cfg.Type,
			Available: List(),
		}
	}

	src := factory(logger)
	if err := src.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configure %s source: %w", cfg.Type, err)
	}
	return src, nil
}

// List returns all registered source names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a source type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// DiscardLogger returns logger, or a logger that drops everything when nil.
func DiscardLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
