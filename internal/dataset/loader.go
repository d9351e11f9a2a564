// Package dataset loads the match and delivery tables once per process and
// shares them read-only with every consumer.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/crease/pkg/core"
)

// Provider hands out the loaded dataset.
type Provider interface {
	Dataset(ctx context.Context) (*core.Dataset, error)
}

// Loader reads the dataset from a source on first use and memoizes it.
// Failed loads are not memoized; the next call retries.
type Loader struct {
	src    core.Source
	store  core.LoadStore
	logger *slog.Logger

	mu sync.Mutex
	ds *core.Dataset
}

// NewLoader creates a loader for src. store may be nil to skip load auditing.
// If logger is nil, a discard logger is used.
func NewLoader(src core.Source, store core.LoadStore, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{src: src, store: store, logger: logger}
}

// Dataset returns the memoized dataset, loading it on first call.
func (l *Loader) Dataset(ctx context.Context) (*core.Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ds != nil {
		return l.ds, nil
	}

	ds, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	l.ds = ds
	return ds, nil
}

// Load returns both tables.
func (l *Loader) Load(ctx context.Context) (core.Matches, core.Deliveries, error) {
	ds, err := l.Dataset(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ds.Matches, ds.Deliveries, nil
}

// Loaded reports whether the dataset is already in memory.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ds != nil
}

// Close releases the source.
func (l *Loader) Close() error {
	return l.src.Close()
}

func (l *Loader) load(ctx context.Context) (*core.Dataset, error) {
	start := time.Now()
	run := l.startRun()

	l.logger.Info("loading dataset", slog.String("source", l.src.Name()))

	ds, err := l.src.Load(ctx)
	if err != nil {
		l.finishRun(run, core.LoadRunStatusFailed, 0, 0, err.Error())
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	if fs, ok := l.src.(core.FileSource); ok {
		l.trackFiles(fs.Files(), run)
	}
	l.finishRun(run, core.LoadRunStatusCompleted, len(ds.Matches), len(ds.Deliveries), "")

	l.logger.Info("dataset loaded",
		slog.Int("matches", len(ds.Matches)),
		slog.Int("deliveries", len(ds.Deliveries)),
		slog.Duration("elapsed", time.Since(start)))
	return ds, nil
}

// startRun records a running load. Store failures are logged, never fatal.
func (l *Loader) startRun() *core.LoadRun {
	if l.store == nil {
		return nil
	}
	run, err := l.store.CreateLoadRun(l.src.Name())
	if err != nil {
		l.logger.Warn("failed to record load run", slog.String("error", err.Error()))
		return nil
	}
	return run
}

func (l *Loader) finishRun(run *core.LoadRun, status core.LoadRunStatus, matches, deliveries int, errMsg string) {
	if run == nil {
		return
	}
	if err := l.store.CompleteLoadRun(run.ID, status, matches, deliveries, errMsg); err != nil {
		l.logger.Warn("failed to complete load run", slog.String("run_id", run.ID), slog.String("error", err.Error()))
	}
}

// trackFiles hashes the source files, logs drift against the previous load
// and stores the new hashes.
func (l *Loader) trackFiles(files map[string]string, run *core.LoadRun) {
	if l.store == nil {
		return
	}

	statuses, err := Inspect(files, l.store)
	if err != nil {
		l.logger.Warn("failed to inspect source files", slog.String("error", err.Error()))
		return
	}

	runID := ""
	if run != nil {
		runID = run.ID
	}
	for _, st := range statuses {
		if st.Changed() {
			l.logger.Info("source file changed since last load",
				slog.String("table", st.Table),
				slog.String("path", st.Path),
				slog.Time("previous_load", st.Previous.SeenAt))
		}
		err := l.store.SetSourceFile(&core.SourceFile{
			Path:        st.Path,
			Table:       st.Table,
			ContentHash: st.Hash,
			SizeBytes:   st.Size,
			RunID:       runID,
			SeenAt:      time.Now().UTC(),
		})
		if err != nil {
			l.logger.Warn("failed to store source file hash", slog.String("path", st.Path), slog.String("error", err.Error()))
		}
	}
}

// Static is a Provider over a fixed dataset, or a fixed error.
type Static struct {
	DS  *core.Dataset
	Err error
}

// Dataset returns the fixed dataset or error.
func (s Static) Dataset(_ context.Context) (*core.Dataset, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.DS, nil
}

// Ensure implementations satisfy Provider
var (
	_ Provider = (*Loader)(nil)
	_ Provider = Static{}
)
