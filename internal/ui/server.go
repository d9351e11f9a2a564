// Package ui provides the web dashboard for crease.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/crease/internal/advisory"
	"github.com/leapstack-labs/crease/internal/dataset"
	"github.com/leapstack-labs/crease/internal/stats"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/internal/ui/notifier"
	"github.com/leapstack-labs/crease/internal/ui/router"
	"github.com/leapstack-labs/crease/internal/winprob"
)

const watchDebounce = 100 * time.Millisecond

// Server is the dashboard server.
type Server struct {
	deps       *common.Deps
	port       int
	watch      bool
	watchFiles map[string]string
	logger     *slog.Logger
	notifier   *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Provider  dataset.Provider
	Advisory  *advisory.Content
	Estimator *winprob.Estimator

	// Team and Season are the selection for visitors without a session.
	Team   string
	Season string
	Limit  int

	Port  int
	Watch bool
	// WatchFiles maps table names to the files backing them.
	WatchFiles    map[string]string
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Advisory == nil {
		cfg.Advisory = advisory.MustLoad()
	}
	if cfg.Estimator == nil {
		cfg.Estimator = winprob.New()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = stats.DefaultLimit
	}

	notify := notifier.New()
	return &Server{
		deps: &common.Deps{
			Provider:  cfg.Provider,
			Advisory:  cfg.Advisory,
			Estimator: cfg.Estimator,
			Sessions:  sessionStore,
			Notifier:  notify,
			Defaults:  common.Selection{Team: cfg.Team, Season: cfg.Season},
			Limit:     cfg.Limit,
			Logger:    logger,
		},
		port:       cfg.Port,
		watch:      cfg.Watch,
		watchFiles: cfg.WatchFiles,
		logger:     logger,
		notifier:   notify,
	}
}

// Handler returns the dashboard's HTTP handler with all routes mounted.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch && len(s.watchFiles) > 0 {
		eg.Go(func() error {
			return s.watchSources(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchSources watches the source files and broadcasts a notice when one
// changes. The loaded dataset is kept; the notice asks for a restart.
func (s *Server) watchSources(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	tables := s.watchedTables()
	for _, dir := range watchedDirs(tables) {
		if err := watcher.Add(dir); err != nil {
			// Don't fail - continue without watching
			s.logger.Error("failed to watch source directory", "dir", dir, "error", err)
		}
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			table, watched := tables[filepath.Clean(event.Name)]
			if !watched {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				s.logger.Debug("source file changed", "table", table, "file", name)
				s.notifier.Broadcast(ChangeNotice(table, name))
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// ChangeNotice is the banner text for a changed source file.
func ChangeNotice(table, path string) string {
	return fmt.Sprintf("The %s data (%s) changed on disk. Restart crease to reload it.", table, filepath.Base(path))
}

// watchedTables maps cleaned absolute file paths to table names.
func (s *Server) watchedTables() map[string]string {
	tables := make(map[string]string, len(s.watchFiles))
	for table, path := range s.watchFiles {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		tables[filepath.Clean(path)] = table
	}
	return tables
}

// watchedDirs returns the distinct parent directories of the watched files.
// Directories are watched instead of files so editors that replace the file
// on save are still seen.
func watchedDirs(tables map[string]string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for path := range tables {
		dir := filepath.Dir(path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
