package commands

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/ui"
	"github.com/leapstack-labs/crease/internal/winprob"
	"github.com/leapstack-labs/crease/pkg/core"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the analytics dashboard",
		Long: `Start a local web server with the team analytics dashboard.

The dashboard provides:
- Overview with total matches, wins and win rate
- Matches and wins per season
- Top run scorers and wicket takers
- Wins by venue
- Auction strategy and impact player recommendations
- Win probability calculator

The dataset is loaded once at startup. With --watch, the dashboard shows a
banner when the source files change.`,
		Example: `  # Start dashboard on default port
  crease serve

  # Start on custom port
  crease serve --port 3000

  # Start without auto-opening browser
  crease serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the source files for changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger
	uiCfg := cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := uiCfg.AutoOpen && !opts.NoBrowser
	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	content, err := cmdCtx.Advisory()
	if err != nil {
		return err
	}

	// Load up front so a broken source fails before the server starts.
	r := cmdCtx.Renderer
	r.Println("Loading dataset...")
	ds, err := cmdCtx.Loader.Dataset(cmd.Context())
	if err != nil {
		return err
	}
	r.Printf("Loaded %s matches and %s deliveries\n", r.Number(len(ds.Matches)), r.Number(len(ds.Deliveries)))

	var files map[string]string
	if fs, ok := cmdCtx.Source.(core.FileSource); ok {
		files = fs.Files()
	}
	team, season := selection(cmd, cfg)

	server := ui.NewServer(ui.Config{
		Provider:      cmdCtx.Loader,
		Advisory:      content,
		Estimator:     winprob.New(),
		Team:          team,
		Season:        season,
		Limit:         cfg.Limit,
		Port:          port,
		Watch:         watch,
		WatchFiles:    files,
		SessionSecret: uiCfg.SessionSecret,
		Logger:        logger,
	})

	if autoOpen {
		go openBrowser(fmt.Sprintf("http://localhost:%d", port))
	}

	r.Printf("Starting dashboard on http://localhost:%d\n", port)
	r.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
