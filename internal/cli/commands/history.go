package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/cli/output"
	"github.com/leapstack-labs/crease/pkg/core"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent dataset loads",
		Long: `List the most recent dataset loads recorded in the state database,
newest first, with their status, row counts and duration.`,
		Example: `  crease history
  crease history --last 5 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "last", "n", 20, "Number of loads to show (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContextWithoutSource(cmd)
	r := cmdCtx.Renderer

	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListLoadRuns(opts.Limit)
	if err != nil {
		return err
	}
	return renderHistory(r, runs)
}

// HistoryEntry is the JSON output of one load run.
type HistoryEntry struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	Matches     int        `json:"matches"`
	Deliveries  int        `json:"deliveries"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMS  int64      `json:"duration_ms"`
	Error       string     `json:"error,omitempty"`
}

func renderHistory(r *output.Renderer, runs []*core.LoadRun) error {
	if r.EffectiveMode() == output.ModeJSON {
		entries := make([]HistoryEntry, 0, len(runs))
		for _, run := range runs {
			entries = append(entries, HistoryEntry{
				ID:          run.ID,
				Source:      run.Source,
				Status:      string(run.Status),
				Matches:     run.Matches,
				Deliveries:  run.Deliveries,
				StartedAt:   run.StartedAt,
				CompletedAt: run.CompletedAt,
				DurationMS:  run.Duration().Milliseconds(),
				Error:       run.Error,
			})
		}
		return r.JSON(entries)
	}

	r.Header(1, "Load History")
	if len(runs) == 0 {
		r.Muted("No loads recorded yet. Run 'crease summary' or 'crease serve' to load the dataset.")
		return nil
	}

	rows := make([][]any, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []any{
			run.StartedAt.Local().Format(time.DateTime),
			run.Source,
			string(run.Status),
			r.Number(run.Matches),
			r.Number(run.Deliveries),
			formatDuration(run.Duration()),
			run.Error,
		})
	}
	r.Table([]string{"Started", "Source", "Status", "Matches", "Deliveries", "Duration", "Error"}, rows, 4, 5)
	return nil
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}
