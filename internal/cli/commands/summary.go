package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/internal/stats"
)

// SummaryOptions holds options for the summary command.
type SummaryOptions struct {
	Format string
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	opts := &SummaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the team performance report",
		Long: `Print every dashboard section for the selected team and season:
win record, matches and wins per season, top run scorers, top wicket
takers and wins by venue.

Output adapts to environment:
  - Terminal: Tables with bar charts
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Report for the configured team across all seasons
  crease summary

  # One season, as JSON
  crease summary --season 2013 -o json

  # Another team, top 5 players
  crease summary --team "Chennai Super Kings" --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func runSummary(cmd *cobra.Command, opts *SummaryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererFor(cmd, opts.Format)
	}

	ds, err := cmdCtx.Loader.Dataset(cmd.Context())
	if err != nil {
		return err
	}

	team, season := selection(cmd, cmdCtx.Cfg)
	view := filter.NewView(ds, team, season)
	if view.Empty() {
		if teams := filter.Teams(ds.Matches); !teamKnown(teams, team) {
			cmdCtx.Logger.Warn("team not in dataset", "team", team, "known_teams", len(teams), "hint", "see 'crease doctor'")
		} else {
			cmdCtx.Logger.Info("empty selection", "error", view.Check())
		}
	}

	report := stats.Summarize(view, cmdCtx.Cfg.Limit)
	return r.Report(&report)
}

func teamKnown(teams []string, team string) bool {
	for _, t := range teams {
		if t == team {
			return true
		}
	}
	return false
}
