package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/tui"
	"github.com/leapstack-labs/crease/internal/winprob"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the dashboard in the terminal",
		Long: `Open the analytics dashboard as a full-screen terminal application.

Keys:
  tab / shift+tab   switch section
  1-8               jump to a section
  [ / ]             previous / next season
  t / T             next / previous team
  up / down         pick a scenario or form field
  enter             estimate the win probability
  q                 quit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			content, err := cmdCtx.Advisory()
			if err != nil {
				return err
			}
			ds, err := cmdCtx.Loader.Dataset(cmd.Context())
			if err != nil {
				return err
			}

			team, season := selection(cmd, cmdCtx.Cfg)
			return tui.Run(cmd.Context(), tui.Config{
				Dataset:   ds,
				Advisory:  content,
				Estimator: winprob.New(),
				Team:      team,
				Season:    season,
				Limit:     cmdCtx.Cfg.Limit,
				Input:     cmd.InOrStdin(),
				Output:    cmd.OutOrStdout(),
			})
		},
	}
}
