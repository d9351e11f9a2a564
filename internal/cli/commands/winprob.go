package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/cli/output"
	"github.com/leapstack-labs/crease/internal/winprob"
)

const winprobPrompt = "winprob> "

// WinprobOptions holds options for the winprob command.
type WinprobOptions struct {
	Score       int
	Wickets     int
	Overs       float64
	Seed        uint64
	Interactive bool
}

// WinprobResult is the JSON output of one estimate.
type WinprobResult struct {
	winprob.Input
	WinProbability float64 `json:"win_probability"`
}

// NewWinprobCommand creates the winprob command.
func NewWinprobCommand() *cobra.Command {
	opts := &WinprobOptions{}

	cmd := &cobra.Command{
		Use:   "winprob",
		Short: "Estimate the win probability of an innings",
		Long: `Estimate the win probability from the current score, wickets lost and
overs bowled. The estimate is a run-rate heuristic with random noise of up
to 10 points either way, so repeated calls differ unless --seed is given.

With -i, starts a prompt that reads "<score> <wickets> <overs>" per line.`,
		Example: `  # One estimate
  crease winprob --score 120 --wickets 3 --overs 15.5

  # Reproducible noise
  crease winprob --score 120 --wickets 3 --overs 15.5 --seed 7

  # Interactive prompt
  crease winprob -i`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWinprob(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Score, "score", 0, "Current score (runs)")
	cmd.Flags().IntVar(&opts.Wickets, "wickets", 0, "Wickets lost (0-10)")
	cmd.Flags().Float64Var(&opts.Overs, "overs", 0, "Overs bowled (0-20, in steps of 0.5)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Seed for the noise (default: random)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Start an interactive prompt")

	return cmd
}

func runWinprob(cmd *cobra.Command, opts *WinprobOptions) error {
	cmdCtx := NewCommandContextWithoutSource(cmd)
	r := cmdCtx.Renderer

	est := winprob.New()
	if cmd.Flags().Changed("seed") {
		est = winprob.NewSeeded(opts.Seed)
	}

	if opts.Interactive {
		historyFile := ""
		if cmdCtx.Cfg.StatePath != "" {
			historyFile = filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "winprob_history")
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          winprobPrompt,
			HistoryFile:     historyFile,
			InterruptPrompt: "^C",
			EOFPrompt:       ".quit",
			Stdin:           io.NopCloser(cmd.InOrStdin()),
			Stdout:          cmd.OutOrStdout(),
			Stderr:          cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize prompt: %w", err)
		}
		defer func() { _ = rl.Close() }()

		r.Println("Win probability calculator")
		r.Println("Enter <score> <wickets> <overs>, .help for help, .quit to exit")
		r.Println("")
		return winprobLoop(rl, r, est)
	}

	in := winprob.Input{Score: opts.Score, Wickets: opts.Wickets, Overs: opts.Overs}
	return printEstimate(r, est, in)
}

// lineReader is the part of readline the prompt loop uses.
type lineReader interface {
	Readline() (string, error)
}

func winprobLoop(rl lineReader, r *output.Renderer, est *winprob.Estimator) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ".quit", ".exit":
			return nil
		case ".help":
			printWinprobHelp(r)
			continue
		}

		in, err := parseWinprobLine(line)
		if err != nil {
			r.Error(err.Error())
			continue
		}
		if err := printEstimate(r, est, in); err != nil {
			r.Error(err.Error())
		}
	}
}

// parseWinprobLine parses "<score> <wickets> <overs>" or key=value pairs
// such as "score=120 overs=15.5 wickets=3".
func parseWinprobLine(line string) (winprob.Input, error) {
	var in winprob.Input
	fields := strings.Fields(line)

	if strings.Contains(line, "=") {
		seen := make(map[string]bool, 3)
		for _, f := range fields {
			key, value, ok := strings.Cut(f, "=")
			if !ok {
				return in, fmt.Errorf("expected key=value, got %q", f)
			}
			if err := setWinprobField(&in, strings.ToLower(key), value); err != nil {
				return in, err
			}
			seen[strings.ToLower(key)] = true
		}
		for _, key := range []string{"score", "wickets", "overs"} {
			if !seen[key] {
				return in, fmt.Errorf("missing %s", key)
			}
		}
		return in, nil
	}

	if len(fields) != 3 {
		return in, fmt.Errorf("expected <score> <wickets> <overs>, got %d values", len(fields))
	}
	for i, key := range []string{"score", "wickets", "overs"} {
		if err := setWinprobField(&in, key, fields[i]); err != nil {
			return in, err
		}
	}
	return in, nil
}

func setWinprobField(in *winprob.Input, key, value string) error {
	switch key {
	case "score", "wickets":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a whole number, got %q", key, value)
		}
		if key == "score" {
			in.Score = n
		} else {
			in.Wickets = n
		}
	case "overs":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("overs must be a number, got %q", value)
		}
		in.Overs = f
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}

func printEstimate(r *output.Renderer, est *winprob.Estimator, in winprob.Input) error {
	p, err := est.Estimate(in)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(WinprobResult{Input: in, WinProbability: p})
	case output.ModeMarkdown:
		r.Printf("**Win probability:** %.2f%% (score %d/%d after %g overs)\n", p, in.Score, in.Wickets, in.Overs)
	default:
		styles := r.Styles()
		r.Printf("%s %s  %s\n",
			styles.Bold.Render("Win probability:"),
			styles.Info.Render(fmt.Sprintf("%.2f%%", p)),
			styles.Muted.Render(fmt.Sprintf("(%d/%d after %g overs)", in.Score, in.Wickets, in.Overs)))
	}
	return nil
}

func printWinprobHelp(r *output.Renderer) {
	r.Println("Enter the innings state as:")
	r.Println("  <score> <wickets> <overs>        e.g. 120 3 15.5")
	r.Println("  score=N wickets=N overs=N        in any order")
	r.Println("")
	r.Println("Commands:")
	r.Println("  .help    Show this help")
	r.Println("  .quit    Exit")
}
