package commands

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitestutil "github.com/leapstack-labs/crease/internal/cli/testutil"
	"github.com/leapstack-labs/crease/internal/winprob"
)

// scriptedReader returns lines in order, then io.EOF.
type scriptedReader struct {
	lines []string
	errs  map[int]error
	pos   int
}

func (s *scriptedReader) Readline() (string, error) {
	i := s.pos
	s.pos++
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if i >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[i], nil
}

// zeroNoise pins the noise to zero: IntN(21) == 10.
type zeroNoise struct{}

func (zeroNoise) IntN(n int) int { return n / 2 }

func TestParseWinprobLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    winprob.Input
		wantErr string
	}{
		{"positional", "120 3 15.5", winprob.Input{Score: 120, Wickets: 3, Overs: 15.5}, ""},
		{"key value any order", "overs=10 score=60 wickets=4", winprob.Input{Score: 60, Wickets: 4, Overs: 10}, ""},
		{"too few values", "120 3", winprob.Input{}, "expected <score> <wickets> <overs>"},
		{"fractional score", "12.5 3 10", winprob.Input{}, "score must be a whole number"},
		{"bad overs", "120 3 ten", winprob.Input{}, "overs must be a number"},
		{"missing key", "score=1 overs=2", winprob.Input{}, "missing wickets"},
		{"unknown key", "score=1 wickets=2 overs=3 target=4", winprob.Input{}, "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWinprobLine(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWinprobLoop(t *testing.T) {
	tr := clitestutil.NewTestRendererMarkdown()
	rl := &scriptedReader{
		lines: []string{"", ".help", "60 4 10", "60 12 10", "nonsense", "0 0 0", ".quit", "60 4 10"},
		errs:  map[int]error{1: readline.ErrInterrupt},
	}

	require.NoError(t, winprobLoop(rl, tr.Renderer, winprob.WithRand(zeroNoise{})))

	out := tr.Output()
	assert.NotContains(t, out, "Commands:", "interrupted line is skipped")
	assert.Contains(t, out, "**Win probability:** 36.00% (score 60/4 after 10 overs)")
	assert.Contains(t, out, "wickets must be between 0 and 10")
	assert.Contains(t, out, "expected <score> <wickets> <overs>")
	assert.Contains(t, out, "**Win probability:** 0.00%")
	assert.Equal(t, 1, countOccurrences(out, "36.00%"), "input after .quit is not read")
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func TestWinprobCommand_Once(t *testing.T) {
	path := clitestutil.SetupTestProjectWithConfig(t, "output: json\n")

	out, err := runCommand(t, path, NewWinprobCommand(), "--score", "60", "--wickets", "4", "--overs", "10", "--seed", "7")
	require.NoError(t, err)

	var got WinprobResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, winprob.Input{Score: 60, Wickets: 4, Overs: 10}, got.Input)
	assert.GreaterOrEqual(t, got.WinProbability, 26.0)
	assert.LessOrEqual(t, got.WinProbability, 46.0)

	again, err := runCommand(t, path, NewWinprobCommand(), "--score", "60", "--wickets", "4", "--overs", "10", "--seed", "7")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed gives the same estimate")
}

func TestWinprobCommand_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"too many wickets", []string{"--score", "60", "--wickets", "11", "--overs", "10"}, "wickets must be between 0 and 10"},
		{"overs off the step", []string{"--score", "60", "--wickets", "4", "--overs", "15.3"}, "overs must be in steps of 0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := clitestutil.SetupTestProject(t)

			_, err := runCommand(t, path, NewWinprobCommand(), tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, winprob.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
