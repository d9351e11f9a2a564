package csv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/crease/internal/testutil"
	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configure(t *testing.T, dir string, params map[string]any) *Source {
	t.Helper()
	src := New(testutil.NewTestLogger(t))
	require.NoError(t, src.Configure(core.SourceConfig{
		Type:       Name,
		Matches:    filepath.Join(dir, "matches.csv"),
		Deliveries: filepath.Join(dir, "deliveries.csv"),
		Params:     params,
	}))
	return src
}

func TestSource_Load(t *testing.T) {
	dir := testutil.WriteDataset(t)
	src := configure(t, dir, nil)
	defer func() { _ = src.Close() }()

	ds, err := src.Load(context.Background())
	require.NoError(t, err)

	want := testutil.Dataset()
	assert.Equal(t, want.Matches, ds.Matches)
	assert.Equal(t, want.Deliveries, ds.Deliveries)
	assert.Equal(t, Name, ds.Source)
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestSource_Files(t *testing.T) {
	src := configure(t, "data", nil)
	assert.Equal(t, map[string]string{
		core.TableMatches:    filepath.Join("data", "matches.csv"),
		core.TableDeliveries: filepath.Join("data", "deliveries.csv"),
	}, src.Files())
}

func TestSource_Load_Failures(t *testing.T) {
	tests := []struct {
		name       string
		matches    string
		deliveries string
		wantMsg    string
	}{
		{
			name:       "missing deliveries file",
			matches:    testutil.MatchesCSV,
			deliveries: "",
			wantMsg:    "file not found",
		},
		{
			name:       "missing column",
			matches:    "id,season,team1,team2,venue\n1,2008,A,B,V\n",
			deliveries: testutil.DeliveriesCSV,
			wantMsg:    `missing required column "winner"`,
		},
		{
			name:       "empty file",
			matches:    testutil.MatchesCSV,
			deliveries: "\n",
			wantMsg:    "file is empty",
		},
		{
			name:       "ragged row",
			matches:    "id,season,team1,team2,winner,venue\n1,2008,A,B\n",
			deliveries: testutil.DeliveriesCSV,
			wantMsg:    "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteFile(t, filepath.Join(dir, "matches.csv"), tt.matches)
			if tt.deliveries != "" {
				testutil.WriteFile(t, filepath.Join(dir, "deliveries.csv"), tt.deliveries)
			}

			_, err := configure(t, dir, nil).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrDataUnavailable)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSource_Params(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "matches.csv"),
		"# exported 2024-01-01\nid;season;team1;team2;winner;venue\n1;2008;A;B;A;V\n")
	testutil.WriteFile(t, filepath.Join(dir, "deliveries.csv"),
		"match_id;batting_team;bowling_team;batter;bowler;batsman_runs;dismissal_kind\n1;A;B;x;y;4;\n")

	src := configure(t, dir, map[string]any{"delimiter": ";", "comment": "#"})
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Matches, 1)
	assert.Equal(t, "V", ds.Matches[0].Venue)
	require.Len(t, ds.Deliveries, 1)
	assert.Equal(t, 4, ds.Deliveries[0].BatterRuns)
}

func TestSource_Cancelled(t *testing.T) {
	dir := testutil.WriteDataset(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := configure(t, dir, nil).LoadMatches(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigure_Errors(t *testing.T) {
	src := New(nil)
	require.Error(t, src.Configure(core.SourceConfig{Matches: "m.csv"}))
	require.Error(t, src.Configure(core.SourceConfig{Matches: "m.csv", Deliveries: "d.csv", Params: map[string]any{"delimiter": ";;"}}))
	require.Error(t, src.Configure(core.SourceConfig{Matches: "m.csv", Deliveries: "d.csv", Params: map[string]any{"unknown": true}}))
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		want    *Params
		wantErr bool
	}{
		{name: "nil params returns empty struct", input: nil, want: &Params{}},
		{name: "delimiter", input: map[string]any{"delimiter": "\t"}, want: &Params{Delimiter: "\t"}},
		{name: "weakly typed bool", input: map[string]any{"lazy_quotes": "true"}, want: &Params{LazyQuotes: true}},
		{name: "same delimiter and comment", input: map[string]any{"delimiter": "#", "comment": "#"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistered(t *testing.T) {
	assert.True(t, source.IsRegistered(Name))

	src, err := source.New(core.SourceConfig{Type: Name, Matches: "m.csv", Deliveries: "d.csv"}, nil)
	require.NoError(t, err)
	assert.Equal(t, Name, src.Name())
}
