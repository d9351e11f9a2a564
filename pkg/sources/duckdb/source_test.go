package duckdb

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

func newSource(t *testing.T, dir string, params map[string]any) *Source {
	t.Helper()
	src := New(testutil.NewTestLogger(t))
	require.NoError(t, src.Configure(core.SourceConfig{
		Type:       Name,
		Matches:    filepath.Join(dir, "matches.csv"),
		Deliveries: filepath.Join(dir, "deliveries.csv"),
		Params:     params,
	}))
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSource_Load(t *testing.T) {
	dir := testutil.WriteDataset(t)
	src := newSource(t, dir, map[string]any{
		"settings": map[string]any{"threads": "1"},
	})

	ds, err := src.Load(context.Background())
	require.NoError(t, err)

	want := testutil.Dataset()
	assert.Equal(t, want.Matches, ds.Matches)
	assert.Equal(t, want.Deliveries, ds.Deliveries)
	assert.Equal(t, Name, ds.Source)
}

func TestSource_Load_MissingFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "matches.csv"), testutil.MatchesCSV)

	src := newSource(t, dir, nil)
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestSource_Load_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "matches.csv"), testutil.MatchesCSV)
	testutil.WriteFile(t, filepath.Join(dir, "deliveries.csv"), "match_id,batting_team,bowling_team,batter,bowler,batsman_runs\n1,A,B,x,y,4\n")

	src := newSource(t, dir, nil)
	_, err := src.LoadDeliveries(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
	assert.Contains(t, err.Error(), `"dismissal_kind"`)
}

func TestSource_BadSetting(t *testing.T) {
	dir := testutil.WriteDataset(t)
	src := newSource(t, dir, map[string]any{
		"settings": map[string]any{"not_a_real_setting": "1"},
	})

	_, err := src.LoadMatches(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "duckdb setup")
}

func TestReadCSVQuery(t *testing.T) {
	assert.Equal(t,
		"SELECT * FROM read_csv_auto('s3://bucket/it''s.csv', header=true, all_varchar=true)",
		readCSVQuery("s3://bucket/it's.csv"))

	abs, err := filepath.Abs("data/matches.csv")
	require.NoError(t, err)
	assert.Contains(t, readCSVQuery("data/matches.csv"), quote(abs))
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		want    *Params
		wantErr bool
	}{
		{
			name:  "nil params returns empty struct",
			input: nil,
			want:  &Params{},
		},
		{
			name: "extensions only",
			input: map[string]any{
				"extensions": []any{"httpfs"},
			},
			want: &Params{Extensions: []string{"httpfs"}},
		},
		{
			name: "secret with scope",
			input: map[string]any{
				"secrets": []any{
					map[string]any{"type": "s3", "provider": "credential_chain", "scope": "s3://ipl-data"},
				},
			},
			want: &Params{Secrets: []SecretConfig{{Type: "s3", Provider: "credential_chain", Scope: "s3://ipl-data"}}},
		},
		{
			name: "secret without type",
			input: map[string]any{
				"secrets": []any{map[string]any{"region": "us-east-1"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupStatements(t *testing.T) {
	useSSL := false
	p := &Params{
		Extensions: []string{"httpfs"},
		Settings:   map[string]string{"threads": "2", "memory_limit": "1GB"},
		Secrets: []SecretConfig{{
			Type:     "s3",
			Provider: "config",
			KeyID:    "key",
			Secret:   "shh",
			Endpoint: "localhost:9000",
			UseSSL:   &useSSL,
			Scope:    []any{"s3://a", "s3://b"},
		}},
	}

	stmts := p.setupStatements()
	require.Len(t, stmts, 5)
	assert.Equal(t, "INSTALL httpfs", stmts[0])
	assert.Equal(t, "LOAD httpfs", stmts[1])
	assert.Equal(t, "SET memory_limit = '1GB'", stmts[2])
	assert.Equal(t, "SET threads = '2'", stmts[3])
	assert.Equal(t,
		"CREATE OR REPLACE SECRET crease_secret_0 (TYPE s3, PROVIDER config, KEY_ID 'key', SECRET 'shh', ENDPOINT 'localhost:9000', USE_SSL false, SCOPE 's3://a', SCOPE 's3://b')",
		stmts[4])

	assert.Equal(t, "CREATE OR REPLACE SECRET crease_secret_0", redact(stmts[4]))
	assert.Equal(t, "LOAD httpfs", redact(stmts[1]))
}

func TestRegistered(t *testing.T) {
	assert.True(t, source.IsRegistered(Name))
}
