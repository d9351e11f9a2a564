package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/crease/internal/testutil"
	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSource(t *testing.T, cfg core.SourceConfig) (*Source, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	src, err := NewWithDB(db, cfg, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return src, mock
}

func TestSource_Load(t *testing.T) {
	src, mock := newMockSource(t, core.SourceConfig{Database: "cricket", Schema: "ipl"})

	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT * FROM "ipl"."matches"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "season", "team1", "team2", "winner", "venue"}).
			AddRow(int64(1), "2008", "Mumbai Indians", "Chennai Super Kings", "Mumbai Indians", "Wankhede Stadium").
			AddRow(int64(2), "2009", "Chennai Super Kings", "Mumbai Indians", nil, "Eden Gardens"),
	)
	mock.ExpectQuery(`SELECT * FROM "ipl"."deliveries"`).WillReturnRows(
		sqlmock.NewRows([]string{"match_id", "batting_team", "bowling_team", "batter", "bowler", "batsman_runs", "dismissal_kind"}).
			AddRow(int64(1), "Mumbai Indians", "Chennai Super Kings", "A", "X", int64(4), nil).
			AddRow(int64(1), "Chennai Super Kings", "Mumbai Indians", "C", "Bumrah", int64(0), "caught"),
	)

	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Matches, 2)
	require.Len(t, ds.Deliveries, 2)
	assert.False(t, ds.Matches[1].HasResult())
	assert.Equal(t, 4, ds.Deliveries[0].BatterRuns)
	assert.True(t, ds.Deliveries[1].CreditsBowler())
	assert.Equal(t, Name, ds.Source)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Load_QueryError(t *testing.T) {
	src, mock := newMockSource(t, core.SourceConfig{Database: "cricket"})

	mock.ExpectQuery(`SELECT * FROM "public"."matches"`).
		WillReturnError(errors.New(`relation "public.matches" does not exist`))

	_, err := src.LoadMatches(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)

	var dataErr *core.DataUnavailableError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "public.matches", dataErr.Path)
}

func TestSource_Load_MissingColumn(t *testing.T) {
	src, mock := newMockSource(t, core.SourceConfig{Database: "cricket", DeliveriesTable: "balls"})

	mock.ExpectQuery(`SELECT * FROM "public"."balls"`).WillReturnRows(
		sqlmock.NewRows([]string{"match_id", "batting_team"}),
	)

	_, err := src.LoadDeliveries(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDataUnavailable)
	assert.Contains(t, err.Error(), `missing required column "bowling_team"`)
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name    string
		cfg     core.SourceConfig
		wantErr string
	}{
		{name: "defaults", cfg: core.SourceConfig{Database: "cricket"}},
		{name: "no database", cfg: core.SourceConfig{}, wantErr: "requires a database name"},
		{name: "bad identifier", cfg: core.SourceConfig{Database: "cricket", MatchesTable: "matches; DROP TABLE x"}, wantErr: "invalid postgres identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := New(nil)
			err := src.Configure(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultSchema, src.Cfg.Schema)
			assert.Equal(t, DefaultMatchesTable, src.Cfg.MatchesTable)
			assert.Equal(t, DefaultDeliveriesTable, src.Cfg.DeliveriesTable)
		})
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  core.SourceConfig
		want string
	}{
		{
			name: "defaults",
			cfg:  core.SourceConfig{Database: "cricket"},
			want: "host=localhost port=5432 dbname=cricket sslmode=disable",
		},
		{
			name: "credentials and options",
			cfg: core.SourceConfig{
				Host:     "db.internal",
				Port:     6543,
				Database: "cricket",
				Username: "analyst",
				Password: "secret",
				Options:  map[string]string{"sslmode": "require", "application_name": "crease"},
			},
			want: "host=db.internal port=6543 dbname=cricket sslmode=require user=analyst password=secret application_name=crease",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPostgresDSN(tt.cfg))
		})
	}
}

func TestRegistered(t *testing.T) {
	assert.True(t, source.IsRegistered(Name))
}
