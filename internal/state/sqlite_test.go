package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/crease/internal/testutil"
	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenStore(":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err, "failed to open store")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "second close is a no-op")
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.CreateLoadRun("csv")
	require.Error(t, err)
	_, err = store.GetSourceFile("x")
	require.Error(t, err)
	require.Error(t, store.Migrate())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	for _, table := range []string{"load_runs", "source_files"} {
		rows, err := store.db.Query("SELECT 1 FROM " + table + " LIMIT 1")
		require.NoError(t, err, "table %s should exist", table)
		_ = rows.Close()
	}

	require.NoError(t, store.Migrate(), "migrating twice is a no-op")
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := OpenStore(path, nil)
	require.NoError(t, err)
	run, err := store.CreateLoadRun("csv")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenStore(path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetLoadRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "csv", got.Source)
	assert.Equal(t, path, reopened.Path())
}

func TestSQLiteStore_LoadRunLifecycle(t *testing.T) {
	tests := []struct {
		name   string
		finish func(t *testing.T, store *SQLiteStore, run *core.LoadRun)
		verify func(t *testing.T, run *core.LoadRun)
	}{
		{
			name: "running",
			verify: func(t *testing.T, run *core.LoadRun) {
				assert.Equal(t, core.LoadRunStatusRunning, run.Status)
				assert.Nil(t, run.CompletedAt)
				assert.Zero(t, run.Duration())
			},
		},
		{
			name: "completed",
			finish: func(t *testing.T, store *SQLiteStore, run *core.LoadRun) {
				require.NoError(t, store.CompleteLoadRun(run.ID, core.LoadRunStatusCompleted, 4, 8, ""))
			},
			verify: func(t *testing.T, run *core.LoadRun) {
				assert.Equal(t, core.LoadRunStatusCompleted, run.Status)
				require.NotNil(t, run.CompletedAt)
				assert.False(t, run.CompletedAt.Before(run.StartedAt))
				assert.Equal(t, 4, run.Matches)
				assert.Equal(t, 8, run.Deliveries)
				assert.Empty(t, run.Error)
			},
		},
		{
			name: "failed",
			finish: func(t *testing.T, store *SQLiteStore, run *core.LoadRun) {
				require.NoError(t, store.CompleteLoadRun(run.ID, core.LoadRunStatusFailed, 0, 0, "file not found"))
			},
			verify: func(t *testing.T, run *core.LoadRun) {
				assert.Equal(t, core.LoadRunStatusFailed, run.Status)
				assert.Equal(t, "file not found", run.Error)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run, err := store.CreateLoadRun("csv")
			require.NoError(t, err)
			assert.NotEmpty(t, run.ID)

			if tt.finish != nil {
				tt.finish(t, store, run)
			}

			got, err := store.GetLoadRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, run.ID, got.ID)
			assert.Equal(t, "csv", got.Source)
			assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Millisecond)
			tt.verify(t, got)
		})
	}
}

func TestSQLiteStore_CompleteUnknownRun(t *testing.T) {
	store := setupTestStore(t)
	err := store.CompleteLoadRun("missing", core.LoadRunStatusCompleted, 0, 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load run not found")

	_, err = store.GetLoadRun("missing")
	require.Error(t, err)
}

func TestSQLiteStore_LatestAndList(t *testing.T) {
	store := setupTestStore(t)

	latest, err := store.GetLatestLoadRun("csv")
	require.NoError(t, err)
	assert.Nil(t, latest, "no runs yet")

	var ids []string
	for _, src := range []string{"csv", "duckdb", "csv"} {
		run, err := store.CreateLoadRun(src)
		require.NoError(t, err)
		ids = append(ids, run.ID)
		time.Sleep(2 * time.Millisecond)
	}

	latest, err = store.GetLatestLoadRun("csv")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, ids[2], latest.ID)

	runs, err := store.ListLoadRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	all, err := store.ListLoadRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStore_SourceFiles(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetSourceFile("/data/matches.csv")
	require.NoError(t, err)
	assert.Nil(t, got)

	run, err := store.CreateLoadRun("csv")
	require.NoError(t, err)

	seen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SetSourceFile(&core.SourceFile{
		Path:        "/data/matches.csv",
		Table:       core.TableMatches,
		ContentHash: "abc",
		SizeBytes:   120,
		RunID:       run.ID,
		SeenAt:      seen,
	}))

	got, err = store.GetSourceFile("/data/matches.csv")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.ContentHash)
	assert.Equal(t, int64(120), got.SizeBytes)
	assert.Equal(t, run.ID, got.RunID)
	assert.True(t, seen.Equal(got.SeenAt))

	require.NoError(t, store.SetSourceFile(&core.SourceFile{
		Path:        "/data/matches.csv",
		Table:       core.TableMatches,
		ContentHash: "def",
		SeenAt:      seen.Add(time.Hour),
	}))

	got, err = store.GetSourceFile("/data/matches.csv")
	require.NoError(t, err)
	assert.Equal(t, "def", got.ContentHash)
	assert.Empty(t, got.RunID)
}
