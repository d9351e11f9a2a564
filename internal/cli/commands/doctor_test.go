package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitestutil "github.com/leapstack-labs/crease/internal/cli/testutil"
	"github.com/leapstack-labs/crease/internal/testutil"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		want   int
	}{
		{"no checks returns 100", nil, 100},
		{"all passing returns 100", []HealthCheck{{Status: StatusPass}, {Status: StatusPass}}, 100},
		{"warnings reduce score", []HealthCheck{{Status: StatusPass}, {Status: StatusWarn}}, 90},
		{"errors reduce score more", []HealthCheck{{Status: StatusError}}, 75},
		{"clamped at zero", []HealthCheck{
			{Status: StatusError}, {Status: StatusError}, {Status: StatusError},
			{Status: StatusError}, {Status: StatusError},
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHealthScore(tt.checks))
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{ID: "CF01", Status: StatusWarn},
		{ID: "SR01", Status: StatusPass},
		{ID: "DT02", Status: StatusWarn},
		{ID: "XX99", Status: StatusError},
	}
	recs := generateRecommendations(checks)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "crease.yaml")
	assert.Contains(t, recs[1], "--team")
}

func decodeDoctor(t *testing.T, out string) (DoctorOutput, map[string]HealthCheck) {
	t.Helper()
	var got DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	byID := make(map[string]HealthCheck, len(got.HealthChecks))
	for _, c := range got.HealthChecks {
		byID[c.ID] = c
	}
	return got, byID
}

func TestDoctor_Healthy(t *testing.T) {
	path := clitestutil.SetupTestProject(t)

	out, err := runCommand(t, path, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)

	got, checks := decodeDoctor(t, out)
	assert.Equal(t, 4, got.Summary.Matches)
	assert.Equal(t, 8, got.Summary.Deliveries)
	assert.Equal(t, 4, got.Summary.Teams)
	assert.Equal(t, "2008", got.Summary.FirstSeason)
	assert.Equal(t, "2009", got.Summary.LastSeason)
	assert.Equal(t, "csv", got.Summary.SourceType)

	for _, id := range []string{"CF01", "CF02", "SR01", "SR02", "SR03", "DT01", "DT02", "DT03", "CT01"} {
		require.Contains(t, checks, id)
		assert.Equal(t, StatusPass, checks[id].Status, "check %s: %v", id, checks[id].Details)
	}
	assert.Equal(t, 100, got.Score)
	assert.Empty(t, got.Recommendations)
}

func TestDoctor_DetectsChangedFiles(t *testing.T) {
	path := clitestutil.SetupTestProject(t)

	// The first run records the file hashes.
	_, err := runCommand(t, path, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)

	cfg := getConfig()
	testutil.WriteFile(t, filepath.Join(cfg.DataDir, "matches.csv"), testutil.MatchesCSV+
		"5,2010,Mumbai,2010-03-01,Mumbai Indians,Deccan Chargers,Mumbai Indians,Brabourne Stadium\n")

	out, err := runCommand(t, path, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)

	got, checks := decodeDoctor(t, out)
	assert.Equal(t, StatusWarn, checks["SR03"].Status)
	assert.Equal(t, 5, got.Summary.Matches)
	assert.Less(t, got.Score, 100)
}

func TestDoctor_MissingColumn(t *testing.T) {
	path := clitestutil.SetupTestProject(t)

	out, err := runCommand(t, path, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)
	_, checks := decodeDoctor(t, out)
	require.Equal(t, StatusPass, checks["DT01"].Status)

	dataDir := getConfig().DataDir
	testutil.WriteFile(t, filepath.Join(dataDir, "deliveries.csv"), "match_id,inning,batter\n1,1,A\n")

	out, err = runCommand(t, path, NewDoctorCommand(), "--format", "json")
	require.NoError(t, err)
	got, checks := decodeDoctor(t, out)
	assert.Equal(t, StatusError, checks["DT01"].Status)
	assert.NotEmpty(t, checks["DT01"].Details)
	assert.NotContains(t, checks, "DT02", "selection checks need a dataset")
	assert.NotEmpty(t, got.Recommendations)
}

func TestDoctor_Markdown(t *testing.T) {
	path := clitestutil.SetupTestProjectWithConfig(t, "team: Nowhere XI\n")

	out, err := runCommand(t, path, NewDoctorCommand(), "--format", "markdown")
	require.NoError(t, err)
	clitestutil.AssertNoANSI(t, out)
	clitestutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "# crease Health Report")
	assert.Contains(t, out, "### Data")
	assert.Contains(t, out, "**[WARN]** DT02")
	assert.Contains(t, out, "## Recommendations")
}
