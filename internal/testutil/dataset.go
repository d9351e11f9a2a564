package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/crease/pkg/core"
)

// FixtureTeam is the team the fixture dataset is built around.
const FixtureTeam = "Mumbai Indians"

// MatchesCSV is a small match table: Mumbai Indians play three matches
// (twice as team1, once as team2) and win two of them. Match 4 has no result.
const MatchesCSV = `id,season,city,date,team1,team2,winner,venue
1,2008,Mumbai,2008-04-20,Mumbai Indians,Chennai Super Kings,Mumbai Indians,Wankhede Stadium
2,2008,Kolkata,2008-05-14,Mumbai Indians,Kolkata Knight Riders,Kolkata Knight Riders,Eden Gardens
3,2009,Durban,2009-04-18,Rajasthan Royals,Mumbai Indians,Mumbai Indians,Kingsmead
4,2009,Cape Town,2009-04-19,Chennai Super Kings,Rajasthan Royals,NA,Newlands
`

// DeliveriesCSV holds deliveries for every fixture match, including a run out
// by a Mumbai Indians bowler that must not be credited.
const DeliveriesCSV = `match_id,inning,batting_team,bowling_team,over,ball,batter,bowler,batsman_runs,extra_runs,total_runs,dismissal_kind
1,1,Mumbai Indians,Chennai Super Kings,0,1,A,X,4,0,4,NA
1,1,Mumbai Indians,Chennai Super Kings,0,2,A,X,6,0,6,NA
1,2,Chennai Super Kings,Mumbai Indians,0,1,C,Bumrah,0,0,0,caught
1,2,Chennai Super Kings,Mumbai Indians,0,2,D,Bumrah,1,0,1,run out
1,2,Chennai Super Kings,Mumbai Indians,0,3,E,Malinga,0,0,0,bowled
2,1,Mumbai Indians,Kolkata Knight Riders,0,1,B,Y,3,0,3,NA
3,1,Rajasthan Royals,Mumbai Indians,0,1,F,Malinga,0,0,0,lbw
4,1,Chennai Super Kings,Rajasthan Royals,0,1,G,Z,6,0,6,NA
`

// WriteDataset writes the fixture tables into a temporary directory and
// returns the directory.
func WriteDataset(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, filepath.Join(dir, "matches.csv"), MatchesCSV)
	WriteFile(t, filepath.Join(dir, "deliveries.csv"), DeliveriesCSV)
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Dataset returns the fixture tables in memory.
func Dataset() *core.Dataset {
	const mi, csk, kkr, rr = "Mumbai Indians", "Chennai Super Kings", "Kolkata Knight Riders", "Rajasthan Royals"
	return &core.Dataset{
		Matches: core.Matches{
			{ID: 1, Season: "2008", City: "Mumbai", Date: "2008-04-20", Team1: mi, Team2: csk, Winner: mi, Venue: "Wankhede Stadium"},
			{ID: 2, Season: "2008", City: "Kolkata", Date: "2008-05-14", Team1: mi, Team2: kkr, Winner: kkr, Venue: "Eden Gardens"},
			{ID: 3, Season: "2009", City: "Durban", Date: "2009-04-18", Team1: rr, Team2: mi, Winner: mi, Venue: "Kingsmead"},
			{ID: 4, Season: "2009", City: "Cape Town", Date: "2009-04-19", Team1: csk, Team2: rr, Venue: "Newlands"},
		},
		Deliveries: core.Deliveries{
			{MatchID: 1, Inning: 1, Ball: 1, BattingTeam: mi, BowlingTeam: csk, Batter: "A", Bowler: "X", BatterRuns: 4, TotalRuns: 4},
			{MatchID: 1, Inning: 1, Ball: 2, BattingTeam: mi, BowlingTeam: csk, Batter: "A", Bowler: "X", BatterRuns: 6, TotalRuns: 6},
			{MatchID: 1, Inning: 2, Ball: 1, BattingTeam: csk, BowlingTeam: mi, Batter: "C", Bowler: "Bumrah", DismissalKind: "caught"},
			{MatchID: 1, Inning: 2, Ball: 2, BattingTeam: csk, BowlingTeam: mi, Batter: "D", Bowler: "Bumrah", BatterRuns: 1, TotalRuns: 1, DismissalKind: "run out"},
			{MatchID: 1, Inning: 2, Ball: 3, BattingTeam: csk, BowlingTeam: mi, Batter: "E", Bowler: "Malinga", DismissalKind: "bowled"},
			{MatchID: 2, Inning: 1, Ball: 1, BattingTeam: mi, BowlingTeam: kkr, Batter: "B", Bowler: "Y", BatterRuns: 3, TotalRuns: 3},
			{MatchID: 3, Inning: 1, Ball: 1, BattingTeam: rr, BowlingTeam: mi, Batter: "F", Bowler: "Malinga", DismissalKind: "lbw"},
			{MatchID: 4, Inning: 1, Ball: 1, BattingTeam: csk, BowlingTeam: rr, Batter: "G", Bowler: "Z", BatterRuns: 6, TotalRuns: 6},
		},
		Source:   "fixture",
		LoadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
