// Package stats computes the dashboard aggregates from filtered tables.
//
// Every function is pure: it reads its inputs, never mutates them, and
// returns freshly allocated results. Rankings break ties by ascending key so
// results are reproducible.
package stats

import (
	"math"
	"sort"

	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/pkg/core"
)

// DefaultLimit is the number of players returned by the top-N rankings.
const DefaultLimit = 10

// WinRecord is a team's match count, win count and win percentage.
type WinRecord struct {
	Total int
	Wins  int
	// WinPct is wins/total*100 rounded to two decimals, or NaN when Total is zero.
	WinPct float64
}

// HasData reports whether the record covers at least one match.
func (r WinRecord) HasData() bool {
	return r.Total > 0 && !math.IsNaN(r.WinPct)
}

// Losses returns matches that were not won, including no-results.
func (r WinRecord) Losses() int {
	return r.Total - r.Wins
}

// TotalAndWins counts team's matches and wins. An empty table yields a NaN
// win percentage rather than a division error.
func TotalAndWins(matches core.Matches, team string) WinRecord {
	rec := WinRecord{Total: len(matches)}
	for _, m := range matches {
		if m.WonBy(team) {
			rec.Wins++
		}
	}
	if rec.Total == 0 {
		rec.WinPct = math.NaN()
		return rec
	}
	rec.WinPct = Round2(float64(rec.Wins) / float64(rec.Total) * 100)
	return rec
}

// SeasonParticipation counts matches per season, in ascending season order.
func SeasonParticipation(matches core.Matches) core.Series {
	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.Season]++
	}
	return bySeason(counts)
}

// SeasonWins counts team's wins per season, in ascending season order.
// Seasons without a win are omitted; see ZeroFill.
func SeasonWins(matches core.Matches, team string) core.Series {
	counts := make(map[string]int)
	for _, m := range matches {
		if m.WonBy(team) {
			counts[m.Season]++
		}
	}
	return bySeason(counts)
}

// TopRunScorers sums runs off the bat per batter while batting for team and
// returns the top limit batters by runs. A non-positive limit uses DefaultLimit.
func TopRunScorers(deliveries core.Deliveries, team string, limit int) core.Series {
	runs := make(map[string]int)
	for _, d := range deliveries {
		if d.BattingTeam == team && d.Batter != "" {
			runs[d.Batter] += d.BatterRuns
		}
	}
	return top(runs, limit)
}

// TopWicketTakers counts wickets credited to each bowler while bowling for
// team and returns the top limit bowlers. Run outs are not credited.
// A non-positive limit uses DefaultLimit.
func TopWicketTakers(deliveries core.Deliveries, team string, limit int) core.Series {
	wickets := make(map[string]int)
	for _, d := range deliveries {
		if d.BowlingTeam == team && d.Bowler != "" && d.CreditsBowler() {
			wickets[d.Bowler]++
		}
	}
	return top(wickets, limit)
}

// VenueWins counts team's wins per venue, most wins first.
func VenueWins(matches core.Matches, team string) core.Series {
	counts := make(map[string]int)
	for _, m := range matches {
		if m.WonBy(team) {
			counts[m.Venue]++
		}
	}
	return descending(counts)
}

// ZeroFill returns series with an entry for every key in keys, in the order
// of keys. Keys missing from series get zero. Entries not in keys are dropped.
func ZeroFill(series core.Series, keys []string) core.Series {
	out := make(core.Series, 0, len(keys))
	for _, k := range keys {
		v, _ := series.Get(k)
		out = append(out, core.Entry{Key: k, Value: v})
	}
	return out
}

// Round2 rounds x half away from zero to two decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func bySeason(counts map[string]int) core.Series {
	out := toSeries(counts)
	sort.Slice(out, func(i, j int) bool {
		return filter.CompareSeasons(out[i].Key, out[j].Key) < 0
	})
	return out
}

func descending(counts map[string]int) core.Series {
	out := toSeries(counts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func top(counts map[string]int, limit int) core.Series {
	if limit <= 0 {
		limit = DefaultLimit
	}
	out := descending(counts)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func toSeries(counts map[string]int) core.Series {
	out := make(core.Series, 0, len(counts))
	for k, v := range counts {
		out = append(out, core.Entry{Key: k, Value: v})
	}
	return out
}
