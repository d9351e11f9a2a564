package stats

import (
	"encoding/json"
	"math"

	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Report holds every dashboard section for one team and season.
type Report struct {
	Team                string      `json:"team"`
	Season              string      `json:"season"`
	Record              WinRecord   `json:"record"`
	SeasonParticipation core.Series `json:"season_participation"`
	SeasonWins          core.Series `json:"season_wins"`
	TopRunScorers       core.Series `json:"top_run_scorers"`
	TopWicketTakers     core.Series `json:"top_wicket_takers"`
	VenueWins           core.Series `json:"venue_wins"`
}

// Summarize computes every section for the view.
func Summarize(v *filter.View, limit int) Report {
	matches, deliveries := v.Matches(), v.Deliveries()
	return Report{
		Team:                v.Team(),
		Season:              v.Season(),
		Record:              TotalAndWins(matches, v.Team()),
		SeasonParticipation: SeasonParticipation(matches),
		SeasonWins:          SeasonWins(matches, v.Team()),
		TopRunScorers:       TopRunScorers(deliveries, v.Team(), limit),
		TopWicketTakers:     TopWicketTakers(deliveries, v.Team(), limit),
		VenueWins:           VenueWins(matches, v.Team()),
	}
}

// Empty reports whether the report covers no matches.
func (r Report) Empty() bool {
	return !r.Record.HasData()
}

// MarshalJSON renders a NaN win percentage as null.
func (r WinRecord) MarshalJSON() ([]byte, error) {
	var pct *float64
	if !math.IsNaN(r.WinPct) {
		pct = &r.WinPct
	}
	return json.Marshal(struct {
		Total  int      `json:"total"`
		Wins   int      `json:"wins"`
		WinPct *float64 `json:"win_pct"`
	}{r.Total, r.Wins, pct})
}
