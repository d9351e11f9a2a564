package output

import (
	"fmt"

	"github.com/leapstack-labs/crease/internal/stats"
	"github.com/leapstack-labs/crease/pkg/core"
)

// NoDataMessage is printed for sections without data.
const NoDataMessage = "No data for this selection."

// chartSection is one bar-chart section of a report.
type chartSection struct {
	title  string
	key    string
	value  string
	series core.Series
}

func reportSections(rep *stats.Report) []chartSection {
	return []chartSection{
		{"Matches per Season", "Season", "Matches", rep.SeasonParticipation},
		{"Wins per Season", "Season", "Wins", stats.ZeroFill(rep.SeasonWins, rep.SeasonParticipation.Keys())},
		{"Top Run Scorers", "Batter", "Runs", rep.TopRunScorers},
		{"Top Wicket Takers", "Bowler", "Wickets", rep.TopWicketTakers},
		{"Wins by Venue", "Venue", "Wins", rep.VenueWins},
	}
}

// SelectionLabel describes a team and season selection.
func SelectionLabel(team, season string) string {
	if season == "" || season == "all" {
		return team + ", all seasons"
	}
	return fmt.Sprintf("%s, season %s", team, season)
}

// Report prints every section of rep in the effective mode.
func (r *Renderer) Report(rep *stats.Report) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(rep)
	}

	r.Header(1, "Team Performance: "+SelectionLabel(rep.Team, rep.Season))
	if rep.Empty() {
		r.Muted(NoDataMessage)
		return nil
	}

	r.Println(FormatKeyValue(mode, r.styles, "Matches", r.Number(rep.Record.Total)))
	r.Println(FormatKeyValue(mode, r.styles, "Wins", r.Number(rep.Record.Wins)))
	r.Println(FormatKeyValue(mode, r.styles, "Win rate", r.Decimal(rep.Record.WinPct)+"%"))
	r.Println("")

	for _, s := range reportSections(rep) {
		r.Chart(s.title, s.key, s.value, s.series)
	}
	return nil
}

// Chart prints one series as a table with a bar column in text mode.
func (r *Renderer) Chart(title, keyLabel, valueLabel string, series core.Series) {
	r.Header(2, title)
	if series.Len() == 0 {
		r.Muted(NoDataMessage)
		r.Println("")
		return
	}

	text := r.EffectiveMode() == ModeText
	headers := []string{keyLabel, valueLabel}
	if text {
		headers = append(headers, "")
	}
	maxV := series.Max()
	rows := make([][]any, 0, series.Len())
	for _, e := range series {
		row := []any{e.Key, r.Number(e.Value)}
		if text {
			row = append(row, r.styles.Bar.Render(Bar(e.Value, maxV, DefaultBarWidth)))
		}
		rows = append(rows, row)
	}
	r.Table(headers, rows, 2)
	r.Println("")
}
