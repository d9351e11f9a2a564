package filter

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/leapstack-labs/crease/pkg/core"
)

// View is a read-only team (and optional season) subset of a dataset.
type View struct {
	team       string
	season     string
	matches    core.Matches
	deliveries core.Deliveries
}

// NewView filters ds to team and season. Use AllSeasons for every season.
func NewView(ds *core.Dataset, team, season string) *View {
	if IsAllSeasons(season) {
		season = AllSeasons
	}
	matches := Matches(ds.Matches, team)
	deliveries := Deliveries(ds.Deliveries, matches)
	matches, deliveries = BySeason(matches, deliveries, season)
	return &View{
		team:       team,
		season:     season,
		matches:    matches,
		deliveries: deliveries,
	}
}

// Team returns the team the view was filtered to.
func (v *View) Team() string { return v.team }

// Season returns the season filter, AllSeasons when not narrowed.
func (v *View) Season() string { return v.season }

// Matches returns the filtered matches.
func (v *View) Matches() core.Matches { return v.matches }

// Deliveries returns the deliveries of the filtered matches.
func (v *View) Deliveries() core.Deliveries { return v.deliveries }

// Empty reports whether the view selected no matches.
func (v *View) Empty() bool { return len(v.matches) == 0 }

// Check returns an *core.EmptySelectionError when the view is empty.
func (v *View) Check() error {
	if !v.Empty() {
		return nil
	}
	season := v.season
	if season == AllSeasons {
		season = ""
	}
	return &core.EmptySelectionError{Team: v.team, Season: season}
}

// Teams returns every team name appearing in matches, sorted.
func Teams(matches core.Matches) []string {
	seen := make(map[string]struct{})
	for _, m := range matches {
		for _, t := range []string{m.Team1, m.Team2} {
			if t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	teams := make([]string, 0, len(seen))
	for t := range seen {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}

// Seasons returns the distinct season labels in matches, in ascending order.
func Seasons(matches core.Matches) []string {
	seen := make(map[string]struct{})
	for _, m := range matches {
		if m.Season != "" {
			seen[m.Season] = struct{}{}
		}
	}
	seasons := make([]string, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Slice(seasons, func(i, j int) bool {
		return CompareSeasons(seasons[i], seasons[j]) < 0
	})
	return seasons
}

// CompareSeasons orders season labels by their leading year, then by the
// full label. "2007/08" sorts before "2009" and "2009" before "2010".
func CompareSeasons(a, b string) int {
	ya, oka := leadingYear(a)
	yb, okb := leadingYear(b)
	switch {
	case oka && okb && ya != yb:
		if ya < yb {
			return -1
		}
		return 1
	case oka != okb:
		// Labels with a year sort before labels without one.
		if oka {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func leadingYear(s string) (int, bool) {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
