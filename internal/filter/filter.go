// Package filter derives team and season views of the loaded tables.
//
// Deliveries are never filtered on their own: they are always re-derived
// from the match identifiers of the filtered matches, so every delivery in a
// view belongs to a match in the same view.
package filter

import (
	"github.com/leapstack-labs/crease/pkg/core"
)

// AllSeasons is the season value that disables season narrowing.
const AllSeasons = "all"

// Matches returns the matches in which team played as either side.
func Matches(matches core.Matches, team string) core.Matches {
	out := make(core.Matches, 0)
	for _, m := range matches {
		if m.Involves(team) {
			out = append(out, m)
		}
	}
	return out
}

// Deliveries returns the deliveries whose match is in matches.
func Deliveries(deliveries core.Deliveries, matches core.Matches) core.Deliveries {
	ids := matches.IDs()
	out := make(core.Deliveries, 0)
	for _, d := range deliveries {
		if _, ok := ids[d.MatchID]; ok {
			out = append(out, d)
		}
	}
	return out
}

// BySeason narrows matches to season and re-derives deliveries from the
// narrowed matches. AllSeasons (or an empty season) returns the inputs as is.
func BySeason(matches core.Matches, deliveries core.Deliveries, season string) (core.Matches, core.Deliveries) {
	if IsAllSeasons(season) {
		return matches, deliveries
	}

	narrowed := make(core.Matches, 0)
	for _, m := range matches {
		if m.Season == season {
			narrowed = append(narrowed, m)
		}
	}
	return narrowed, Deliveries(deliveries, narrowed)
}

// IsAllSeasons reports whether season disables season narrowing.
func IsAllSeasons(season string) bool {
	return season == "" || season == AllSeasons
}
