// Package core defines the domain types shared by crease's sources, loader,
// filters, aggregations and presentation layers.
//
// Everything in this package is plain data: records are loaded once and then
// treated as read-only by every consumer.
package core

import (
	"strings"
	"time"
)

// DismissalRunOut is the dismissal kind that is never credited to a bowler.
const DismissalRunOut = "run out"

// Match is one row of the match table.
type Match struct {
	ID     int64
	Season string
	City   string
	Date   string
	Venue  string
	Team1  string
	Team2  string
	// Winner is empty when the match had no result.
	Winner string
}

// Involves reports whether team played in the match, as either side.
func (m Match) Involves(team string) bool {
	return m.Team1 == team || m.Team2 == team
}

// HasResult reports whether the match produced a winner.
func (m Match) HasResult() bool {
	return m.Winner != ""
}

// WonBy reports whether team won the match.
func (m Match) WonBy(team string) bool {
	return m.Winner != "" && m.Winner == team
}

// Delivery is one ball bowled.
type Delivery struct {
	MatchID     int64
	Inning      int
	Over        int
	Ball        int
	BattingTeam string
	BowlingTeam string
	Batter      string
	Bowler      string
	BatterRuns  int
	ExtraRuns   int
	TotalRuns   int
	// DismissalKind is empty when no wicket fell on the ball.
	DismissalKind string
}

// IsWicket reports whether a dismissal happened on this delivery.
func (d Delivery) IsWicket() bool {
	return d.DismissalKind != ""
}

// CreditsBowler reports whether the dismissal counts towards the bowler's wickets.
func (d Delivery) CreditsBowler() bool {
	return d.IsWicket() && d.DismissalKind != DismissalRunOut
}

// Matches is an ordered match table.
type Matches []Match

// IDs returns the set of match identifiers in the table.
func (ms Matches) IDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(ms))
	for _, m := range ms {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// Deliveries is an ordered delivery table.
type Deliveries []Delivery

// Dataset holds both loaded tables. It is shared read-only after loading.
type Dataset struct {
	Matches    Matches
	Deliveries Deliveries

	// Source names the source the tables were read from.
	Source   string
	LoadedAt time.Time
}

// nullTokens are the cell values treated as absent.
var nullTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"nan":  {},
	"null": {},
	"none": {},
	"n/a":  {},
}

// IsNull reports whether a raw cell value represents a missing value.
func IsNull(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Clean trims a raw cell value and maps null tokens to the empty string.
func Clean(s string) string {
	if IsNull(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
