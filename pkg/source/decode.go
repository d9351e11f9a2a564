package source

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/crease/pkg/core"
)

// RowReader yields the header and then the rows of a table as strings.
// Next returns io.EOF after the last row.
type RowReader interface {
	Columns() ([]string, error)
	Next() ([]string, error)
}

// Origin identifies where a table was read from, for error reporting.
type Origin struct {
	Source string
	Path   string
}

// column describes one logical column and the header names accepted for it.
type column struct {
	name     string
	aliases  []string
	required bool
}

var matchColumns = []column{
	{name: "id", aliases: []string{"match_id"}, required: true},
	{name: "season", required: true},
	{name: "team1", required: true},
	{name: "team2", required: true},
	{name: "winner", required: true},
	{name: "venue", required: true},
	{name: "city"},
	{name: "date"},
}

var deliveryColumns = []column{
	{name: "match_id", aliases: []string{"id"}, required: true},
	{name: "batting_team", required: true},
	{name: "bowling_team", required: true},
	{name: "batter", aliases: []string{"batsman", "striker"}, required: true},
	{name: "bowler", required: true},
	{name: "batsman_runs", aliases: []string{"batter_runs", "runs_off_bat"}, required: true},
	{name: "dismissal_kind", aliases: []string{"wicket_kind"}, required: true},
	{name: "inning", aliases: []string{"innings"}},
	{name: "over"},
	{name: "ball"},
	{name: "extra_runs", aliases: []string{"extras"}},
	{name: "total_runs"},
}

// RequiredColumns returns the logical column names a table must provide.
func RequiredColumns(table string) []string {
	cols := matchColumns
	if table == core.TableDeliveries {
		cols = deliveryColumns
	}
	var names []string
	for _, c := range cols {
		if c.required {
			names = append(names, c.name)
		}
	}
	return names
}

// resolveColumns maps logical column names to header positions.
func resolveColumns(header []string, cols []column, origin Origin, table string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(cols))
	for _, c := range cols {
		idx, ok := positions[c.name]
		for _, alias := range c.aliases {
			if ok {
				break
			}
			idx, ok = positions[alias]
		}
		switch {
		case ok:
			index[c.name] = idx
		case c.required:
			return nil, core.MissingColumnError(origin.Source, table, origin.Path, c.name)
		}
	}
	return index, nil
}

// row gives typed access to a record through the resolved column index.
type row struct {
	values []string
	index  map[string]int
	line   int
}

func (r row) str(name string) string {
	idx, ok := r.index[name]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return core.Clean(r.values[idx])
}

// integer parses an integer column. Absent values decode to zero unless required.
func (r row) integer(name string, required bool) (int64, error) {
	s := r.str(name)
	if s == "" {
		if required {
			return 0, fmt.Errorf("row %d: %s is empty", r.line, name)
		}
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	// Numeric columns exported as floats ("12.0") are accepted when integral.
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("row %d: %s %q is not an integer", r.line, name, s)
	}
	return int64(f), nil
}

// DecodeMatches reads every row of a match table.
func DecodeMatches(rr RowReader, origin Origin) (core.Matches, error) {
	index, err := readHeader(rr, matchColumns, origin, core.TableMatches)
	if err != nil {
		return nil, err
	}

	var matches core.Matches
	seen := make(map[int64]struct{})
	err = eachRow(rr, index, origin, core.TableMatches, func(r row) error {
		id, err := r.integer("id", true)
		if err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("row %d: duplicate id %d", r.line, id)
		}
		seen[id] = struct{}{}

		matches = append(matches, core.Match{
			ID:     id,
			Season: r.str("season"),
			City:   r.str("city"),
			Date:   r.str("date"),
			Venue:  r.str("venue"),
			Team1:  r.str("team1"),
			Team2:  r.str("team2"),
			Winner: r.str("winner"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// DecodeDeliveries reads every row of a delivery table.
func DecodeDeliveries(rr RowReader, origin Origin) (core.Deliveries, error) {
	index, err := readHeader(rr, deliveryColumns, origin, core.TableDeliveries)
	if err != nil {
		return nil, err
	}

	var deliveries core.Deliveries
	err = eachRow(rr, index, origin, core.TableDeliveries, func(r row) error {
		matchID, err := r.integer("match_id", true)
		if err != nil {
			return err
		}
		runs, err := r.integer("batsman_runs", false)
		if err != nil {
			return err
		}
		if runs < 0 {
			return fmt.Errorf("row %d: batsman_runs %d is negative", r.line, runs)
		}
		d := core.Delivery{
			MatchID:       matchID,
			BattingTeam:   r.str("batting_team"),
			BowlingTeam:   r.str("bowling_team"),
			Batter:        r.str("batter"),
			Bowler:        r.str("bowler"),
			BatterRuns:    int(runs),
			DismissalKind: r.str("dismissal_kind"),
		}
		optional := []struct {
			name string
			dst  *int
		}{
			{"inning", &d.Inning},
			{"over", &d.Over},
			{"ball", &d.Ball},
			{"extra_runs", &d.ExtraRuns},
			{"total_runs", &d.TotalRuns},
		}
		for _, o := range optional {
			n, err := r.integer(o.name, false)
			if err != nil {
				return err
			}
			*o.dst = int(n)
		}
		deliveries = append(deliveries, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

func readHeader(rr RowReader, cols []column, origin Origin, table string) (map[string]int, error) {
	header, err := rr.Columns()
	if err != nil {
		return nil, &core.DataUnavailableError{
			Source: origin.Source,
			Table:  table,
			Path:   origin.Path,
			Reason: "cannot read header",
			Err:    err,
		}
	}
	return resolveColumns(header, cols, origin, table)
}

func eachRow(rr RowReader, index map[string]int, origin Origin, table string, fn func(row) error) error {
	// line counts the header as line 1.
	for line := 2; ; line++ {
		values, err := rr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err == nil {
			err = fn(row{values: values, index: index, line: line})
		}
		if err != nil {
			return &core.DataUnavailableError{
				Source: origin.Source,
				Table:  table,
				Path:   origin.Path,
				Reason: "malformed",
				Err:    err,
			}
		}
	}
}
