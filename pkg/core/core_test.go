package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelivery_CreditsBowler(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{"", false},
		{"bowled", true},
		{"caught", true},
		{"lbw", true},
		{"run out", false},
		{"stumped", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			d := Delivery{DismissalKind: tt.kind}
			assert.Equal(t, tt.want, d.CreditsBowler())
		})
	}
}

func TestMatch_Involves(t *testing.T) {
	m := Match{Team1: "Mumbai Indians", Team2: "Chennai Super Kings", Winner: "Mumbai Indians"}

	assert.True(t, m.Involves("Mumbai Indians"))
	assert.True(t, m.Involves("Chennai Super Kings"))
	assert.False(t, m.Involves("Rajasthan Royals"))
	assert.True(t, m.WonBy("Mumbai Indians"))
	assert.False(t, m.WonBy("Chennai Super Kings"))

	noResult := Match{Team1: "A", Team2: "B"}
	assert.False(t, noResult.HasResult())
	assert.False(t, noResult.WonBy(""))
}

func TestClean(t *testing.T) {
	for _, in := range []string{"", "NA", "NaN", "null", "None", " n/a "} {
		assert.True(t, IsNull(in), in)
		assert.Empty(t, Clean(in), in)
	}
	assert.Equal(t, "Wankhede Stadium", Clean("  Wankhede Stadium "))
}

func TestSeries(t *testing.T) {
	s := Series{{Key: "a", Value: 3}, {Key: "b", Value: 7}, {Key: "c", Value: 1}}

	assert.Equal(t, []string{"a", "b", "c"}, s.Keys())
	assert.Equal(t, []int{3, 7, 1}, s.Values())
	assert.Equal(t, 7, s.Max())
	assert.Equal(t, 11, s.Total())

	v, ok := s.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	_, ok = s.Get("z")
	assert.False(t, ok)

	assert.Equal(t, 0, Series{}.Max())
}

func TestErrors(t *testing.T) {
	cause := errors.New("open data/matches.csv: no such file or directory")
	err := fmt.Errorf("load: %w", &DataUnavailableError{Source: "csv", Table: TableMatches, Path: "data/matches.csv", Err: cause})

	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrEmptySelection)
	assert.Contains(t, err.Error(), "matches (data/matches.csv)")

	missing := MissingColumnError("csv", TableDeliveries, "d.csv", "bowler")
	assert.Contains(t, missing.Error(), `missing required column "bowler"`)

	empty := &EmptySelectionError{Team: "Mumbai Indians", Season: "2009"}
	assert.ErrorIs(t, empty, ErrEmptySelection)
	assert.Equal(t, "no matches for Mumbai Indians in season 2009", empty.Error())
}
