package filter

import (
	"testing"

	"github.com/leapstack-labs/crease/internal/testutil"
	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchIDs(ms core.Matches) []int64 {
	ids := make([]int64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestMatches(t *testing.T) {
	ds := testutil.Dataset()

	tests := []struct {
		team string
		want []int64
	}{
		{"Mumbai Indians", []int64{1, 2, 3}},
		{"Chennai Super Kings", []int64{1, 4}},
		{"Rajasthan Royals", []int64{3, 4}},
		{"Deccan Chargers", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.team, func(t *testing.T) {
			got := Matches(ds.Matches, tt.team)
			assert.Equal(t, tt.want, matchIDs(got))
			for _, m := range got {
				assert.True(t, m.Team1 == tt.team || m.Team2 == tt.team, "match %d does not involve %s", m.ID, tt.team)
			}
		})
	}
}

func TestDeliveries(t *testing.T) {
	ds := testutil.Dataset()
	matches := Matches(ds.Matches, testutil.FixtureTeam)

	got := Deliveries(ds.Deliveries, matches)
	assert.Len(t, got, 7)
	for _, d := range got {
		assert.NotEqual(t, int64(4), d.MatchID)
	}

	assert.Empty(t, Deliveries(ds.Deliveries, core.Matches{}))
}

func TestBySeason(t *testing.T) {
	ds := testutil.Dataset()
	matches := Matches(ds.Matches, testutil.FixtureTeam)
	deliveries := Deliveries(ds.Deliveries, matches)

	tests := []struct {
		season         string
		wantMatches    []int64
		wantDeliveries int
	}{
		{AllSeasons, []int64{1, 2, 3}, 7},
		{"", []int64{1, 2, 3}, 7},
		{"2008", []int64{1, 2}, 6},
		{"2009", []int64{3}, 1},
		{"1999", []int64{}, 0},
	}

	for _, tt := range tests {
		t.Run("season "+tt.season, func(t *testing.T) {
			gotM, gotD := BySeason(matches, deliveries, tt.season)
			assert.Equal(t, tt.wantMatches, matchIDs(gotM))
			assert.Len(t, gotD, tt.wantDeliveries)
		})
	}
}

// Every delivery in a view belongs to a match in the same view, for every
// team and every season value including AllSeasons and unknown seasons.
func TestView_ReferentialConsistency(t *testing.T) {
	ds := testutil.Dataset()
	seasons := append(Seasons(ds.Matches), AllSeasons, "1999")

	for _, team := range append(Teams(ds.Matches), "Nobody") {
		for _, season := range seasons {
			v := NewView(ds, team, season)
			ids := v.Matches().IDs()
			for _, d := range v.Deliveries() {
				_, ok := ids[d.MatchID]
				require.True(t, ok, "team=%s season=%s: delivery for match %d outside view", team, season, d.MatchID)
			}
			for _, m := range v.Matches() {
				require.True(t, m.Involves(team))
				if season != AllSeasons {
					require.Equal(t, season, m.Season)
				}
			}
		}
	}
}

func TestView_Check(t *testing.T) {
	ds := testutil.Dataset()

	v := NewView(ds, testutil.FixtureTeam, "")
	assert.Equal(t, AllSeasons, v.Season())
	assert.Equal(t, testutil.FixtureTeam, v.Team())
	assert.False(t, v.Empty())
	assert.NoError(t, v.Check())

	empty := NewView(ds, testutil.FixtureTeam, "1999")
	assert.True(t, empty.Empty())
	err := empty.Check()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptySelection)
	assert.Equal(t, "no matches for Mumbai Indians in season 1999", err.Error())

	nobody := NewView(ds, "Nobody", AllSeasons)
	assert.Equal(t, "no matches for Nobody", nobody.Check().Error())
}

func TestTeams(t *testing.T) {
	assert.Equal(t,
		[]string{"Chennai Super Kings", "Kolkata Knight Riders", "Mumbai Indians", "Rajasthan Royals"},
		Teams(testutil.Dataset().Matches))
}

func TestSeasons(t *testing.T) {
	matches := core.Matches{
		{ID: 1, Season: "2010"},
		{ID: 2, Season: "2009"},
		{ID: 3, Season: "2007/08"},
		{ID: 4, Season: "2020/21"},
		{ID: 5, Season: "2010"},
		{ID: 6, Season: "Exhibition"},
		{ID: 7, Season: ""},
	}
	assert.Equal(t, []string{"2007/08", "2009", "2010", "2020/21", "Exhibition"}, Seasons(matches))
}

func TestCompareSeasons(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2008", "2009", -1},
		{"2010", "2009", 1},
		{"2009", "2009", 0},
		{"2007/08", "2008", -1},
		{"2020", "2020/21", -1},
		{"2008", "Exhibition", -1},
		{"Alpha", "Beta", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareSeasons(tt.a, tt.b))
		})
	}
}
