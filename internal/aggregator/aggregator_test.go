package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-cricket-metrics/internal/model"
)

// makeMatch wraps deliveries into a single-innings, single-over match.
func makeMatch(season string, deliveries ...model.Delivery) *model.MatchRecord {
	return &model.MatchRecord{
		Source:      "test.json",
		RawSeason:   season,
		HasSeason:   true,
		SeasonToken: season,
		Innings: []model.Innings{{
			Team:  "T1",
			Overs: []model.Over{{Number: 0, Deliveries: deliveries}},
		}},
	}
}

func ball(batter, bowler string, batterRuns, total int, ex model.Extras, wickets ...model.Wicket) model.Delivery {
	return model.Delivery{
		Batter:  batter,
		Bowler:  bowler,
		Runs:    model.Runs{Batter: batterRuns, Total: total, Extras: ex},
		Wickets: wickets,
	}
}

func mustLookup(t *testing.T, acc *Accumulator, season, name string) model.PlayerSeasonStats {
	t.Helper()
	s, ok := acc.Lookup(season, name)
	require.Truef(t, ok, "no record for (%s, %s)", season, name)
	return s
}

// ---- Scenarios ----

func TestSingleSix(t *testing.T) {
	acc := New()
	n := acc.ApplyMatch(makeMatch("2015", ball("A", "B", 6, 6, model.Extras{})))
	assert.Equal(t, 1, n)

	a := mustLookup(t, acc, "2015", "A")
	assert.Equal(t, 6, a.RunsScored)
	assert.Equal(t, 1, a.Sixes)
	assert.Equal(t, 1, a.BallsFaced)
	assert.Equal(t, 1, a.Matches)

	b := mustLookup(t, acc, "2015", "B")
	assert.Equal(t, 6, b.RunsConceded)
	assert.Equal(t, 1, b.BallsBowled)
	assert.Equal(t, 1, b.Matches)
	assert.Equal(t, 2, acc.Len())
}

func TestWideDelivery(t *testing.T) {
	acc := New()
	acc.ApplyMatch(makeMatch("2015", ball("A", "B", 0, 1, model.Extras{Wides: 1})))

	a := mustLookup(t, acc, "2015", "A")
	b := mustLookup(t, acc, "2015", "B")
	assert.Equal(t, 0, a.BallsFaced)
	assert.Equal(t, 0, b.BallsBowled)
	assert.Equal(t, 1, b.RunsConceded)
}

func TestCatchCreditsFielderWithMatch(t *testing.T) {
	acc := New()
	w := model.Wicket{Kind: model.DismissalCaught, PlayerOut: "A", Fielders: []string{"C"}}
	acc.ApplyMatch(makeMatch("2015", ball("A", "B", 0, 0, model.Extras{}, w)))

	c := mustLookup(t, acc, "2015", "C")
	assert.Equal(t, 1, c.Catches)
	assert.Equal(t, 1, c.Matches)
	assert.Equal(t, 0, c.BallsFaced)
	assert.Equal(t, 0, c.BallsBowled)
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "B").Wickets)
}

func TestCaughtAndBowled(t *testing.T) {
	acc := New()
	w := model.Wicket{Kind: model.DismissalCaughtAndBowled, PlayerOut: "A"}
	acc.ApplyMatch(makeMatch("2015", ball("A", "B", 0, 0, model.Extras{}, w)))

	b := mustLookup(t, acc, "2015", "B")
	assert.Equal(t, 1, b.Wickets)
	assert.Equal(t, 1, b.Catches)
}

func TestStumping(t *testing.T) {
	acc := New()
	w := model.Wicket{Kind: model.DismissalStumped, PlayerOut: "A", Fielders: []string{"K"}}
	acc.ApplyMatch(makeMatch("2015", ball("A", "B", 0, 0, model.Extras{}, w)))

	assert.Equal(t, 1, mustLookup(t, acc, "2015", "K").Stumpings)
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "B").Wickets)
}

func TestRunOutNeverCreditsBowler(t *testing.T) {
	acc := New()
	w := model.Wicket{Kind: model.DismissalRunOut, PlayerOut: "A", Fielders: []string{"F"}}
	acc.ApplyMatch(makeMatch("2015", ball("A", "B", 1, 1, model.Extras{}, w)))

	assert.Equal(t, 0, mustLookup(t, acc, "2015", "B").Wickets)
	f := mustLookup(t, acc, "2015", "F")
	assert.Equal(t, 0, f.Catches)
	assert.Equal(t, 1, f.Matches, "a listed run-out fielder took part in the match")
}

func TestByesNotChargedToBowler(t *testing.T) {
	acc := New()
	acc.ApplyMatch(makeMatch("2015", ball("A", "B", 0, 5, model.Extras{Byes: 4})))
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "B").RunsConceded)
}

// ---- Properties ----

func TestMatchesCountedOncePerMatch(t *testing.T) {
	var deliveries []model.Delivery
	for i := 0; i < 40; i++ {
		deliveries = append(deliveries, ball("A", "B", i%3, i%3, model.Extras{}))
	}
	acc := New()
	acc.ApplyMatch(makeMatch("2015", deliveries...))
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "A").Matches)
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "B").Matches)

	acc.ApplyMatch(makeMatch("2015", deliveries[:3]...))
	assert.Equal(t, 2, mustLookup(t, acc, "2015", "A").Matches)
}

func TestMatchesCountedOnceAcrossRoles(t *testing.T) {
	// A bats, bowls and takes a catch in the same match.
	rec := makeMatch("2015",
		ball("A", "B", 1, 1, model.Extras{}),
		ball("B", "A", 0, 0, model.Extras{},
			model.Wicket{Kind: model.DismissalCaught, PlayerOut: "B", Fielders: []string{"A"}}),
	)
	rec.Innings = append(rec.Innings, model.Innings{Team: "T2", Overs: []model.Over{{
		Deliveries: []model.Delivery{ball("C", "A", 2, 2, model.Extras{})},
	}}})
	acc := New()
	acc.ApplyMatch(rec)

	a := mustLookup(t, acc, "2015", "A")
	assert.Equal(t, 1, a.Matches)
	assert.Equal(t, 1, a.Catches)
	assert.Equal(t, 1, a.Wickets)
	assert.Equal(t, 2, a.BallsBowled)
}

func TestRunsScoredEqualsSumOfBatterRuns(t *testing.T) {
	runs := []int{0, 1, 4, 6, 2, 3, 0, 1, 6, 4, 4}
	var deliveries []model.Delivery
	want := 0
	for _, r := range runs {
		deliveries = append(deliveries, ball("A", "B", r, r, model.Extras{}))
		want += r
	}
	deliveries = append(deliveries, ball("A", "B", 1, 2, model.Extras{NoBalls: 1}))
	want++

	acc := New()
	acc.ApplyMatch(makeMatch("2015", deliveries...))
	a := mustLookup(t, acc, "2015", "A")
	assert.Equal(t, want, a.RunsScored)
	assert.Equal(t, 3, a.Fours)
	assert.Equal(t, 2, a.Sixes)
	assert.Equal(t, len(deliveries), a.BallsFaced)
	assert.Equal(t, len(deliveries)-1, mustLookup(t, acc, "2015", "B").BallsBowled)
}

func TestSeasonsAreSeparateKeys(t *testing.T) {
	acc := New()
	acc.ApplyMatch(makeMatch("2008", ball("A", "B", 4, 4, model.Extras{})))
	acc.ApplyMatch(makeMatch("2009", ball("A", "B", 1, 1, model.Extras{})))

	assert.Equal(t, 4, mustLookup(t, acc, "2008", "A").RunsScored)
	assert.Equal(t, 1, mustLookup(t, acc, "2009", "A").RunsScored)
	assert.Equal(t, 4, acc.Len())
}

func TestNamesAreNotAliased(t *testing.T) {
	acc := New()
	acc.ApplyMatch(makeMatch("2015", ball("MS Dhoni", "B", 1, 1, model.Extras{})))
	acc.ApplyMatch(makeMatch("2015", ball("MS Dhoni ", "B", 1, 1, model.Extras{})))
	acc.ApplyMatch(makeMatch("2015", ball("ms dhoni", "B", 1, 1, model.Extras{})))
	assert.Equal(t, 4, acc.Len())
}

func TestGetCreatesZeroRecord(t *testing.T) {
	acc := New()
	_, ok := acc.Lookup("2015", "Z")
	assert.False(t, ok)

	s := acc.Get("2015", "Z")
	assert.Equal(t, model.PlayerSeasonStats{}, *s)
	assert.Same(t, s, acc.Get("2015", "Z"))
}

func TestEmptyMatchCreatesNothing(t *testing.T) {
	acc := New()
	acc.ApplyMatch(&model.MatchRecord{SeasonToken: "2015"})
	assert.Equal(t, 0, acc.Len())
}

func TestMergeEqualsSequential(t *testing.T) {
	m1 := makeMatch("2015",
		ball("A", "B", 4, 4, model.Extras{}),
		ball("A", "B", 0, 0, model.Extras{}, model.Wicket{Kind: model.DismissalCaught, PlayerOut: "A", Fielders: []string{"C"}}),
	)
	m2 := makeMatch("2015", ball("C", "A", 6, 7, model.Extras{NoBalls: 1}))

	seq := New()
	seq.ApplyMatch(m1)
	seq.ApplyMatch(m2)

	s1, s2 := New(), New()
	s1.ApplyMatch(m1)
	s2.ApplyMatch(m2)
	merged := New()
	merged.Merge(s2)
	merged.Merge(s1)

	require.Equal(t, seq.Keys(), merged.Keys())
	for _, k := range seq.Keys() {
		want, _ := seq.Lookup(k.Season, k.Name)
		got, _ := merged.Lookup(k.Season, k.Name)
		assert.Equal(t, want, got, "key %v", k)
	}
}

func TestKeysOrdered(t *testing.T) {
	acc := New()
	acc.Get("2010", "b")
	acc.Get("2009", "z")
	acc.Get("2010", "a")
	assert.Equal(t, []model.Key{
		{Season: "2009", Name: "z"},
		{Season: "2010", Name: "a"},
		{Season: "2010", Name: "b"},
	}, acc.Keys())
}

func TestParticipants(t *testing.T) {
	p := NewParticipants()
	p.Add("A")
	p.Add("A")
	p.Add("B")
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Has("A"))
	assert.False(t, p.Has("C"))

	acc := New()
	p.Commit(acc, "2015")
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "A").Matches)
	assert.Equal(t, 1, mustLookup(t, acc, "2015", "B").Matches)
}
