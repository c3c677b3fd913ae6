package aggregator

import (
	"sort"

	"github.com/pable/go-cricket-metrics/internal/classifier"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// Accumulator maps (season, player) to running counters. The zero value is not
// usable; construct with New. An Accumulator is owned by one goroutine.
type Accumulator struct {
	stats map[model.Key]*model.PlayerSeasonStats
}

// New returns an empty Accumulator.
func New() *Accumulator {
	return &Accumulator{stats: make(map[model.Key]*model.PlayerSeasonStats)}
}

// Get returns the record for (season, name), creating a zero record first if
// none exists.
func (a *Accumulator) Get(season, name string) *model.PlayerSeasonStats {
	k := model.Key{Season: season, Name: name}
	s, ok := a.stats[k]
	if !ok {
		s = &model.PlayerSeasonStats{}
		a.stats[k] = s
	}
	return s
}

// Lookup returns the record for (season, name) without creating one.
func (a *Accumulator) Lookup(season, name string) (model.PlayerSeasonStats, bool) {
	s, ok := a.stats[model.Key{Season: season, Name: name}]
	if !ok {
		return model.PlayerSeasonStats{}, false
	}
	return *s, true
}

// Len returns the number of distinct keys.
func (a *Accumulator) Len() int { return len(a.stats) }

// Keys returns all keys ordered by season, then name.
func (a *Accumulator) Keys() []model.Key {
	keys := make([]model.Key, 0, len(a.stats))
	for k := range a.stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Season != keys[j].Season {
			return keys[i].Season < keys[j].Season
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// ApplyDelivery folds one classified delivery into the accumulator and records
// everyone it touched in participants.
func (a *Accumulator) ApplyDelivery(season string, out classifier.Outcome, participants *Participants) {
	participants.Add(out.Batter)
	participants.Add(out.Bowler)

	bat := a.Get(season, out.Batter)
	bowl := a.Get(season, out.Bowler)

	bat.RunsScored += out.Batting.Runs
	if out.Batting.Four {
		bat.Fours++
	}
	if out.Batting.Six {
		bat.Sixes++
	}
	if out.Batting.BallFaced {
		bat.BallsFaced++
	}

	bowl.RunsConceded += out.Bowling.RunsConceded
	if out.Bowling.BallBowled {
		bowl.BallsBowled++
	}

	for _, d := range out.Dismissals {
		if d.BowlerWicket {
			bowl.Wickets++
		}
		if d.BowlerCatch {
			bowl.Catches++
		}
		for _, f := range d.Fielders {
			participants.Add(f)
			a.Get(season, f)
		}
		for _, f := range d.Catches {
			a.Get(season, f).Catches++
		}
		for _, f := range d.Stumpings {
			a.Get(season, f).Stumpings++
		}
	}
}

// ApplyMatch folds every delivery of rec, in recorded order, then credits each
// participant with one match. It returns the number of deliveries applied.
func (a *Accumulator) ApplyMatch(rec *model.MatchRecord) int {
	season := rec.SeasonToken
	participants := NewParticipants()
	n := 0
	for _, inn := range rec.Innings {
		for _, ov := range inn.Overs {
			for _, d := range ov.Deliveries {
				a.ApplyDelivery(season, classifier.Classify(d), participants)
				n++
			}
		}
	}
	participants.Commit(a, season)
	return n
}

// Merge adds every counter of other into a. other must not be modified
// afterwards.
func (a *Accumulator) Merge(other *Accumulator) {
	for k, s := range other.stats {
		a.Get(k.Season, k.Name).Add(*s)
	}
}
