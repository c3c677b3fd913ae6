// Package export flattens an accumulator into season rows, joins profile
// columns onto them and writes the result as CSV or JSON lines.
package export

import (
	"github.com/pable/go-cricket-metrics/internal/aggregator"
	"github.com/pable/go-cricket-metrics/internal/model"
)

// StatColumns is the fixed column order of the numeric part of a row.
var StatColumns = []string{
	"matches", "innings_batted", "runs_scored", "balls_faced", "fours", "sixes",
	"not_outs", "high_score", "centuries", "fifties", "innings_bowled",
	"balls_bowled", "runs_conceded", "wickets", "catches", "stumpings",
}

// StatValues returns the counters of s in StatColumns order.
func StatValues(s model.PlayerSeasonStats) []int {
	return []int{
		s.Matches, s.InningsBatted, s.RunsScored, s.BallsFaced, s.Fours, s.Sixes,
		s.NotOuts, s.HighScore, s.Centuries, s.Fifties, s.InningsBowled,
		s.BallsBowled, s.RunsConceded, s.Wickets, s.Catches, s.Stumpings,
	}
}

// Flatten returns one row per key, ordered by season then name.
func Flatten(acc *aggregator.Accumulator) []model.SeasonRow {
	keys := acc.Keys()
	rows := make([]model.SeasonRow, 0, len(keys))
	for _, k := range keys {
		s, _ := acc.Lookup(k.Season, k.Name)
		rows = append(rows, model.SeasonRow{Season: k.Season, Name: k.Name, PlayerSeasonStats: s})
	}
	return rows
}

// Join left-joins profile fields onto rows by exact name. Rows without a
// matching profile keep a nil Profile. Numeric counters are never touched.
func Join(rows []model.SeasonRow, table *model.ProfileTable) []model.SeasonRow {
	if table == nil {
		return rows
	}
	for i := range rows {
		if p, ok := table.ByName[rows[i].Name]; ok {
			rows[i].Profile = p.Fields
		}
	}
	return rows
}

// ProfileColumns returns the output names of the profile columns. Names that
// clash with a built-in column get a "profile_" prefix.
func ProfileColumns(table *model.ProfileTable) (source, output []string) {
	if table == nil {
		return nil, nil
	}
	reserved := map[string]bool{"season": true, "name": true}
	for _, c := range StatColumns {
		reserved[c] = true
	}
	for _, c := range table.Columns {
		out := c
		if reserved[c] {
			out = "profile_" + c
		}
		source = append(source, c)
		output = append(output, out)
	}
	return source, output
}

// Writer writes season rows to an output sink.
type Writer interface {
	Write(rows []model.SeasonRow) error
	Close() error
}
