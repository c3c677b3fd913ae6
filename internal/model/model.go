package model

import "fmt"

// ---- Decoded match records (emitted by the parser) ----

// Extras is the per-delivery extras breakdown. Absent categories are zero.
type Extras struct {
	Wides   int
	NoBalls int
	Byes    int
	LegByes int
	Penalty int
}

// Runs is the scoring breakdown of one delivery.
type Runs struct {
	Batter int
	Total  int
	Extras Extras
}

// Wicket is one dismissal recorded on a delivery.
type Wicket struct {
	Kind      DismissalKind
	PlayerOut string
	Fielders  []string // ordered; empty when none are credited
}

// Delivery is one ball bowled.
type Delivery struct {
	Batter  string
	Bowler  string
	Runs    Runs
	Wickets []Wicket
}

// IsWide reports whether the delivery was called wide.
func (d Delivery) IsWide() bool { return d.Runs.Extras.Wides > 0 }

// IsNoBall reports whether the delivery was called a no-ball.
func (d Delivery) IsNoBall() bool { return d.Runs.Extras.NoBalls > 0 }

type Over struct {
	Number     int
	Deliveries []Delivery
}

type Innings struct {
	Team  string
	Overs []Over
}

// MatchRecord is one decoded archive entry.
type MatchRecord struct {
	Source         string // archive entry name
	RawSeason      string
	HasSeason      bool
	SeasonToken    string // normalized once at decode time
	Innings        []Innings
	SkippedInnings int // innings dropped for lacking an overs list
}

// DeliveryCount returns the number of deliveries across all innings.
func (m *MatchRecord) DeliveryCount() int {
	n := 0
	for _, inn := range m.Innings {
		for _, ov := range inn.Overs {
			n += len(ov.Deliveries)
		}
	}
	return n
}

// ---- Aggregated statistics ----

// Key identifies one accumulation unit. Names match by exact string equality.
type Key struct {
	Season string
	Name   string
}

// PlayerSeasonStats holds the counters for one (season, player) pair.
//
// InningsBatted, InningsBowled, NotOuts, HighScore, Centuries and Fifties are
// not computed by the aggregator and remain zero; downstream consumers source
// them from an external master table.
type PlayerSeasonStats struct {
	Matches       int
	InningsBatted int
	RunsScored    int
	BallsFaced    int
	Fours         int
	Sixes         int
	NotOuts       int
	HighScore     int
	Centuries     int
	Fifties       int
	InningsBowled int
	BallsBowled   int
	RunsConceded  int
	Wickets       int
	Catches       int
	Stumpings     int
}

// Add folds other into s. Used when merging sharded accumulators.
func (s *PlayerSeasonStats) Add(other PlayerSeasonStats) {
	s.Matches += other.Matches
	s.InningsBatted += other.InningsBatted
	s.RunsScored += other.RunsScored
	s.BallsFaced += other.BallsFaced
	s.Fours += other.Fours
	s.Sixes += other.Sixes
	s.NotOuts += other.NotOuts
	s.Centuries += other.Centuries
	s.Fifties += other.Fifties
	s.InningsBowled += other.InningsBowled
	s.BallsBowled += other.BallsBowled
	s.RunsConceded += other.RunsConceded
	s.Wickets += other.Wickets
	s.Catches += other.Catches
	s.Stumpings += other.Stumpings
	if other.HighScore > s.HighScore {
		s.HighScore = other.HighScore
	}
}

// StrikeRate returns runs per 100 balls faced, or 0 with no balls faced.
func (s PlayerSeasonStats) StrikeRate() float64 {
	if s.BallsFaced == 0 {
		return 0
	}
	return 100 * float64(s.RunsScored) / float64(s.BallsFaced)
}

// Economy returns runs conceded per six legal balls.
func (s PlayerSeasonStats) Economy() float64 {
	if s.BallsBowled == 0 {
		return 0
	}
	return 6 * float64(s.RunsConceded) / float64(s.BallsBowled)
}

// BowlingAverage returns runs conceded per wicket; ok is false without wickets.
func (s PlayerSeasonStats) BowlingAverage() (avg float64, ok bool) {
	if s.Wickets == 0 {
		return 0, false
	}
	return float64(s.RunsConceded) / float64(s.Wickets), true
}

// Overs formats balls bowled as completed overs and balls, e.g. "3.4".
func (s PlayerSeasonStats) Overs() string {
	return fmt.Sprintf("%d.%d", s.BallsBowled/6, s.BallsBowled%6)
}

// SeasonRow is one flattened output row.
type SeasonRow struct {
	Season string
	Name   string
	PlayerSeasonStats
	Profile map[string]string // nil when no profile matched
}

// Profile is one row of the external profile table.
type Profile struct {
	Name   string
	Fields map[string]string
}

// ProfileTable holds profiles keyed by exact name plus the column order of the
// descriptive fields (the name column excluded).
type ProfileTable struct {
	Columns []string
	ByName  map[string]Profile
}

// ---- Run bookkeeping ----

// RunSummary describes one aggregation run.
type RunSummary struct {
	ID               int64
	Archive          string
	StartedAt        string
	EntriesRead      int
	MatchesProcessed int
	SkippedMalformed int
	SkippedNoInfo    int
	SkippedNoInnings int
	InningsSkipped   int
	Deliveries       int
	Keys             int
}

// MatchesSkipped returns the total of all match-level skips.
func (r RunSummary) MatchesSkipped() int {
	return r.SkippedMalformed + r.SkippedNoInfo + r.SkippedNoInnings
}

// SeasonOverview is a per-season digest read back from the store.
type SeasonOverview struct {
	Season     string
	Players    int
	Runs       int
	Wickets    int
	TopScorer  string
	TopRuns    int
	TopBowler  string
	TopWickets int
}
