// Package classifier derives the batting, bowling and fielding effects of a
// single delivery.
package classifier

import "github.com/pable/go-cricket-metrics/internal/model"

// Batting is the batter-side effect of a delivery.
type Batting struct {
	Runs      int
	Four      bool
	Six       bool
	BallFaced bool
}

// Bowling is the bowler-side effect of a delivery.
type Bowling struct {
	RunsConceded int
	BallBowled   bool
}

// Dismissal is the credit produced by one wicket on the delivery.
type Dismissal struct {
	Kind         model.DismissalKind
	PlayerOut    string
	BowlerWicket bool
	BowlerCatch  bool     // caught and bowled
	Catches      []string // fielders credited with a catch
	Stumpings    []string // fielders credited with a stumping
	Fielders     []string // every listed fielder, credited or not
}

// Outcome is everything a delivery contributes to the accumulator.
type Outcome struct {
	Batter     string
	Bowler     string
	Batting    Batting
	Bowling    Bowling
	Dismissals []Dismissal
}

// Classify computes the outcome of d.
//
// Byes, leg-byes and penalty runs are not charged to the bowler; wides and
// no-balls are. Inconsistent records never produce negative conceded runs.
// A wide is neither faced nor bowled; a no-ball is faced but not
// bowled. Fours and sixes are counted from the batter's run value on the
// delivery, so an all-run four is indistinguishable from a boundary.
func Classify(d model.Delivery) Outcome {
	ex := d.Runs.Extras
	out := Outcome{
		Batter: d.Batter,
		Bowler: d.Bowler,
		Batting: Batting{
			Runs:      d.Runs.Batter,
			Four:      d.Runs.Batter == 4,
			Six:       d.Runs.Batter == 6,
			BallFaced: !d.IsWide(),
		},
		Bowling: Bowling{
			RunsConceded: max(d.Runs.Total-(ex.Byes+ex.LegByes+ex.Penalty), 0),
			BallBowled:   !d.IsWide() && !d.IsNoBall(),
		},
	}
	for _, w := range d.Wickets {
		out.Dismissals = append(out.Dismissals, classifyWicket(w))
	}
	return out
}

func classifyWicket(w model.Wicket) Dismissal {
	dis := Dismissal{
		Kind:         w.Kind,
		PlayerOut:    w.PlayerOut,
		BowlerWicket: w.Kind.CreditsBowler(),
		BowlerCatch:  w.Kind == model.DismissalCaughtAndBowled,
		Fielders:     w.Fielders,
	}
	switch w.Kind {
	case model.DismissalCaught:
		dis.Catches = w.Fielders
	case model.DismissalStumped:
		dis.Stumpings = w.Fielders
	}
	return dis
}
