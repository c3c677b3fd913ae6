package model

// DismissalKind is the recorded mode of dismissal, as written in the archive.
type DismissalKind string

const (
	DismissalBowled           DismissalKind = "bowled"
	DismissalCaught           DismissalKind = "caught"
	DismissalCaughtAndBowled  DismissalKind = "caught and bowled"
	DismissalStumped          DismissalKind = "stumped"
	DismissalRunOut           DismissalKind = "run out"
	DismissalLBW              DismissalKind = "lbw"
	DismissalHitWicket        DismissalKind = "hit wicket"
	DismissalRetiredHurt      DismissalKind = "retired hurt"
	DismissalObstructingField DismissalKind = "obstructing the field"
)

// CreditsBowler reports whether the dismissal counts as a wicket for the
// bowler. Unknown kinds credit the bowler.
func (k DismissalKind) CreditsBowler() bool {
	switch k {
	case DismissalRunOut, DismissalRetiredHurt, DismissalObstructingField:
		return false
	default:
		return true
	}
}

func (k DismissalKind) String() string { return string(k) }
