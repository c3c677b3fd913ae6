package aggregator

// Participants is the set of distinct names seen in one match.
type Participants struct {
	names map[string]struct{}
}

// NewParticipants returns an empty set.
func NewParticipants() *Participants {
	return &Participants{names: make(map[string]struct{})}
}

// Add records name as having appeared in the match.
func (p *Participants) Add(name string) {
	p.names[name] = struct{}{}
}

// Len returns the number of distinct names.
func (p *Participants) Len() int { return len(p.names) }

// Has reports whether name appeared in the match.
func (p *Participants) Has(name string) bool {
	_, ok := p.names[name]
	return ok
}

// Commit increments the matches counter of every participant exactly once.
// Call it once per match, after all of its deliveries have been applied.
func (p *Participants) Commit(acc *Accumulator, season string) {
	for name := range p.names {
		acc.Get(season, name).Matches++
	}
}
