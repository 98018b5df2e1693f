package domain

// MaxPasses is how often a seat may pass before it must play or surrender.
const MaxPasses = 3

// SequenceState holds the full card-sequence game state for one room.
// Indexes into the per-seat slices line up with the room roster.
type SequenceState struct {
	Board       Board
	Deck        []Card
	Hands       [][]Card
	PassCounts  []int
	Surrendered []bool

	// FinishedOrder lists seats that emptied their hand normally,
	// SurrenderOrder lists seats that gave up. The final ranking is their
	// concatenation, normal finishers first.
	FinishedOrder  []string
	SurrenderOrder []string

	Started bool
	Moves   int
}

// FinishOrder returns the combined finish ranking, normal finishers first.
func (s *SequenceState) FinishOrder() []string {
	out := make([]string, 0, len(s.FinishedOrder)+len(s.SurrenderOrder))
	out = append(out, s.FinishedOrder...)
	out = append(out, s.SurrenderOrder...)
	return out
}

// FinishedCount returns how many seats have exited active play.
func (s *SequenceState) FinishedCount() int {
	return len(s.FinishedOrder) + len(s.SurrenderOrder)
}

// HasFinished reports whether the named seat is already in the finish order.
func (s *SequenceState) HasFinished(username string) bool {
	for _, n := range s.FinishedOrder {
		if n == username {
			return true
		}
	}
	for _, n := range s.SurrenderOrder {
		if n == username {
			return true
		}
	}
	return false
}

// Rank returns the seat's index in the combined finish order, or -1.
func (s *SequenceState) Rank(username string) int {
	for i, n := range s.FinishOrder() {
		if n == username {
			return i
		}
	}
	return -1
}

// GapRuleActive reports whether the post-finisher gap rule applies: once any
// seat has ever finished, by normal play or surrender, placements must not
// leave a hole between the candidate and the center seven.
func (s *SequenceState) GapRuleActive() bool {
	return s.FinishedCount() > 0
}
