package domain

import "sort"

// Board maps each suit to the sorted values already placed in its sequence.
// Every suit starts holding only the center seven.
type Board map[Suit][]int

// NewBoard returns a board with all four sevens pre-seeded.
func NewBoard() Board {
	b := make(Board, len(Suits))
	for _, s := range Suits {
		b[s] = []int{CenterValue}
	}
	return b
}

// Contains reports whether value is already placed in the given suit sequence.
func (b Board) Contains(suit Suit, value int) bool {
	for _, v := range b[suit] {
		if v == value {
			return true
		}
	}
	return false
}

// CanPlace reports whether the card may legally be placed on the board.
// The base rule is adjacency: the value directly above or below must already
// be on the board. With gapRule set, every value strictly between the center
// seven and the candidate must also be present, so no hole is left behind.
// The board is never mutated; callers place accepted cards via Place.
func (b Board) CanPlace(card Card, gapRule bool) bool {
	if !b.Contains(card.Suit, card.Value-1) && !b.Contains(card.Suit, card.Value+1) {
		return false
	}
	if !gapRule {
		return true
	}
	if card.Value < CenterValue {
		for v := card.Value + 1; v < CenterValue; v++ {
			if !b.Contains(card.Suit, v) {
				return false
			}
		}
	} else if card.Value > CenterValue {
		for v := CenterValue + 1; v < card.Value; v++ {
			if !b.Contains(card.Suit, v) {
				return false
			}
		}
	}
	return true
}

// Place inserts the card value into its suit sequence, kept sorted.
func (b Board) Place(card Card) {
	b[card.Suit] = append(b[card.Suit], card.Value)
	sort.Ints(b[card.Suit])
}

// PlayableCards returns the cards in hand that CanPlace accepts.
func (b Board) PlayableCards(hand []Card, gapRule bool) []Card {
	var out []Card
	for _, c := range hand {
		if b.CanPlace(c, gapRule) {
			out = append(out, c)
		}
	}
	return out
}

// HasPlayableCard reports whether any card in hand is currently placeable.
func (b Board) HasPlayableCard(hand []Card, gapRule bool) bool {
	for _, c := range hand {
		if b.CanPlace(c, gapRule) {
			return true
		}
	}
	return false
}

// SurrenderSweep places every card from hand that becomes playable by plain
// adjacency, repeating until no further card fits, and returns the placed
// cards plus the remainder. Placed and remaining exactly partition the input
// hand. The sweep mutates the board; the input slice is left untouched.
func SurrenderSweep(b Board, hand []Card) (placed, remaining []Card) {
	remaining = append([]Card(nil), hand...)
	for {
		progressed := false
		for i := 0; i < len(remaining); {
			if b.CanPlace(remaining[i], false) {
				b.Place(remaining[i])
				placed = append(placed, remaining[i])
				remaining = append(remaining[:i], remaining[i+1:]...)
				progressed = true
				continue
			}
			i++
		}
		if !progressed {
			return placed, remaining
		}
	}
}
