package domain

import (
	"math/rand"
	"sort"
)

// Suit identifies one of the four card suits.
type Suit string

const (
	SuitSpades   Suit = "spades"
	SuitClubs    Suit = "clubs"
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
)

// Suits lists all suits in the fixed display/sort order.
var Suits = []Suit{SuitSpades, SuitClubs, SuitHearts, SuitDiamonds}

// Card is a single playing card. Value 1=Ace .. 11=Jack, 12=Queen, 13=King.
type Card struct {
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

// CenterValue is the pre-seeded middle value every suit sequence grows from.
const CenterValue = 7

// NewDeck returns the full ordered 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range Suits {
		for v := 1; v <= 13; v++ {
			deck = append(deck, Card{Suit: s, Value: v})
		}
	}
	return deck
}

// NewSequenceDeck returns the 48-card deck used by the card-sequence game:
// the full deck with all four sevens removed, since those start on the board.
func NewSequenceDeck() []Card {
	deck := make([]Card, 0, 48)
	for _, c := range NewDeck() {
		if c.Value != CenterValue {
			deck = append(deck, c)
		}
	}
	return deck
}

// ShuffleDeck returns a uniformly shuffled copy of the given deck.
func ShuffleDeck(rng *rand.Rand, deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SortHand orders cards by the fixed suit order, then ascending value.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return suitOrder(cards[i].Suit) < suitOrder(cards[j].Suit)
		}
		return cards[i].Value < cards[j].Value
	})
}

func suitOrder(s Suit) int {
	for i, o := range Suits {
		if o == s {
			return i
		}
	}
	return len(Suits)
}

// RemoveCardAt returns the hand with the card at index removed, plus that card.
// The input slice is not mutated.
func RemoveCardAt(hand []Card, index int) ([]Card, Card) {
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:index]...)
	out = append(out, hand[index+1:]...)
	return out, hand[index]
}
