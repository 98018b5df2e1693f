package domain

import (
	"math/rand"
	"testing"
)

func TestNewSequenceDeck(t *testing.T) {
	deck := NewSequenceDeck()
	if len(deck) != 48 {
		t.Fatalf("deck size = %d, want 48", len(deck))
	}
	for _, c := range deck {
		if c.Value == CenterValue {
			t.Fatalf("deck contains a seven: %+v", c)
		}
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deck := NewSequenceDeck()
	shuffled := ShuffleDeck(rng, deck)

	if len(shuffled) != len(deck) {
		t.Fatalf("shuffled size = %d, want %d", len(shuffled), len(deck))
	}

	count := func(cards []Card) map[Card]int {
		m := make(map[Card]int)
		for _, c := range cards {
			m[c]++
		}
		return m
	}
	orig, got := count(deck), count(shuffled)
	for c, n := range orig {
		if got[c] != n {
			t.Fatalf("card %+v appears %d times after shuffle, want %d", c, got[c], n)
		}
	}
}

func TestShuffleDeckPositionCoverage(t *testing.T) {
	// Over many trials every card should be seen in position 0 at least once;
	// a biased shuffle pins cards near their origin.
	rng := rand.New(rand.NewSource(99))
	deck := NewSequenceDeck()

	seen := make(map[Card]bool)
	for trial := 0; trial < 5000; trial++ {
		seen[ShuffleDeck(rng, deck)[0]] = true
	}
	if len(seen) != len(deck) {
		t.Errorf("only %d of %d cards ever reached position 0", len(seen), len(deck))
	}
}

func TestCanPlaceAdjacency(t *testing.T) {
	b := NewBoard()
	b[SuitHearts] = []int{5, 6, 7, 8}

	tests := []struct {
		name    string
		card    Card
		gapRule bool
		want    bool
	}{
		{"AdjacentAbove", Card{SuitHearts, 9}, false, true},
		{"AdjacentBelow", Card{SuitHearts, 4}, false, true},
		{"NotAdjacent", Card{SuitHearts, 11}, false, false},
		{"OtherSuitNotAdjacent", Card{SuitSpades, 10}, false, false},
		{"OtherSuitSevenNeighbor", Card{SuitSpades, 8}, false, true},
		{"AdjacentWithGapRule", Card{SuitHearts, 9}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.CanPlace(tt.card, tt.gapRule); got != tt.want {
				t.Errorf("CanPlace(%+v, %v) = %v, want %v", tt.card, tt.gapRule, got, tt.want)
			}
		})
	}
}

func TestCanPlaceGapRule(t *testing.T) {
	// Hearts holds 7 and 9 but not 8: with the gap rule active the 10 must be
	// rejected because placing it would strand the missing 8.
	b := NewBoard()
	b[SuitHearts] = []int{7, 9}

	if !b.CanPlace(Card{SuitHearts, 10}, false) {
		t.Fatal("10 of hearts should be adjacent to the 9")
	}
	if b.CanPlace(Card{SuitHearts, 10}, true) {
		t.Error("gap rule accepted a placement over the missing 8")
	}
	if !b.CanPlace(Card{SuitHearts, 8}, true) {
		t.Error("gap rule rejected the 8 that fills the hole")
	}

	// Symmetric case below the seven.
	b[SuitClubs] = []int{5, 7}
	if b.CanPlace(Card{SuitClubs, 4}, true) {
		t.Error("gap rule accepted a placement over the missing 6")
	}
	if !b.CanPlace(Card{SuitClubs, 6}, true) {
		t.Error("gap rule rejected the 6 that fills the hole")
	}
}

func TestCanPlaceDoesNotMutate(t *testing.T) {
	b := NewBoard()
	b.CanPlace(Card{SuitSpades, 8}, true)
	b.CanPlace(Card{SuitSpades, 6}, false)
	if len(b[SuitSpades]) != 1 || b[SuitSpades][0] != CenterValue {
		t.Errorf("CanPlace mutated the board: %v", b[SuitSpades])
	}
}

func TestPlaceKeepsSorted(t *testing.T) {
	b := NewBoard()
	b.Place(Card{SuitSpades, 8})
	b.Place(Card{SuitSpades, 6})
	b.Place(Card{SuitSpades, 9})

	want := []int{6, 7, 8, 9}
	got := b[SuitSpades]
	if len(got) != len(want) {
		t.Fatalf("sequence = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sequence = %v, want %v", got, want)
		}
	}
}

func TestSurrenderSweepPartitionsHand(t *testing.T) {
	b := NewBoard()
	hand := []Card{
		{SuitSpades, 9},  // placeable only after the 8
		{SuitSpades, 8},  // adjacent to the seeded 7
		{SuitHearts, 2},  // never placeable here
		{SuitClubs, 6},   // adjacent
	}

	placed, remaining := SurrenderSweep(b, hand)

	if len(placed)+len(remaining) != len(hand) {
		t.Fatalf("placed %d + remaining %d != hand %d", len(placed), len(remaining), len(hand))
	}
	if len(placed) != 3 {
		t.Fatalf("placed %v, want the 8 and 9 of spades plus 6 of clubs", placed)
	}
	if len(remaining) != 1 || remaining[0] != (Card{SuitHearts, 2}) {
		t.Fatalf("remaining = %v, want only the 2 of hearts", remaining)
	}
	if !b.Contains(SuitSpades, 9) {
		t.Error("cascaded 9 of spades not on board")
	}
	if len(hand) != 4 {
		t.Error("input hand mutated")
	}
}

func TestSurrenderSweepEmptyHand(t *testing.T) {
	b := NewBoard()
	placed, remaining := SurrenderSweep(b, nil)
	if len(placed) != 0 || len(remaining) != 0 {
		t.Errorf("placed=%v remaining=%v, want empty", placed, remaining)
	}
}

func TestSortHand(t *testing.T) {
	hand := []Card{
		{SuitDiamonds, 2},
		{SuitSpades, 13},
		{SuitClubs, 4},
		{SuitSpades, 3},
		{SuitHearts, 9},
	}
	SortHand(hand)

	want := []Card{
		{SuitSpades, 3},
		{SuitSpades, 13},
		{SuitClubs, 4},
		{SuitHearts, 9},
		{SuitDiamonds, 2},
	}
	for i := range want {
		if hand[i] != want[i] {
			t.Fatalf("sorted hand = %v, want %v", hand, want)
		}
	}
}

func TestSequenceStateFinishOrder(t *testing.T) {
	st := &SequenceState{
		FinishedOrder:  []string{"alice", "bob"},
		SurrenderOrder: []string{"carol"},
	}

	order := st.FinishOrder()
	want := []string{"alice", "bob", "carol"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("finish order = %v, want %v", order, want)
		}
	}
	if st.Rank("carol") != 2 {
		t.Errorf("carol rank = %d, want 2", st.Rank("carol"))
	}
	if st.Rank("dave") != -1 {
		t.Errorf("dave rank = %d, want -1", st.Rank("dave"))
	}
	if !st.GapRuleActive() {
		t.Error("gap rule inactive despite finishers")
	}
	if !st.HasFinished("bob") || st.HasFinished("dave") {
		t.Error("HasFinished misreports")
	}
}
