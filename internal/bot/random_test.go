package bot

import (
	"math/rand"
	"testing"

	"brettspiele/internal/domain"
)

func TestCalculateMovePlaysWhenPossible(t *testing.T) {
	brain := NewRandomBrain(rand.New(rand.NewSource(1)))
	board := domain.NewBoard()
	hand := []domain.Card{
		{Suit: domain.SuitHearts, Value: 2},
		{Suit: domain.SuitSpades, Value: 8},
	}

	mv := brain.CalculateMove(board, hand, 0, false)
	if mv.Type != MovePlay {
		t.Fatalf("move type = %v, want play", mv.Type)
	}
	if mv.CardIndex != 1 {
		t.Fatalf("card index = %d, want 1 (the 8 of spades)", mv.CardIndex)
	}
}

func TestCalculateMovePicksUniformly(t *testing.T) {
	brain := NewRandomBrain(rand.New(rand.NewSource(42)))
	board := domain.NewBoard()
	hand := []domain.Card{
		{Suit: domain.SuitSpades, Value: 8},
		{Suit: domain.SuitHearts, Value: 6},
		{Suit: domain.SuitClubs, Value: 3},
	}

	seen := make(map[int]int)
	for i := 0; i < 500; i++ {
		mv := brain.CalculateMove(board, hand, 0, false)
		if mv.Type != MovePlay {
			t.Fatalf("move type = %v, want play", mv.Type)
		}
		seen[mv.CardIndex]++
	}
	if seen[2] > 0 {
		t.Error("bot picked the unplayable 3 of clubs")
	}
	if seen[0] == 0 || seen[1] == 0 {
		t.Errorf("bot never varied its pick: %v", seen)
	}
}

func TestCalculateMovePassesThenSurrenders(t *testing.T) {
	brain := NewRandomBrain(rand.New(rand.NewSource(3)))
	board := domain.NewBoard()
	hand := []domain.Card{{Suit: domain.SuitHearts, Value: 2}}

	tests := []struct {
		name      string
		passCount int
		want      MoveType
	}{
		{"FirstPass", 0, MovePass},
		{"LastPass", 2, MovePass},
		{"Stuck", 3, MoveSurrender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if mv := brain.CalculateMove(board, hand, tt.passCount, false); mv.Type != tt.want {
				t.Errorf("move type = %v, want %v", mv.Type, tt.want)
			}
		})
	}
}

func TestIdentities(t *testing.T) {
	if got := Name(0); got != "Bot 1" {
		t.Errorf("Name(0) = %q", got)
	}
	if !IsBot(ID(2)) {
		t.Error("ID not recognized as bot")
	}
	if IsBot("user-abc") {
		t.Error("human id recognized as bot")
	}
}
