package bot

import (
	"brettspiele/internal/domain"
)

// MoveType classifies a bot decision.
type MoveType int

const (
	MovePlay MoveType = iota
	MovePass
	MoveSurrender
)

// Move represents the decision made by a bot for its turn.
type Move struct {
	Type      MoveType
	CardIndex int // index into the bot's hand; only set for MovePlay
}

// Brain is the interface all bot strategies implement. Implementations must
// not mutate the board or hand.
type Brain interface {
	CalculateMove(board domain.Board, hand []domain.Card, passCount int, gapRule bool) Move
}
