package bot

import (
	"math/rand"

	"brettspiele/internal/domain"
)

// RandomBrain plays a uniformly random playable card, passes while it still
// may, and surrenders only once genuinely stuck.
type RandomBrain struct {
	rng *rand.Rand
}

// NewRandomBrain wraps the given rng. The rng is owned by the caller; the
// room's per-match rng keeps bot decisions inside the room's serialized loop.
func NewRandomBrain(rng *rand.Rand) *RandomBrain {
	return &RandomBrain{rng: rng}
}

// CalculateMove implements Brain.
func (b *RandomBrain) CalculateMove(board domain.Board, hand []domain.Card, passCount int, gapRule bool) Move {
	playable := board.PlayableCards(hand, gapRule)
	if len(playable) > 0 {
		pick := playable[b.rng.Intn(len(playable))]
		for i, c := range hand {
			if c == pick {
				return Move{Type: MovePlay, CardIndex: i}
			}
		}
	}
	if passCount < domain.MaxPasses {
		return Move{Type: MovePass}
	}
	return Move{Type: MoveSurrender}
}
