package app

import (
	"encoding/json"

	"brettspiele/internal/bot"
	"brettspiele/internal/domain"
)

// GameTypeSevens is the card-sequence game's room tag.
const GameTypeSevens = "kartendomino"

// sevensSeats is the fixed table size; empty seats are padded with bots at
// game start.
const sevensSeats = 4

// cardsPerHand is dealt to every seat from the 48-card sequence deck.
const cardsPerHand = 12

// SevensHandler implements the four-seat card-sequencing game. The game
// starts when four humans have joined or when the host starts it explicitly,
// padding empty seats with bots.
type SevensHandler struct{}

// NewSevensHandler returns the handler instance shared by all card rooms.
func NewSevensHandler() *SevensHandler {
	return &SevensHandler{}
}

func (h *SevensHandler) GameType() string { return GameTypeSevens }

func (h *SevensHandler) MaxPlayers() int { return sevensSeats }

func (h *SevensHandler) InitState() GameState {
	return &domain.SequenceState{Board: domain.NewBoard()}
}

func (h *SevensHandler) state(r *Room) *domain.SequenceState {
	return r.State.(*domain.SequenceState)
}

// OnPlayerJoined auto-starts the game once all four seats hold humans.
func (h *SevensHandler) OnPlayerJoined(r *Room) []Event {
	if len(r.Players) == sevensSeats && !h.state(r).Started {
		return h.startGame(r)
	}
	return nil
}

// StartGame handles the explicit host command; seats left open are filled
// with bots.
func (h *SevensHandler) StartGame(r *Room) ([]Event, bool) {
	if h.state(r).Started {
		return nil, false
	}
	return h.startGame(r), true
}

func (h *SevensHandler) startGame(r *Room) []Event {
	st := h.state(r)

	for len(r.Players) < sevensSeats {
		r.AddBot()
	}

	deck := domain.ShuffleDeck(r.Rng(), domain.NewSequenceDeck())
	st.Deck = deck
	st.Hands = make([][]domain.Card, sevensSeats)
	st.PassCounts = make([]int, sevensSeats)
	st.Surrendered = make([]bool, sevensSeats)
	st.FinishedOrder = nil
	st.SurrenderOrder = nil
	st.Moves = 0
	st.Started = true

	for i := 0; i < sevensSeats; i++ {
		hand := append([]domain.Card(nil), deck[i*cardsPerHand:(i+1)*cardsPerHand]...)
		domain.SortHand(hand)
		st.Hands[i] = hand
	}

	r.CurrentTurn = r.Rng().Intn(sevensSeats)

	events := []Event{{
		Kind: EventGameStarted,
		Payload: SequenceStartedPayload{
			Players:       h.seatInfos(r),
			CurrentPlayer: r.CurrentPlayerName(),
			Board:         st.Board,
		},
	}}

	for i, p := range r.Players {
		if p.IsBot {
			continue
		}
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Hand: st.Hands[i], PlayerIndex: i},
			Recipients: []string{p.ID},
		})
	}

	if p := r.CurrentPlayer(); p != nil && p.IsBot {
		r.ScheduleBot()
	}
	return events
}

func (h *SevensHandler) seatInfos(r *Room) []SeatInfo {
	st := h.state(r)
	out := make([]SeatInfo, len(r.Players))
	for i, p := range r.Players {
		cardsLeft := 0
		if i < len(st.Hands) {
			cardsLeft = len(st.Hands[i])
		}
		out[i] = SeatInfo{
			Username:  p.Username,
			Color:     p.Color,
			IsHost:    p.IsHost,
			IsBot:     p.IsBot,
			CardsLeft: cardsLeft,
			Finished:  st.HasFinished(p.Username),
			Rank:      st.Rank(p.Username),
		}
	}
	return out
}

// OnPlayerReconnected re-delivers the full snapshot, including the private
// hand, to the returning connection.
func (h *SevensHandler) OnPlayerReconnected(r *Room, username string) []Event {
	st := h.state(r)
	idx := r.findByUsername(username)
	if idx < 0 || !st.Started || r.Players[idx].IsBot {
		return nil
	}
	return []Event{{
		Kind: EventGameState,
		Payload: SequenceStatePayload{
			Board:         st.Board,
			Hand:          st.Hands[idx],
			PassCount:     st.PassCounts[idx],
			Surrendered:   st.Surrendered[idx],
			PlayerIndex:   idx,
			CurrentPlayer: r.CurrentPlayerName(),
			Players:       h.seatInfos(r),
			FinishedOrder: st.FinishOrder(),
		},
		Recipients: []string{r.Players[idx].ID},
	}}
}

// OnPlayerLeft hands a mid-game departure's seat to a bot, keeping the
// per-seat hands and counters aligned with the roster. In the lobby the
// default departure broadcast applies.
func (h *SevensHandler) OnPlayerLeft(r *Room, username string, seat int) ([]Event, bool) {
	st := h.state(r)
	if !st.Started {
		return nil, false
	}

	bp := r.InsertBot(seat)
	replaceName(st.FinishedOrder, username, bp.Username)
	replaceName(st.SurrenderOrder, username, bp.Username)

	// Removal may have clamped the turn pointer onto a finished seat;
	// settle it on an active one.
	for hops := 0; hops < len(r.Players) && st.HasFinished(r.CurrentPlayerName()); hops++ {
		r.CurrentTurn = (r.CurrentTurn + 1) % len(r.Players)
	}

	events := []Event{{
		Kind: EventPlayerLeft,
		Payload: PlayerLeftPayload{
			Username:      username,
			Players:       r.Roster(),
			CurrentPlayer: r.CurrentPlayerName(),
		},
	}}

	if cur := r.CurrentPlayer(); cur != nil && cur.IsBot {
		r.ScheduleBot()
	}
	return events, true
}

func replaceName(names []string, from, to string) {
	for i, n := range names {
		if n == from {
			names[i] = to
		}
	}
}

type sevensMove struct {
	Pass      bool `json:"pass"`
	Surrender bool `json:"surrender"`
	CardIndex *int `json:"cardIndex"`
}

// ProcessMove dispatches the three mutually exclusive sub-moves by payload
// shape. The orchestrator has already matched the seat to the turn pointer.
func (h *SevensHandler) ProcessMove(r *Room, playerIndex int, payload json.RawMessage) ([]Event, bool) {
	if !h.state(r).Started {
		return nil, false
	}
	var mv sevensMove
	if err := json.Unmarshal(payload, &mv); err != nil {
		return nil, false
	}

	switch {
	case mv.Pass:
		return h.handlePass(r, playerIndex)
	case mv.Surrender:
		return h.handleSurrender(r, playerIndex)
	case mv.CardIndex != nil:
		return h.handleCardPlay(r, playerIndex, *mv.CardIndex)
	}
	return nil, false
}

func (h *SevensHandler) handlePass(r *Room, seat int) ([]Event, bool) {
	st := h.state(r)
	if st.PassCounts[seat] >= domain.MaxPasses {
		return nil, false
	}
	st.PassCounts[seat]++

	passCount := st.PassCounts[seat]
	return h.advanceTurn(r, SequenceMoveUpdatePayload{
		Type:      "pass",
		Player:    r.Players[seat].Username,
		PassCount: &passCount,
	}), true
}

func (h *SevensHandler) handleSurrender(r *Room, seat int) ([]Event, bool) {
	st := h.state(r)
	if st.PassCounts[seat] < domain.MaxPasses {
		return nil, false
	}
	// Surrender is only legal when genuinely stuck.
	if st.Board.HasPlayableCard(st.Hands[seat], st.GapRuleActive()) {
		return nil, false
	}

	username := r.Players[seat].Username
	st.Surrendered[seat] = true
	rank := st.FinishedCount()

	// Sweep the hand onto the board by plain adjacency; cards that still
	// cannot cascade stay in hand.
	placed, remaining := domain.SurrenderSweep(st.Board, st.Hands[seat])
	st.Hands[seat] = remaining
	st.SurrenderOrder = append(st.SurrenderOrder, username)

	if done := h.maybeFinishLastSeat(r); done != nil {
		return done, true
	}

	placedCount, unplacedCount := len(placed), len(remaining)
	return h.advanceTurn(r, SequenceMoveUpdatePayload{
		Type:          "surrender",
		Player:        username,
		Rank:          &rank,
		PlacedCards:   &placedCount,
		UnplacedCards: &unplacedCount,
	}), true
}

func (h *SevensHandler) handleCardPlay(r *Room, seat, cardIndex int) ([]Event, bool) {
	st := h.state(r)
	hand := st.Hands[seat]
	if cardIndex < 0 || cardIndex >= len(hand) {
		return nil, false
	}

	card := hand[cardIndex]
	if !st.Board.CanPlace(card, st.GapRuleActive()) {
		return nil, false
	}

	st.Hands[seat], _ = domain.RemoveCardAt(hand, cardIndex)
	st.Board.Place(card)
	st.Moves++

	username := r.Players[seat].Username
	var finishedRank *int
	if len(st.Hands[seat]) == 0 {
		st.FinishedOrder = append(st.FinishedOrder, username)
		rank := len(st.FinishedOrder) - 1
		finishedRank = &rank

		if done := h.maybeFinishLastSeat(r); done != nil {
			return done, true
		}
	}

	remaining := len(st.Hands[seat])
	return h.advanceTurn(r, SequenceMoveUpdatePayload{
		Type:           "play",
		Player:         username,
		Card:           &card,
		RemainingCards: &remaining,
		FinishedRank:   finishedRank,
	}), true
}

// maybeFinishLastSeat ends the game when all but one seat are in the finish
// order: the last active seat's playable cards are forced onto the board and
// it is appended to the surrender order. Returns nil when the game goes on.
func (h *SevensHandler) maybeFinishLastSeat(r *Room) []Event {
	st := h.state(r)
	if st.FinishedCount() < len(r.Players)-1 {
		return nil
	}

	for i, p := range r.Players {
		if st.HasFinished(p.Username) {
			continue
		}
		_, remaining := domain.SurrenderSweep(st.Board, st.Hands[i])
		st.Hands[i] = remaining
		st.SurrenderOrder = append(st.SurrenderOrder, p.Username)
		break
	}
	return h.endGame(r)
}

// advanceTurn moves the pointer to the next seat not yet in the finish
// order, broadcasts the move, and arms the bot timer when a bot is up next.
// When no active seat remains the game ends instead.
func (h *SevensHandler) advanceTurn(r *Room, lastMove SequenceMoveUpdatePayload) []Event {
	st := h.state(r)

	next := (r.CurrentTurn + 1) % len(r.Players)
	for hops := 0; st.HasFinished(r.Players[next].Username); hops++ {
		if hops >= len(r.Players) {
			return h.endGame(r)
		}
		next = (next + 1) % len(r.Players)
	}
	r.CurrentTurn = next

	lastMove.NextPlayer = r.CurrentPlayerName()
	lastMove.Board = st.Board
	lastMove.Players = h.seatInfos(r)
	lastMove.FinishedOrder = st.FinishOrder()

	events := []Event{{Kind: EventMoveUpdate, Payload: lastMove}}

	if r.CurrentPlayer().IsBot {
		r.ScheduleBot()
	}
	return events
}

// endGame broadcasts the final ranking. Rank is each seat's index in the
// concatenation of normal finishers and surrenders.
func (h *SevensHandler) endGame(r *Room) []Event {
	st := h.state(r)

	order := st.FinishOrder()
	winner := ""
	if len(order) > 0 {
		winner = order[0]
	}

	ranking := make([]RankedPlayer, len(r.Players))
	for i, p := range r.Players {
		ranking[i] = RankedPlayer{
			Username:  p.Username,
			IsBot:     p.IsBot,
			CardsLeft: len(st.Hands[i]),
			Rank:      st.Rank(p.Username),
		}
	}

	st.Started = false

	return []Event{{
		Kind: EventGameOver,
		Payload: SequenceGameOverPayload{
			Winner:        winner,
			Ranking:       ranking,
			Board:         st.Board,
			FinishedOrder: order,
		},
	}}
}

// Restart drops bot seats, keeps the human roster, and resets the state.
func (h *SevensHandler) Restart(r *Room) ([]Event, bool) {
	r.DropBots()
	if r.CurrentTurn >= len(r.Players) {
		r.CurrentTurn = 0
	}
	r.State = h.InitState()
	return []Event{{
		Kind:    EventGameRestarted,
		Payload: SequenceRestartPayload{Players: r.Roster()},
	}}, true
}

// BotMove runs one bot decision for the current seat. The bot timer cannot
// be canceled, so everything is re-validated here: a stale firing after the
// seat changed hands or the game ended is a no-op.
func (h *SevensHandler) BotMove(r *Room) []Event {
	st := h.state(r)
	if !st.Started {
		return nil
	}
	seat := r.CurrentTurn
	p := r.CurrentPlayer()
	if p == nil || !p.IsBot {
		return nil
	}

	brain := bot.NewRandomBrain(r.Rng())
	mv := brain.CalculateMove(st.Board, st.Hands[seat], st.PassCounts[seat], st.GapRuleActive())

	var events []Event
	switch mv.Type {
	case bot.MovePlay:
		events, _ = h.handleCardPlay(r, seat, mv.CardIndex)
	case bot.MovePass:
		events, _ = h.handlePass(r, seat)
	case bot.MoveSurrender:
		events, _ = h.handleSurrender(r, seat)
	}
	return events
}
