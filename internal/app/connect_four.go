package app

import (
	"encoding/json"

	"brettspiele/internal/domain"
)

// GameTypeConnectFour is the grid game's room tag.
const GameTypeConnectFour = "vier-gewinnt"

// ConnectFourHandler implements the 6x7 drop-four-in-a-row game for two
// players. The game starts implicitly when the second player joins.
type ConnectFourHandler struct{}

// NewConnectFourHandler returns the handler instance shared by all grid rooms.
func NewConnectFourHandler() *ConnectFourHandler {
	return &ConnectFourHandler{}
}

func (h *ConnectFourHandler) GameType() string { return GameTypeConnectFour }

func (h *ConnectFourHandler) MaxPlayers() int { return 2 }

func (h *ConnectFourHandler) InitState() GameState { return domain.NewGridState() }

func (h *ConnectFourHandler) gridState(r *Room) *domain.GridState {
	return r.State.(*domain.GridState)
}

// OnPlayerJoined starts the game once both seats are filled: a random seat
// gets the first turn and a synthetic first-move notice announces it.
func (h *ConnectFourHandler) OnPlayerJoined(r *Room) []Event {
	if len(r.Players) != 2 {
		return nil
	}
	r.CurrentTurn = r.Rng().Intn(2)
	return []Event{{
		Kind: EventMoveUpdate,
		Payload: GridMoveUpdatePayload{
			NextPlayer: r.CurrentPlayerName(),
			GameState:  h.gridState(r),
		},
	}}
}

func (h *ConnectFourHandler) OnPlayerReconnected(r *Room, username string) []Event {
	idx := r.findByUsername(username)
	if idx < 0 {
		return nil
	}
	return []Event{{
		Kind: EventGameState,
		Payload: GridStatePayload{
			GameState:     h.gridState(r),
			CurrentPlayer: r.CurrentPlayerName(),
			Players:       r.Roster(),
		},
		Recipients: []string{r.Players[idx].ID},
	}}
}

func (h *ConnectFourHandler) OnPlayerLeft(r *Room, username string, seat int) ([]Event, bool) {
	return nil, false
}

type gridMove struct {
	Column int `json:"column"`
}

// ProcessMove drops a piece in the requested column. The turn pointer has
// already been checked by the orchestrator. On a terminal placement the
// gameOver broadcast follows the regular moveUpdate.
func (h *ConnectFourHandler) ProcessMove(r *Room, playerIndex int, payload json.RawMessage) ([]Event, bool) {
	var mv gridMove
	if err := json.Unmarshal(payload, &mv); err != nil {
		return nil, false
	}

	player := r.Players[playerIndex]
	state := h.gridState(r)
	res, ok := state.Drop(mv.Column, domain.GridCell{Username: player.Username, Color: player.Color})
	if !ok {
		return nil, false
	}

	r.CurrentTurn = (r.CurrentTurn + 1) % len(r.Players)

	col, row := mv.Column, res.Row
	events := []Event{{
		Kind: EventMoveUpdate,
		Payload: GridMoveUpdatePayload{
			Column:     &col,
			Row:        &row,
			Player:     &GridPlayerRef{Username: player.Username, Color: player.Color},
			NextPlayer: r.CurrentPlayerName(),
			GameState:  state,
		},
	}}

	if res.GameOver {
		var winner *string
		if res.Win {
			winner = &player.Username
		}
		cells := res.WinningCells
		if cells == nil {
			cells = []domain.CellCoord{}
		}
		events = append(events, Event{
			Kind:    EventGameOver,
			Payload: GridGameOverPayload{Winner: winner, WinningCells: cells},
		})
	}
	return events, true
}

func (h *ConnectFourHandler) StartGame(r *Room) ([]Event, bool) {
	return nil, false
}

// Restart resets the board and re-picks a random starting seat.
func (h *ConnectFourHandler) Restart(r *Room) ([]Event, bool) {
	r.State = h.InitState()
	r.CurrentTurn = r.Rng().Intn(len(r.Players))
	return []Event{{
		Kind: EventGameRestarted,
		Payload: GridRestartPayload{
			GameState:     h.gridState(r),
			CurrentPlayer: r.CurrentPlayerName(),
		},
	}}, true
}

func (h *ConnectFourHandler) BotMove(r *Room) []Event { return nil }
