package app

import "brettspiele/internal/domain"

// EventKind identifies emitted room events for transport dispatch.
type EventKind string

const (
	EventJoinSuccess        EventKind = "joinSuccess"
	EventPlayerJoined       EventKind = "playerJoined"
	EventPlayerLeft         EventKind = "playerLeft"
	EventPlayerDisconnected EventKind = "playerDisconnected"
	EventPlayerReconnected  EventKind = "playerReconnected"
	EventGameStarted        EventKind = "gameStarted"
	EventHandDealt          EventKind = "handDealt"
	EventMoveUpdate         EventKind = "moveUpdate"
	EventGameOver           EventKind = "gameOver"
	EventGameRestarted      EventKind = "gameRestarted"
	EventGameState          EventKind = "gameState"
	EventError              EventKind = "error"
)

// Event is a room event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // connection IDs; empty means broadcast to the room
}

// RosterEntry is the public view of a player shared in roster updates.
type RosterEntry struct {
	Username string `json:"username"`
	Color    string `json:"color"`
	IsHost   bool   `json:"isHost"`
}

// SeatInfo extends RosterEntry with card-game seat state.
type SeatInfo struct {
	Username  string `json:"username"`
	Color     string `json:"color"`
	IsHost    bool   `json:"isHost"`
	IsBot     bool   `json:"isBot"`
	CardsLeft int    `json:"cardsLeft"`
	Finished  bool   `json:"finished"`
	Rank      int    `json:"rank"`
}

type JoinSuccessPayload struct {
	RoomCode string `json:"roomCode"`
	GameType string `json:"gameType"`
}

type PlayerJoinedPayload struct {
	Player  RosterEntry   `json:"player"`
	Players []RosterEntry `json:"players"`
}

type PlayerLeftPayload struct {
	Username      string        `json:"username"`
	Players       []RosterEntry `json:"players"`
	CurrentPlayer string        `json:"currentPlayer"`
}

type PlayerConnectionPayload struct {
	Username string `json:"username"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Grid game payloads.

type GridPlayerRef struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

// GridMoveUpdatePayload announces a drop, or the synthetic first-move notice
// with no column/row/player when the game begins.
type GridMoveUpdatePayload struct {
	Column     *int              `json:"column"`
	Row        *int              `json:"row"`
	Player     *GridPlayerRef    `json:"player"`
	NextPlayer string            `json:"nextPlayer"`
	GameState  *domain.GridState `json:"gameState"`
}

type GridGameOverPayload struct {
	Winner       *string            `json:"winner"`
	WinningCells []domain.CellCoord `json:"winningCells"`
}

type GridRestartPayload struct {
	GameState     *domain.GridState `json:"gameState"`
	CurrentPlayer string            `json:"currentPlayer"`
}

type GridStatePayload struct {
	GameState     *domain.GridState `json:"gameState"`
	CurrentPlayer string            `json:"currentPlayer"`
	Players       []RosterEntry     `json:"players"`
}

// Card-sequence game payloads.

type SequenceStartedPayload struct {
	Players       []SeatInfo   `json:"players"`
	CurrentPlayer string       `json:"currentPlayer"`
	Board         domain.Board `json:"board"`
}

type HandDealtPayload struct {
	Hand        []domain.Card `json:"hand"`
	PlayerIndex int           `json:"playerIndex"`
}

// SequenceMoveUpdatePayload carries one of three move shapes plus the shared
// turn context. Optional fields belong to specific move types.
type SequenceMoveUpdatePayload struct {
	Type           string       `json:"type"` // "play", "pass" or "surrender"
	Player         string       `json:"player"`
	Card           *domain.Card `json:"card,omitempty"`
	RemainingCards *int         `json:"remainingCards,omitempty"`
	FinishedRank   *int         `json:"finishedRank,omitempty"`
	PassCount      *int         `json:"passCount,omitempty"`
	Rank           *int         `json:"rank,omitempty"`
	PlacedCards    *int         `json:"placedCards,omitempty"`
	UnplacedCards  *int         `json:"unplacedCards,omitempty"`
	NextPlayer     string       `json:"nextPlayer"`
	Board          domain.Board `json:"board"`
	Players        []SeatInfo   `json:"players"`
	FinishedOrder  []string     `json:"finishedOrder"`
}

type RankedPlayer struct {
	Username  string `json:"username"`
	IsBot     bool   `json:"isBot"`
	CardsLeft int    `json:"cardsLeft"`
	Rank      int    `json:"rank"`
}

type SequenceGameOverPayload struct {
	Winner        string         `json:"winner"`
	Ranking       []RankedPlayer `json:"ranking"`
	Board         domain.Board   `json:"board"`
	FinishedOrder []string       `json:"finishedOrder"`
}

type SequenceRestartPayload struct {
	Players []RosterEntry `json:"players"`
}

type SequenceStatePayload struct {
	Board         domain.Board  `json:"board"`
	Hand          []domain.Card `json:"hand"`
	PassCount     int           `json:"passCount"`
	Surrendered   bool          `json:"surrendered"`
	PlayerIndex   int           `json:"playerIndex"`
	CurrentPlayer string        `json:"currentPlayer"`
	Players       []SeatInfo    `json:"players"`
	FinishedOrder []string      `json:"finishedOrder"`
}
