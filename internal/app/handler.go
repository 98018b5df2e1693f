package app

import "encoding/json"

// GameState is the game-specific state a handler owns inside a Room. The
// orchestrator never inspects it.
type GameState any

// GameHandler is the strategy object implementing one game's rules and
// lifecycle hooks. Handlers are stateless; all per-room state lives in the
// Room and its GameState, so one handler instance serves every room of its
// game type.
type GameHandler interface {
	// GameType returns the tag rooms are created under.
	GameType() string

	// MaxPlayers is the human-roster ceiling checked on fresh joins.
	MaxPlayers() int

	// InitState builds a fresh game state for a new or restarted room.
	InitState() GameState

	// OnPlayerJoined runs after a fresh join has been added to the roster.
	// It may start the game.
	OnPlayerJoined(r *Room) []Event

	// OnPlayerReconnected re-delivers the current game state to the named
	// player's connection.
	OnPlayerReconnected(r *Room, username string) []Event

	// OnPlayerLeft runs after a departure has been resolved; seat is the
	// roster index the player held. When the second return is false the
	// orchestrator broadcasts its default playerLeft notification instead.
	OnPlayerLeft(r *Room, username string, seat int) ([]Event, bool)

	// ProcessMove applies one validated-turn move. The payload arrives
	// verbatim from the client; the bool reports acceptance.
	ProcessMove(r *Room, playerIndex int, payload json.RawMessage) ([]Event, bool)

	// StartGame handles the explicit host start command. Games that start
	// implicitly return false.
	StartGame(r *Room) ([]Event, bool)

	// Restart resets the game state for another round.
	Restart(r *Room) ([]Event, bool)

	// BotMove runs one bot turn. It must no-op when the room's current seat
	// is no longer a bot or the game is not running, since bot timers are
	// never canceled.
	BotMove(r *Room) []Event
}

// HandlerRegistry maps game-type tags to their handler, resolved once at
// room creation.
type HandlerRegistry struct {
	handlers map[string]GameHandler
}

// NewHandlerRegistry returns an empty registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]GameHandler)}
}

// Register adds a handler under its game type.
func (hr *HandlerRegistry) Register(h GameHandler) {
	hr.handlers[h.GameType()] = h
}

// Resolve looks up the handler for a game type.
func (hr *HandlerRegistry) Resolve(gameType string) (GameHandler, bool) {
	h, ok := hr.handlers[gameType]
	return h, ok
}

// GameTypes lists the registered tags.
func (hr *HandlerRegistry) GameTypes() []string {
	out := make([]string, 0, len(hr.handlers))
	for t := range hr.handlers {
		out = append(out, t)
	}
	return out
}
