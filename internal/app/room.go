package app

import (
	"encoding/json"
	"errors"
	"math/rand"

	"brettspiele/internal/bot"
)

var (
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotFound    = errors.New("room does not exist")
	ErrUnsupportedGame = errors.New("game type is not supported")
)

// Palette is the fixed color set scanned in order when a requested color is
// already taken. When every palette color is in use the first entry is
// reassigned even if it collides; each handler's player cap keeps that case
// unreachable, and clients depend on the exact fallback.
var Palette = []string{
	"#e74c3c", // red
	"#3498db", // blue
	"#2ecc71", // green
	"#f1c40f", // yellow
	"#9b59b6", // purple
	"#e67e22", // orange
}

// Player is one roster seat. Username is the stable identity across
// reconnects; ID is the current connection and is rebound on rejoin. Bots
// carry a synthetic ID and never disconnect.
type Player struct {
	ID        string
	Username  string
	Color     string
	IsHost    bool
	Connected bool
	IsBot     bool
}

// Room owns one game session: the roster, turn pointer, per-seat colors,
// disconnect-grace deadlines and the bot-turn deadline. Game rules are
// delegated to the handler. A Room is driven by a single serialized loop
// (the match loop), so no internal locking is needed.
type Room struct {
	Code        string
	GameType    string
	Players     []*Player
	CurrentTurn int
	State       GameState

	handler GameHandler
	rng     *rand.Rand

	joined         bool // a player has joined at least once
	tick           int64
	graceTicks     int64
	botDelayTicks  int64
	graceDeadlines map[string]int64 // username -> tick the grace period expires
	botWaitUntil   int64            // 0 means no bot turn pending
}

// NewRoom builds a room with a fresh game state. graceTicks and botDelayTicks
// translate the disconnect grace period and bot think delay into loop ticks.
func NewRoom(code, gameType string, handler GameHandler, rng *rand.Rand, graceTicks, botDelayTicks int64) *Room {
	return &Room{
		Code:           code,
		GameType:       gameType,
		State:          handler.InitState(),
		handler:        handler,
		rng:            rng,
		graceTicks:     graceTicks,
		botDelayTicks:  botDelayTicks,
		graceDeadlines: make(map[string]int64),
	}
}

// Rng exposes the room's rng to its handler and bots. All use happens inside
// the room's serialized loop.
func (r *Room) Rng() *rand.Rand { return r.rng }

// Handler returns the active game handler.
func (r *Room) Handler() GameHandler { return r.handler }

// CurrentPlayer returns the seat at the turn pointer, or nil for an empty
// roster.
func (r *Room) CurrentPlayer() *Player {
	if len(r.Players) == 0 || r.CurrentTurn < 0 || r.CurrentTurn >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentTurn]
}

// CurrentPlayerName returns the current seat's username, or "".
func (r *Room) CurrentPlayerName() string {
	if p := r.CurrentPlayer(); p != nil {
		return p.Username
	}
	return ""
}

// Deserted reports whether no human seats remain. A room keeps running while
// any human is present (connected or in grace); bots alone never hold a room
// open.
func (r *Room) Deserted() bool {
	for _, p := range r.Players {
		if !p.IsBot {
			return false
		}
	}
	return true
}

// Abandoned reports whether the room had players and lost them all. A freshly
// created room that nobody has joined yet is not abandoned.
func (r *Room) Abandoned() bool {
	return r.joined && r.Deserted()
}

func (r *Room) findByID(connID string) int {
	for i, p := range r.Players {
		if !p.IsBot && p.ID == connID {
			return i
		}
	}
	return -1
}

func (r *Room) findByUsername(username string) int {
	for i, p := range r.Players {
		if p.Username == username {
			return i
		}
	}
	return -1
}

// HasSeat reports whether the username already holds a roster seat, meaning
// a join by that name is a rejoin.
func (r *Room) HasSeat(username string) bool {
	return r.findByUsername(username) >= 0
}

// Full reports whether every seat is taken.
func (r *Room) Full() bool {
	return len(r.Players) >= r.handler.MaxPlayers()
}

// UsernameFor resolves a connection ID to its seat's username, or "".
func (r *Room) UsernameFor(connID string) string {
	if idx := r.findByID(connID); idx >= 0 {
		return r.Players[idx].Username
	}
	return ""
}

// Roster returns the public roster view.
func (r *Room) Roster() []RosterEntry {
	out := make([]RosterEntry, len(r.Players))
	for i, p := range r.Players {
		out[i] = RosterEntry{Username: p.Username, Color: p.Color, IsHost: p.IsHost}
	}
	return out
}

// OtherIDs returns the connection IDs of every connected human except the
// named player, for notify-the-rest events.
func (r *Room) OtherIDs(exceptUsername string) []string {
	var out []string
	for _, p := range r.Players {
		if !p.IsBot && p.Connected && p.Username != exceptUsername {
			out = append(out, p.ID)
		}
	}
	return out
}

// ResolveColor applies the palette conflict rule: the requested color is kept
// unless taken, otherwise the first unused palette color is assigned, falling
// back to the first palette color when all are in use.
func (r *Room) ResolveColor(requested string) string {
	used := make(map[string]bool, len(r.Players))
	for _, p := range r.Players {
		used[p.Color] = true
	}
	if !used[requested] {
		return requested
	}
	for _, c := range Palette {
		if !used[c] {
			return c
		}
	}
	return Palette[0]
}

// Join adds a player or rebinds a returning one. A username already on the
// roster means a rejoin: the stored connection is rebound, any pending grace
// timer canceled and the current game state re-delivered. A fresh join is
// capacity- and color-checked; the first player to ever join becomes host
// with their requested color verbatim.
func (r *Room) Join(connID, username, color string) ([]Event, error) {
	if idx := r.findByUsername(username); idx >= 0 {
		return r.rejoin(idx, connID), nil
	}

	if len(r.Players) >= r.handler.MaxPlayers() {
		return nil, ErrRoomFull
	}
	r.joined = true

	p := &Player{
		ID:        connID,
		Username:  username,
		Color:     r.ResolveColor(color),
		IsHost:    len(r.Players) == 0,
		Connected: true,
	}
	r.Players = append(r.Players, p)

	events := []Event{
		{
			Kind:       EventJoinSuccess,
			Payload:    JoinSuccessPayload{RoomCode: r.Code, GameType: r.GameType},
			Recipients: []string{connID},
		},
		{
			Kind: EventPlayerJoined,
			Payload: PlayerJoinedPayload{
				Player:  RosterEntry{Username: p.Username, Color: p.Color, IsHost: p.IsHost},
				Players: r.Roster(),
			},
		},
	}
	events = append(events, r.handler.OnPlayerJoined(r)...)
	return events, nil
}

func (r *Room) rejoin(idx int, connID string) []Event {
	p := r.Players[idx]
	p.ID = connID
	p.Connected = true

	var events []Event
	if _, pending := r.graceDeadlines[p.Username]; pending {
		delete(r.graceDeadlines, p.Username)
		if others := r.OtherIDs(p.Username); len(others) > 0 {
			events = append(events, Event{
				Kind:       EventPlayerReconnected,
				Payload:    PlayerConnectionPayload{Username: p.Username},
				Recipients: others,
			})
		}
	}

	events = append(events,
		Event{
			Kind:       EventJoinSuccess,
			Payload:    JoinSuccessPayload{RoomCode: r.Code, GameType: r.GameType},
			Recipients: []string{connID},
		},
		Event{
			Kind: EventPlayerJoined,
			Payload: PlayerJoinedPayload{
				Player:  RosterEntry{Username: p.Username, Color: p.Color, IsHost: p.IsHost},
				Players: r.Roster(),
			},
		},
	)
	events = append(events, r.handler.OnPlayerReconnected(r, p.Username)...)
	return events
}

// MakeMove resolves the connection to a roster seat and enforces the turn
// pointer before delegating to the handler. Every rejection is silent.
func (r *Room) MakeMove(connID string, payload json.RawMessage) ([]Event, bool) {
	idx := r.findByID(connID)
	if idx < 0 || idx != r.CurrentTurn {
		return nil, false
	}
	return r.handler.ProcessMove(r, idx, payload)
}

// StartGame forwards the host's explicit start command.
func (r *Room) StartGame(connID string) ([]Event, bool) {
	idx := r.findByID(connID)
	if idx < 0 || !r.Players[idx].IsHost {
		return nil, false
	}
	return r.handler.StartGame(r)
}

// Restart forwards the host's restart command.
func (r *Room) Restart(connID string) ([]Event, bool) {
	idx := r.findByID(connID)
	if idx < 0 || !r.Players[idx].IsHost {
		return nil, false
	}
	return r.handler.Restart(r)
}

// RequestState re-delivers the full game snapshot to one connection.
func (r *Room) RequestState(connID string) []Event {
	idx := r.findByID(connID)
	if idx < 0 {
		return nil
	}
	return r.handler.OnPlayerReconnected(r, r.Players[idx].Username)
}

// Leave resolves an explicit departure immediately, skipping the grace
// period.
func (r *Room) Leave(connID string) []Event {
	idx := r.findByID(connID)
	if idx < 0 {
		return nil
	}
	return r.resolveDeparture(idx)
}

// MarkDisconnected handles a transport-level drop: the seat is kept but
// flagged, other members are notified, and a grace deadline starts. If the
// same username rejoins before the deadline the timer is canceled; otherwise
// Tick resolves the departure.
func (r *Room) MarkDisconnected(connID string) []Event {
	idx := r.findByID(connID)
	if idx < 0 {
		return nil
	}
	p := r.Players[idx]
	p.Connected = false
	r.graceDeadlines[p.Username] = r.tick + r.graceTicks

	if others := r.OtherIDs(p.Username); len(others) > 0 {
		return []Event{{
			Kind:       EventPlayerDisconnected,
			Payload:    PlayerConnectionPayload{Username: p.Username},
			Recipients: others,
		}}
	}
	return nil
}

// ScheduleBot arms the bot-turn deadline. The deadline is never canceled;
// BotMove re-validates against current state when it fires.
func (r *Room) ScheduleBot() {
	r.botWaitUntil = r.tick + r.botDelayTicks
}

// Tick advances the room clock and fires due deadlines: expired grace
// periods resolve the departure, and a due bot deadline runs one bot turn.
// Fired deadlines whose target has since vanished no-op.
func (r *Room) Tick(tick int64) []Event {
	r.tick = tick

	var events []Event
	for username, deadline := range r.graceDeadlines {
		if tick < deadline {
			continue
		}
		delete(r.graceDeadlines, username)
		if idx := r.findByUsername(username); idx >= 0 && !r.Players[idx].Connected {
			events = append(events, r.resolveDeparture(idx)...)
		}
	}

	if r.botWaitUntil != 0 && tick >= r.botWaitUntil {
		r.botWaitUntil = 0
		if p := r.CurrentPlayer(); p != nil && p.IsBot {
			events = append(events, r.handler.BotMove(r)...)
		}
	}
	return events
}

// resolveDeparture removes the seat and repairs the room around it: host
// promotion to the next roster entry, turn-pointer clamping, and the
// handler's leave hook or the default departure broadcast.
func (r *Room) resolveDeparture(idx int) []Event {
	p := r.Players[idx]
	delete(r.graceDeadlines, p.Username)
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if r.Deserted() {
		return nil
	}

	if p.IsHost {
		r.Players[0].IsHost = true
	}
	if r.CurrentTurn >= len(r.Players) {
		r.CurrentTurn = 0
	}

	if events, handled := r.handler.OnPlayerLeft(r, p.Username, idx); handled {
		return events
	}
	return []Event{{
		Kind: EventPlayerLeft,
		Payload: PlayerLeftPayload{
			Username:      p.Username,
			Players:       r.Roster(),
			CurrentPlayer: r.CurrentPlayerName(),
		},
	}}
}

// AddBot appends a synthetic seat. Bots get palette colors via the same
// conflict rule and never count as host.
func (r *Room) AddBot() *Player {
	p := r.newBot(r.freeBotIndex())
	r.Players = append(r.Players, p)
	return p
}

// InsertBot places a fresh bot at the given roster index.
func (r *Room) InsertBot(seat int) *Player {
	p := r.newBot(r.freeBotIndex())

	r.Players = append(r.Players, nil)
	copy(r.Players[seat+1:], r.Players[seat:])
	r.Players[seat] = p
	return p
}

// freeBotIndex picks the first bot identity whose display name is not on
// the roster, so a human using a bot-style name never collides.
func (r *Room) freeBotIndex() int {
	index := 0
	for r.findByUsername(bot.Name(index)) >= 0 {
		index++
	}
	return index
}

func (r *Room) newBot(index int) *Player {
	return &Player{
		ID:        bot.ID(index),
		Username:  bot.Name(index),
		Color:     r.ResolveColor(Palette[0]),
		Connected: true,
		IsBot:     true,
	}
}

// DropBots removes every bot seat, keeping human join order.
func (r *Room) DropBots() {
	kept := r.Players[:0]
	for _, p := range r.Players {
		if !p.IsBot {
			kept = append(kept, p)
		}
	}
	r.Players = kept
}

// RoomSnapshot is the read-only view served by the diagnostics listing.
type RoomSnapshot struct {
	Code        string        `json:"code"`
	GameType    string        `json:"gameType"`
	Players     []RosterEntry `json:"players"`
	CurrentTurn int           `json:"currentTurn"`
}

// Snapshot captures the room's public state.
func (r *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		Code:        r.Code,
		GameType:    r.GameType,
		Players:     r.Roster(),
		CurrentTurn: r.CurrentTurn,
	}
}
