package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"time"

	"brettspiele/internal/app"
	"brettspiele/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchLabel is published as JSON so room listings can filter on game type
// and open seats.
type matchLabel struct {
	Code string `json:"code"`
	Game string `json:"game"`
	Open int    `json:"open"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Room      *app.Room                   `json:"-"` // Room orchestrator with roster and game state
	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	Pending   map[string]joinMeta         `json:"-"` // Join metadata stashed between attempt and join
}

// joinMeta carries the display name and color the client sent with its join
// attempt; MatchJoin has no metadata access of its own.
type joinMeta struct {
	Username string
	Color    string
}

type matchHandler struct {
	registry *app.Registry
	handlers *app.HandlerRegistry
}

// NewMatchHandler builds the match handler with its injected room registry
// and game handler registry.
func NewMatchHandler(registry *app.Registry, handlers *app.HandlerRegistry) runtime.Match {
	return &matchHandler{registry: registry, handlers: handlers}
}

// MatchInit is called when the match is created. Params carry the room code
// and game type allocated by the create_room RPC.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	code, _ := params["code"].(string)
	gameType, _ := params["game_type"].(string)

	handler, ok := mh.handlers.Resolve(gameType)
	if !ok {
		logger.Error("MatchInit: Unknown game type %q", gameType)
		return nil, 0, ""
	}

	cfg := config.GetServerConfig()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	room := app.NewRoom(code, gameType, handler, rng, cfg.GraceTicks(), cfg.BotDelayTicks())

	state := &MatchState{
		Room:      room,
		Presences: make(map[string]runtime.Presence),
		Pending:   make(map[string]joinMeta),
	}

	labelBytes, err := json.Marshal(matchLabel{Code: code, Game: gameType, Open: handler.MaxPlayers()})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	logger.Info("MatchInit: Room %s (%s) created.", code, gameType)
	return state, cfg.TickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	username := metadata["username"]
	if username == "" {
		username = presence.GetUsername()
	}

	// Rejoins bypass the capacity check; the seat is still held.
	if !matchState.Room.HasSeat(username) && matchState.Room.Full() {
		return state, false, "Room full"
	}

	matchState.Pending[presence.GetUserId()] = joinMeta{
		Username: username,
		Color:    metadata["color"],
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		meta, ok := matchState.Pending[userID]
		if !ok {
			meta = joinMeta{Username: p.GetUsername()}
		}
		delete(matchState.Pending, userID)

		events, err := matchState.Room.Join(userID, meta.Username, meta.Color)
		if err != nil {
			logger.Warn("MatchJoin: %s could not take a seat: %v", meta.Username, err)
			mh.sendError(matchState, dispatcher, logger, userID, err.Error())
			continue
		}
		mh.broadcastEvents(matchState, dispatcher, logger, events)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.registry.SetPlayerCount(matchState.Room.Code, len(matchState.Room.Players))

	return matchState
}

// MatchLeave is called when a connection drops or is kicked. Explicit leaves
// already removed the seat in MatchLoop; anything still on the roster is a
// transport drop and starts the grace period.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		delete(matchState.Pending, userID)

		events := matchState.Room.MarkDisconnected(userID)
		mh.broadcastEvents(matchState, dispatcher, logger, events)
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}
	room := matchState.Room

	// Expired grace deadlines and due bot turns fire before new input.
	mh.broadcastEvents(matchState, dispatcher, logger, room.Tick(tick))

	for _, msg := range messages {
		userID := msg.GetUserId()
		switch msg.GetOpCode() {
		case OpLeaveRoom:
			events := room.Leave(userID)
			mh.broadcastEvents(matchState, dispatcher, logger, events)
			if p, ok := matchState.Presences[userID]; ok {
				if err := dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
					logger.Error("MatchLoop: Failed to kick %s: %v", userID, err)
				}
			}
		case OpMakeMove:
			events, ok := room.MakeMove(userID, msg.GetData())
			if !ok {
				mh.sendError(matchState, dispatcher, logger, userID, "invalid move")
				continue
			}
			mh.broadcastEvents(matchState, dispatcher, logger, events)
		case OpRestartGame:
			events, ok := room.Restart(userID)
			if !ok {
				mh.sendError(matchState, dispatcher, logger, userID, "restart not allowed")
				continue
			}
			mh.broadcastEvents(matchState, dispatcher, logger, events)
		case OpStartGame:
			events, ok := room.StartGame(userID)
			if !ok {
				mh.sendError(matchState, dispatcher, logger, userID, "start not allowed")
				continue
			}
			mh.broadcastEvents(matchState, dispatcher, logger, events)
		case OpRequestGameState:
			mh.broadcastEvents(matchState, dispatcher, logger, room.RequestState(userID))
		case OpHoverUpdate:
			mh.relayHover(matchState, dispatcher, logger, userID, msg.GetData())
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if room.Abandoned() {
		logger.Info("MatchLoop: Room %s has no humans left, terminating.", room.Code)
		mh.registry.Unregister(room.Code)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.registry.SetPlayerCount(room.Code, len(room.Players))

	return matchState
}

// relayHover forwards a column hover to everyone else in the room. The
// payload is untrusted pass-through and never touches game state.
func (mh *matchHandler) relayHover(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, data []byte) {
	username := state.Room.UsernameFor(userID)
	if username == "" {
		return
	}

	var hover struct {
		Column *int `json:"column"`
	}
	if err := json.Unmarshal(data, &hover); err != nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"username": username,
		"column":   hover.Column,
	})
	if err != nil {
		return
	}

	recipients := mh.resolvePresences(state, state.Room.OtherIDs(username))
	if len(recipients) == 0 {
		return
	}
	if err := dispatcher.BroadcastMessage(OpHoverRelay, payload, recipients, nil, true); err != nil {
		logger.Error("Failed to relay hover: %v", err)
	}
}

func (mh *matchHandler) broadcastEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := opCodeFor(ev.Kind)
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		recipients = mh.resolvePresences(state, ev.Recipients)

		// If we had intended recipients but none are connected (e.g. they
		// dropped or are bots), we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) resolvePresences(state *MatchState, userIDs []string) []runtime.Presence {
	var out []runtime.Presence
	for _, uid := range userIDs {
		if p, ok := state.Presences[uid]; ok {
			out = append(out, p)
		}
	}
	return out
}

func opCodeFor(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventJoinSuccess:
		return OpJoinSuccess, true
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventPlayerDisconnected:
		return OpPlayerDisconnected, true
	case app.EventPlayerReconnected:
		return OpPlayerReconnected, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventMoveUpdate:
		return OpMoveUpdate, true
	case app.EventGameOver:
		return OpGameOver, true
	case app.EventGameRestarted:
		return OpGameRestarted, true
	case app.EventGameState:
		return OpGameState, true
	case app.EventError:
		return OpGameError, true
	}
	return 0, false
}

// sendError sends an error payload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	bytes, err := json.Marshal(app.ErrorPayload{Message: message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	room := state.Room
	open := room.Handler().MaxPlayers() - len(room.Players)
	if open < 0 {
		open = 0
	}

	labelBytes, err := json.Marshal(matchLabel{Code: room.Code, Game: room.GameType, Open: open})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		mh.registry.Unregister(matchState.Room.Code)
	}
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

// MatchSignal serves the room's public snapshot, for diagnostics.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	snapshot, err := json.Marshal(matchState.Room.Snapshot())
	if err != nil {
		logger.Error("MatchSignal: Failed to marshal snapshot: %v", err)
		return matchState, ""
	}
	return matchState, string(snapshot)
}
