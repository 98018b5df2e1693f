package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"brettspiele/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama RPC errors carry gRPC status codes.
var (
	errBadPayload   = runtime.NewError("invalid request payload", 3)
	errUnknownGame  = runtime.NewError("unknown game type", 3)
	errRoomNotFound = runtime.NewError("room does not exist", 5)
	errInternal     = runtime.NewError("internal server error", 13)
	errBadInvite    = runtime.NewError("invalid invite token", 16)
)

// Rpcs bundles the RPC handlers with their injected dependencies.
type Rpcs struct {
	registry *app.Registry
	handlers *app.HandlerRegistry
	invites  *app.InviteService
}

func NewRpcs(registry *app.Registry, handlers *app.HandlerRegistry, invites *app.InviteService) *Rpcs {
	return &Rpcs{registry: registry, handlers: handlers, invites: invites}
}

type createRoomRequest struct {
	GameType string `json:"gameType"`
}

type createRoomResponse struct {
	RoomCode string `json:"roomCode"`
	MatchID  string `json:"matchId"`
	GameType string `json:"gameType"`
}

// CreateRoom allocates a room code and spins up its authoritative match.
// The client then joins the returned match over its realtime socket.
func (r *Rpcs) CreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req createRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errBadPayload
	}
	if _, ok := r.handlers.Resolve(req.GameType); !ok {
		logger.Warn("CreateRoom [User:%s]: Unknown game type %q", userId, req.GameType)
		return "", errUnknownGame
	}

	info := r.registry.Allocate(req.GameType)

	matchId, err := nk.MatchCreate(ctx, MatchNameRoom, map[string]interface{}{
		"code":      info.Code,
		"game_type": req.GameType,
	})
	if err != nil {
		logger.Error("CreateRoom [User:%s]: Failed to create match: %v", userId, err)
		r.registry.Unregister(info.Code)
		return "", errInternal
	}
	r.registry.BindMatch(info.Code, matchId)

	logger.Info("CreateRoom [User:%s]: Room %s (%s) -> match %s", userId, info.Code, req.GameType, matchId)

	resp, err := json.Marshal(createRoomResponse{
		RoomCode: info.Code,
		MatchID:  matchId,
		GameType: req.GameType,
	})
	if err != nil {
		return "", errInternal
	}
	return string(resp), nil
}

type joinRoomRequest struct {
	RoomCode string `json:"roomCode"`
}

type joinRoomResponse struct {
	RoomCode string `json:"roomCode"`
	MatchID  string `json:"matchId"`
	GameType string `json:"gameType"`
}

// JoinRoom resolves a room code to its match ID. Seat assignment happens
// when the client joins the match over its socket.
func (r *Rpcs) JoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req joinRoomRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errBadPayload
	}

	info, ok := r.registry.Resolve(req.RoomCode)
	if !ok {
		return "", errRoomNotFound
	}

	resp, err := json.Marshal(joinRoomResponse{
		RoomCode: info.Code,
		MatchID:  info.MatchID,
		GameType: info.GameType,
	})
	if err != nil {
		return "", errInternal
	}
	return string(resp), nil
}

// ListRooms returns every live room, for diagnostics.
func (r *Rpcs) ListRooms(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	resp, err := json.Marshal(r.registry.Snapshot())
	if err != nil {
		return "", errInternal
	}
	return string(resp), nil
}

type createInviteRequest struct {
	RoomCode string `json:"roomCode"`
}

type createInviteResponse struct {
	Token string `json:"token"`
}

// CreateInvite signs a shareable invite token for a live room.
func (r *Rpcs) CreateInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req createInviteRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errBadPayload
	}

	info, ok := r.registry.Resolve(req.RoomCode)
	if !ok {
		return "", errRoomNotFound
	}

	token, err := r.invites.Generate(info.Code, info.GameType)
	if err != nil {
		logger.Error("CreateInvite: Failed to sign token for room %s: %v", info.Code, err)
		return "", errInternal
	}

	resp, err := json.Marshal(createInviteResponse{Token: token})
	if err != nil {
		return "", errInternal
	}
	return string(resp), nil
}

type resolveInviteRequest struct {
	Token string `json:"token"`
}

// ResolveInvite verifies an invite token and resolves it like a join_room
// call, so invite links land directly in the room.
func (r *Rpcs) ResolveInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req resolveInviteRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", errBadPayload
	}

	invite, err := r.invites.Parse(req.Token)
	if err != nil {
		return "", errBadInvite
	}

	info, ok := r.registry.Resolve(invite.RoomCode)
	if !ok {
		return "", errRoomNotFound
	}

	resp, err := json.Marshal(joinRoomResponse{
		RoomCode: info.Code,
		MatchID:  info.MatchID,
		GameType: info.GameType,
	})
	if err != nil {
		return "", errInternal
	}
	return string(resp), nil
}
