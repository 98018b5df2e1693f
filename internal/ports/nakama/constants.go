package nakama

const (
	// MatchNameRoom is the authoritative match handler name registered with Nakama.
	MatchNameRoom = "game_room"

	// RPC ids clients call over the Nakama API.
	RpcCreateRoom    = "create_room"
	RpcJoinRoom      = "join_room"
	RpcListRooms     = "list_rooms"
	RpcCreateInvite  = "create_invite"
	RpcResolveInvite = "resolve_invite"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpLeaveRoom        int64 = 1
	OpMakeMove         int64 = 2
	OpRestartGame      int64 = 3
	OpStartGame        int64 = 4
	OpRequestGameState int64 = 5
	OpHoverUpdate      int64 = 6

	// Server -> Client events
	OpJoinSuccess        int64 = 100 // send privately
	OpPlayerJoined       int64 = 101
	OpPlayerLeft         int64 = 102
	OpGameStarted        int64 = 103
	OpHandDealt          int64 = 104 // send privately
	OpMoveUpdate         int64 = 105
	OpGameOver           int64 = 106
	OpGameRestarted      int64 = 107
	OpPlayerDisconnected int64 = 108
	OpPlayerReconnected  int64 = 109
	OpGameState          int64 = 110 // send privately
	OpHoverRelay         int64 = 111
	OpGameError          int64 = 112 // send privately
)
