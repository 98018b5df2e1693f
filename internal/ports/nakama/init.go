package nakama

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"brettspiele/internal/app"
	"brettspiele/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and the match handler for the Nakama runtime. All
// shared state (room registry, game handlers, invite signer) is constructed
// here and injected; nothing else holds package-level state.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadServerConfig("data/server_config.json"); err != nil {
		logger.Warn("InitModule: Could not load server config, using defaults: %v", err)
	}
	cfg := config.GetServerConfig()

	handlers := app.NewHandlerRegistry()
	handlers.Register(app.NewConnectFourHandler())
	handlers.Register(app.NewSevensHandler())

	registry := app.NewRegistry(rand.New(rand.NewSource(time.Now().UnixNano())))

	inviteSecret := cfg.InviteSecret
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["brettspiele_invite_secret"]; ok && val != "" {
			inviteSecret = val
		}
	}
	invites := app.NewInviteService(inviteSecret, time.Duration(cfg.InviteTTLHours*float64(time.Hour)))

	rpcs := NewRpcs(registry, handlers, invites)
	for id, fn := range map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateRoom:    rpcs.CreateRoom,
		RpcJoinRoom:      rpcs.JoinRoom,
		RpcListRooms:     rpcs.ListRooms,
		RpcCreateInvite:  rpcs.CreateInvite,
		RpcResolveInvite: rpcs.ResolveInvite,
	} {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}

	if err := initializer.RegisterMatch(MatchNameRoom, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return NewMatchHandler(registry, handlers), nil
	}); err != nil {
		return err
	}

	logger.Info("Board game module loaded (games: %v).", handlers.GameTypes())
	return nil
}
