package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type ServerConfig struct {
	// DisconnectGraceSeconds is how long a dropped player keeps their seat
	// before being removed from the room.
	DisconnectGraceSeconds int `json:"disconnect_grace_seconds"`
	// BotDelaySeconds configures how many seconds a bot waits before making
	// its move, so turns stay readable for humans.
	BotDelaySeconds int     `json:"bot_delay_seconds"`
	TickRate        int     `json:"tick_rate"`
	InviteSecret    string  `json:"invite_secret"`
	InviteTTLHours  float64 `json:"invite_ttl_hours"`
}

var (
	cfg      *ServerConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no config file is provided.
func Default() *ServerConfig {
	return &ServerConfig{
		DisconnectGraceSeconds: 3,
		BotDelaySeconds:        1,
		TickRate:               10,
		InviteTTLHours:         24,
	}
}

// LoadServerConfig loads the server configuration from the given path.
func LoadServerConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read server config: %w", err)
			return
		}

		c := Default()
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal server config: %w", err)
			return
		}
		cfg = c
	})
	return loadErr
}

// GetServerConfig returns the loaded configuration, or the defaults when no
// config file was loaded.
func GetServerConfig() *ServerConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

// GraceTicks converts the disconnect grace into match loop ticks.
func (c *ServerConfig) GraceTicks() int64 {
	return int64(c.DisconnectGraceSeconds * c.TickRate)
}

// BotDelayTicks converts the bot delay into match loop ticks.
func (c *ServerConfig) BotDelayTicks() int64 {
	return int64(c.BotDelaySeconds * c.TickRate)
}
