package app

import (
	"math/rand"
	"sync"
	"time"
)

// Room codes are four digits, matching what players type in by hand.
const (
	codeMin = 1000
	codeMax = 9999
)

// RoomInfo is the registry's view of a live room. The authoritative state
// lives in the match; the registry only resolves codes and lists rooms.
type RoomInfo struct {
	Code      string    `json:"code"`
	MatchID   string    `json:"matchId"`
	GameType  string    `json:"gameType"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// Registry maps room codes to running matches. One instance is created at
// module init and shared by the RPC handlers and match factory, so all
// access goes through the mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*RoomInfo
	rng   *rand.Rand
}

func NewRegistry(rng *rand.Rand) *Registry {
	return &Registry{
		rooms: make(map[string]*RoomInfo),
		rng:   rng,
	}
}

// Allocate reserves a fresh room code. Codes are drawn at random and retried
// until unused, which stays cheap while live rooms are far below the 9000
// possible codes.
func (g *Registry) Allocate(gameType string) *RoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	var code string
	for {
		code = generateCode(g.rng)
		if _, taken := g.rooms[code]; !taken {
			break
		}
	}

	info := &RoomInfo{
		Code:      code,
		GameType:  gameType,
		CreatedAt: time.Now().UTC(),
	}
	g.rooms[code] = info
	return info
}

func generateCode(rng *rand.Rand) string {
	n := codeMin + rng.Intn(codeMax-codeMin+1)
	return itoa4(n)
}

func itoa4(n int) string {
	buf := [4]byte{}
	for i := 3; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[:])
}

// BindMatch attaches the created match to its reserved code.
func (g *Registry) BindMatch(code, matchID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if info, ok := g.rooms[code]; ok {
		info.MatchID = matchID
	}
}

// Resolve returns a copy of the room entry for a code.
func (g *Registry) Resolve(code string) (RoomInfo, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	info, ok := g.rooms[code]
	if !ok {
		return RoomInfo{}, false
	}
	return *info, true
}

// SetPlayerCount refreshes the room's listed player count.
func (g *Registry) SetPlayerCount(code string, players int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if info, ok := g.rooms[code]; ok {
		info.Players = players
	}
}

// Unregister frees the code once its match terminates.
func (g *Registry) Unregister(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, code)
}

// Snapshot lists all live rooms, for the diagnostics RPC.
func (g *Registry) Snapshot() []RoomInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]RoomInfo, 0, len(g.rooms))
	for _, info := range g.rooms {
		out = append(out, *info)
	}
	return out
}
