package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

const inviteIssuer = "brettspiele"

// InviteService signs and verifies shareable room invite tokens. An invite
// embeds the room code so a link can join without typing the code.
type InviteService struct {
	secret string
	ttl    time.Duration
}

// Invite is the verified content of an invite token.
type Invite struct {
	RoomCode string
	GameType string
}

func NewInviteService(secret string, ttl time.Duration) *InviteService {
	return &InviteService{secret: secret, ttl: ttl}
}

func (s *InviteService) Generate(roomCode, gameType string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if roomCode == "" {
		return "", fmt.Errorf("room code is required")
	}
	if s.secret == "" {
		return "", fmt.Errorf("invite secret is not configured")
	}

	claims := jwt.MapClaims{
		"iss":  inviteIssuer,
		"sub":  roomCode,
		"game": gameType,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"jti":  uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Parse verifies the signature and expiry and returns the embedded room.
func (s *InviteService) Parse(tokenString string) (Invite, error) {
	if s == nil || s.secret == "" {
		return Invite{}, fmt.Errorf("invite secret is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return Invite{}, fmt.Errorf("invalid invite token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Invite{}, fmt.Errorf("invalid invite token")
	}
	if iss, _ := claims["iss"].(string); iss != inviteIssuer {
		return Invite{}, fmt.Errorf("invalid invite issuer")
	}

	code, _ := claims["sub"].(string)
	if code == "" {
		return Invite{}, fmt.Errorf("invite token has no room code")
	}
	game, _ := claims["game"].(string)

	return Invite{RoomCode: code, GameType: game}, nil
}
