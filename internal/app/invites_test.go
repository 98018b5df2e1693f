package app

import (
	"strings"
	"testing"
	"time"
)

func TestInviteRoundTrip(t *testing.T) {
	svc := NewInviteService("test-secret", time.Hour)

	token, err := svc.Generate("4711", GameTypeSevens)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	invite, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if invite.RoomCode != "4711" {
		t.Fatalf("RoomCode = %q, want 4711", invite.RoomCode)
	}
	if invite.GameType != GameTypeSevens {
		t.Fatalf("GameType = %q, want %q", invite.GameType, GameTypeSevens)
	}
}

func TestInviteRejectsTamperedToken(t *testing.T) {
	svc := NewInviteService("test-secret", time.Hour)

	token, err := svc.Generate("4711", GameTypeSevens)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("Expected a three-part JWT, got %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, err := svc.Parse(tampered); err == nil {
		t.Fatalf("Expected tampered token to be rejected")
	}
}

func TestInviteRejectsWrongSecret(t *testing.T) {
	token, err := NewInviteService("secret-a", time.Hour).Generate("4711", GameTypeSevens)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := NewInviteService("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatalf("Expected token signed with a different secret to be rejected")
	}
}

func TestInviteRejectsExpiredToken(t *testing.T) {
	svc := NewInviteService("test-secret", -time.Minute)

	token, err := svc.Generate("4711", GameTypeSevens)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Fatalf("Expected expired token to be rejected")
	}
}

func TestInviteRequiresConfiguration(t *testing.T) {
	if _, err := NewInviteService("", time.Hour).Generate("4711", GameTypeSevens); err == nil {
		t.Fatalf("Expected missing secret to fail generation")
	}
	if _, err := NewInviteService("test-secret", time.Hour).Generate("", GameTypeSevens); err == nil {
		t.Fatalf("Expected missing room code to fail generation")
	}
}
