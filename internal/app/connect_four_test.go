package app

import (
	"fmt"
	"testing"

	"brettspiele/internal/domain"
)

func connIDFor(room *Room, username string) string {
	for _, p := range room.Players {
		if p.Username == username {
			return p.ID
		}
	}
	return ""
}

func TestConnectFourStartsWhenSecondPlayerJoins(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())

	events, err := room.Join("conn-1", "alice", "")
	if err != nil {
		t.Fatalf("Join(alice) failed: %v", err)
	}
	if hasKind(events, EventMoveUpdate) {
		t.Fatalf("Game must not start with one player")
	}

	events, err = room.Join("conn-2", "bob", "")
	if err != nil {
		t.Fatalf("Join(bob) failed: %v", err)
	}
	if !hasKind(events, EventMoveUpdate) {
		t.Fatalf("Expected start notice on second join, got %v", eventKinds(events))
	}

	for _, ev := range events {
		if ev.Kind != EventMoveUpdate {
			continue
		}
		p := ev.Payload.(GridMoveUpdatePayload)
		if p.Column != nil || p.Row != nil || p.Player != nil {
			t.Fatalf("Start notice must carry no placement, got %+v", p)
		}
		if p.NextPlayer != "alice" && p.NextPlayer != "bob" {
			t.Fatalf("Unexpected starting player %q", p.NextPlayer)
		}
	}
}

func TestConnectFourVerticalWin(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())
	room.Join("conn-1", "alice", "")
	room.Join("conn-2", "bob", "")

	// The starting player stacks column 0; the other alternates columns so
	// no accidental line forms.
	first := room.CurrentPlayerName()
	var last []Event
	for i := 0; i < 7; i++ {
		current := room.CurrentPlayer()
		column := 0
		if current.Username != first {
			column = 1 + i%2
		}
		events, ok := room.MakeMove(current.ID, []byte(fmt.Sprintf(`{"column":%d}`, column)))
		if !ok {
			t.Fatalf("Move %d rejected", i)
		}
		last = events
		if hasKind(events, EventGameOver) {
			break
		}
	}

	if !hasKind(last, EventGameOver) {
		t.Fatalf("Expected a vertical win within 7 moves")
	}
	for _, ev := range last {
		if ev.Kind != EventGameOver {
			continue
		}
		p := ev.Payload.(GridGameOverPayload)
		if p.Winner == nil || *p.Winner != first {
			t.Fatalf("Expected %q to win, got %+v", first, p.Winner)
		}
		if len(p.WinningCells) != 4 {
			t.Fatalf("Expected 4 winning cells, got %d", len(p.WinningCells))
		}
	}
}

func TestConnectFourAlternatesTurns(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())
	room.Join("conn-1", "alice", "")
	room.Join("conn-2", "bob", "")

	for i := 0; i < 4; i++ {
		current := room.CurrentPlayer()
		events, ok := room.MakeMove(current.ID, []byte(fmt.Sprintf(`{"column":%d}`, i)))
		if !ok {
			t.Fatalf("Move %d rejected", i)
		}
		next := room.CurrentPlayer()
		if next.Username == current.Username {
			t.Fatalf("Turn did not pass after move %d", i)
		}
		for _, ev := range events {
			if ev.Kind != EventMoveUpdate {
				continue
			}
			p := ev.Payload.(GridMoveUpdatePayload)
			if p.NextPlayer != next.Username {
				t.Fatalf("moveUpdate nextPlayer = %q, want %q", p.NextPlayer, next.Username)
			}
		}
	}
}

func TestConnectFourRejectsFullColumn(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())
	room.Join("conn-1", "alice", "")
	room.Join("conn-2", "bob", "")

	for i := 0; i < domain.GridRows; i++ {
		if _, ok := room.MakeMove(room.CurrentPlayer().ID, []byte(`{"column":2}`)); !ok {
			t.Fatalf("Fill move %d rejected", i)
		}
	}
	if _, ok := room.MakeMove(room.CurrentPlayer().ID, []byte(`{"column":2}`)); ok {
		t.Fatalf("Expected drop into a full column to be rejected")
	}
}

func TestConnectFourRejectsMalformedMove(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())
	room.Join("conn-1", "alice", "")
	room.Join("conn-2", "bob", "")

	if _, ok := room.MakeMove(room.CurrentPlayer().ID, []byte(`not json`)); ok {
		t.Fatalf("Expected malformed payload to be rejected")
	}
	if _, ok := room.MakeMove(room.CurrentPlayer().ID, []byte(`{"column":99}`)); ok {
		t.Fatalf("Expected out-of-range column to be rejected")
	}
}

func TestConnectFourRestartResetsBoard(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())
	room.Join("conn-1", "alice", "")
	room.Join("conn-2", "bob", "")

	room.MakeMove(room.CurrentPlayer().ID, []byte(`{"column":0}`))

	events, ok := room.Restart(connIDFor(room, "alice"))
	if !ok {
		t.Fatalf("Host restart rejected")
	}
	if !hasKind(events, EventGameRestarted) {
		t.Fatalf("Expected gameRestarted, got %v", eventKinds(events))
	}

	state := room.State.(*domain.GridState)
	if state.Moves != 0 {
		t.Fatalf("Expected fresh board after restart, got %d moves", state.Moves)
	}
	for col := 0; col < domain.GridCols; col++ {
		if state.Board[domain.GridRows-1][col] != nil {
			t.Fatalf("Expected empty bottom row after restart")
		}
	}
}

func TestConnectFourReconnectSnapshotIsUnicast(t *testing.T) {
	room := newTestRoom(t, NewConnectFourHandler())
	room.Join("conn-1", "alice", "")
	room.Join("conn-2", "bob", "")
	room.MakeMove(room.CurrentPlayer().ID, []byte(`{"column":3}`))

	events := room.RequestState("conn-2")
	if len(events) != 1 || events[0].Kind != EventGameState {
		t.Fatalf("Expected one gameState event, got %v", eventKinds(events))
	}
	if len(events[0].Recipients) != 1 || events[0].Recipients[0] != "conn-2" {
		t.Fatalf("Expected unicast to conn-2, got %v", events[0].Recipients)
	}
	p := events[0].Payload.(GridStatePayload)
	if p.GameState.Moves != 1 {
		t.Fatalf("Expected snapshot to carry 1 move, got %d", p.GameState.Moves)
	}
	if p.CurrentPlayer != room.CurrentPlayerName() {
		t.Fatalf("Snapshot currentPlayer = %q, want %q", p.CurrentPlayer, room.CurrentPlayerName())
	}
}
