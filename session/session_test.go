package session

import (
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mu     sync.Mutex
	sent   []network.Packet
	closed bool
}

func (m *MockConnection) Send(msgID uint16, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, network.Packet{MsgID: msgID, Data: data, Length: uint16(len(data))})
	return nil
}

func (m *MockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func (m *MockConnection) packets() []network.Packet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]network.Packet, len(m.sent))
	copy(out, m.sent)
	return out
}

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByRoom(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.Bind("room-a", 1)

	sess2 := NewSession("session2", &MockConnection{})
	sess2.Bind("room-b", 1)

	sess3 := NewSession("session3", &MockConnection{})
	sess3.Bind("room-a", 2)

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	if got := len(manager.GetByRoom("room-a")); got != 2 {
		t.Errorf("Expected 2 sessions in room-a, got %d", got)
	}
	if got := len(manager.GetByRoom("room-b")); got != 1 {
		t.Errorf("Expected 1 session in room-b, got %d", got)
	}
	if got := len(manager.GetByRoom("room-c")); got != 0 {
		t.Errorf("Expected 0 sessions in room-c, got %d", got)
	}
}

func TestSession_BindUnbind(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	sess.Bind("room", 3)

	roomID, playerID := sess.Binding()
	if roomID != "room" || playerID != 3 {
		t.Errorf("Expected room/3, got %s/%d", roomID, playerID)
	}

	sess.Unbind()
	if roomID, _ := sess.Binding(); roomID != "" {
		t.Errorf("Expected no room after Unbind, got %s", roomID)
	}
}

func TestSession_NotifyPreservesOrder(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("push", conn)

	sess.NotifyLobby(game.LobbySnapshot{Players: 2, Roster: []game.PlayerID{1, 2}})
	sess.Notify(game.Snapshot{PlayerID: 1, YourTurn: true, RemainingTiles: 84})
	sess.Send(network.MsgTypeError, []byte(`{"error":"x"}`))

	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	packets := conn.packets()
	if len(packets) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(packets))
	}
	wantIDs := []uint16{network.MsgTypeLobbyState, network.MsgTypeGameState, network.MsgTypeError}
	for i, p := range packets {
		if p.MsgID != wantIDs[i] {
			t.Errorf("Frame %d: expected message %d, got %d", i, wantIDs[i], p.MsgID)
		}
	}

	var snap game.Snapshot
	if err := json.Unmarshal(packets[1].Data, &snap); err != nil {
		t.Fatalf("Snapshot is not valid JSON: %v", err)
	}
	if !snap.YourTurn || snap.RemainingTiles != 84 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
	if !conn.closed {
		t.Error("Close should close the connection")
	}
}
