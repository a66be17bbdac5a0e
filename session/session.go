// session/session.go
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/khaldane/Scrabble-Game/broadcast"
	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/network"
)

type frame struct {
	msgID   uint16
	raw     []byte
	payload any
}

// Session 一条客户端连接，绑定到某个房间里的某个玩家后即是该玩家的推送通道
type Session struct {
	ID         string
	Conn       network.Connection
	CreatedAt  time.Time
	LastActive time.Time

	roomID   string
	playerID game.PlayerID
	outbox   *broadcast.Mailbox[frame]
	mutex    sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	s := &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
	s.outbox = broadcast.NewMailbox(s.write)
	return s
}

func (s *Session) write(f frame) error {
	data := f.raw
	if f.payload != nil {
		var err error
		data, err = json.Marshal(f.payload)
		if err != nil {
			logger.Log.Errorf("Session %s: marshal message %d: %v", s.ID, f.msgID, err)
			return nil
		}
	}
	if err := s.Conn.Send(f.msgID, data); err != nil {
		logger.Log.Warnf("Session %s: send message %d: %v", s.ID, f.msgID, err)
		return err
	}
	return nil
}

// Send queues a raw frame behind any pending pushes.
func (s *Session) Send(msgID uint16, data []byte) error {
	return s.outbox.Post(frame{msgID: msgID, raw: data})
}

// SendJSON queues v to be JSON encoded on the writer goroutine.
func (s *Session) SendJSON(msgID uint16, v any) error {
	return s.outbox.Post(frame{msgID: msgID, payload: v})
}

// Notify implements game.Channel.
func (s *Session) Notify(snap game.Snapshot) {
	if err := s.SendJSON(network.MsgTypeGameState, snap); err != nil {
		logger.Log.Debugf("Session %s: dropped game snapshot: %v", s.ID, err)
	}
}

// NotifyLobby implements game.Channel.
func (s *Session) NotifyLobby(snap game.LobbySnapshot) {
	if err := s.SendJSON(network.MsgTypeLobbyState, snap); err != nil {
		logger.Log.Debugf("Session %s: dropped lobby snapshot: %v", s.ID, err)
	}
}

// Bind records the room and player this connection plays as.
func (s *Session) Bind(roomID string, playerID game.PlayerID) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.roomID = roomID
	s.playerID = playerID
}

func (s *Session) Unbind() {
	s.Bind("", 0)
}

// Binding returns the bound room and player, empty when not in a room.
func (s *Session) Binding() (string, game.PlayerID) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.roomID, s.playerID
}

func (s *Session) Touch() {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
}

func (s *Session) GetID() string {
	return s.ID
}

// Pending is the number of queued outbound frames.
func (s *Session) Pending() int {
	return s.outbox.Len()
}

// Close flushes queued frames and closes the connection.
func (s *Session) Close() error {
	s.outbox.Close()
	select {
	case <-s.outbox.Done():
	case <-time.After(time.Second):
	}
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}

// GetByRoom returns the sessions bound to roomID.
func (m *Manager) GetByRoom(roomID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if id, _ := session.Binding(); id == roomID {
			result = append(result, session)
		}
	}
	return result
}

// CloseAll closes every connection, e.g. on shutdown.
func (m *Manager) CloseAll() {
	m.mutex.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mutex.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}
