package room

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/models"
	"github.com/khaldane/Scrabble-Game/timer"
)

var ErrRoomExists = errors.New("room already exists")

// --- 房间管理器 ---

// Manager 管理所有房间
type Manager struct {
	rooms    map[string]*Room
	mutex    sync.RWMutex
	defaults Options
	endedTTL time.Duration
	timers   *timer.TimerManager
}

// NewRoomManager 创建一个新的房间管理器。结束的房间在 endedTTL 后被回收，
// endedTTL <= 0 时保留到手动删除。
func NewRoomManager(defaults Options, endedTTL time.Duration) *Manager {
	return &Manager{
		rooms:    make(map[string]*Room),
		defaults: defaults,
		endedTTL: endedTTL,
		timers:   timer.NewTimerManager(),
	}
}

// CreateRoom 创建一个新房间并添加到管理器，id 为空时生成一个
func (m *Manager) CreateRoom(id, name string) (*Room, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		name = id
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.rooms[id]; exists {
		return nil, ErrRoomExists
	}

	opts := m.defaults
	userHook := opts.OnEnded
	opts.OnEnded = func(roomID string) {
		m.scheduleReap(roomID)
		if userHook != nil {
			userHook(roomID)
		}
	}

	room := NewRoom(id, name, opts)
	m.rooms[id] = room
	m.defaults.Monitor.SetActiveRooms(len(m.rooms))
	logger.Log.Infof("创建房间 %s (%s), 最多 %d 人", id, name, room.MaxPlayers)
	return room, nil
}

// runs on the room loop, so never touch the room synchronously here
func (m *Manager) scheduleReap(roomID string) {
	if m.endedTTL <= 0 {
		return
	}
	m.timers.AddTimer(m.endedTTL, 0, func() {
		logger.Log.Debugf("回收已结束房间 %s", roomID)
		m.RemoveRoom(roomID)
	})
}

// RemoveRoom 从管理器中移除并关闭一个房间
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		room.Close()
		delete(m.rooms, id)
		m.defaults.Monitor.SetActiveRooms(len(m.rooms))
	}
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// Lookup is GetRoom returning ErrRoomNotFound.
func (m *Manager) Lookup(id string) (*Room, error) {
	if room, ok := m.GetRoom(id); ok {
		return room, nil
	}
	return nil, ErrRoomNotFound
}

func (m *Manager) all() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r)
	}
	return out
}

// List returns every live room, oldest first.
func (m *Manager) List(ctx context.Context) []models.RoomInfo {
	var infos []models.RoomInfo
	for _, r := range m.all() {
		info, err := r.Info(ctx)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	slices.SortFunc(infos, func(a, b models.RoomInfo) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return infos
}

// FindAvailableRoom 查找一个还在大厅且未满的房间
func (m *Manager) FindAvailableRoom(ctx context.Context) *Room {
	for _, info := range m.List(ctx) {
		if !info.Joinable() {
			continue
		}
		if room, ok := m.GetRoom(info.ID); ok {
			return room
		}
	}
	return nil
}

// Count 房间数量
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Close stops every room and the reaper.
func (m *Manager) Close() {
	m.timers.Stop()

	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id, room := range m.rooms {
		room.Close()
		delete(m.rooms, id)
	}
	m.defaults.Monitor.SetActiveRooms(0)
}
