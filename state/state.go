package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// 状态机接口
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(fromID, toID string, condition func() bool) error
}

// 状态接口
type State interface {
	OnEnter()
	OnExit()
	GetID() string
	HandleAction(ctx context.Context, action Action) (Outcome, error)
}

// ErrInvalidStateTransition is returned for a transition that is not
// registered, whose condition fails, or for a command the current state
// does not accept.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// 基础状态机实现，只允许登记过的转换
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
	mutex        sync.RWMutex
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

// ChangeState runs OnExit/OnEnter outside the lock so hooks may inspect
// the machine or trigger the next transition.
func (sm *BaseStateMachine) ChangeState(newState State) error {
	sm.mutex.Lock()
	oldState := sm.currentState
	currentID := oldState.GetID()
	newID := newState.GetID()

	condition, exists := sm.transitions[currentID][newID]
	if !exists {
		sm.mutex.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, currentID, newID)
	}
	if condition != nil && !condition() {
		sm.mutex.Unlock()
		return fmt.Errorf("%w: %s -> %s not allowed now", ErrInvalidStateTransition, currentID, newID)
	}
	sm.currentState = newState
	sm.mutex.Unlock()

	oldState.OnExit()
	newState.OnEnter()
	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(fromID, toID string, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}

// NewSessionStateMachine starts room in the lobby and registers the
// lobby -> playing -> ended lifecycle.
func NewSessionStateMachine(room SessionContext) *BaseStateMachine {
	sm := NewBaseStateMachine(NewLobbyState(room))
	sm.AddTransition(IDLobby, IDPlaying, func() bool {
		return len(room.Game().Roster()) > 0
	})
	sm.AddTransition(IDLobby, IDEnded, nil)
	sm.AddTransition(IDPlaying, IDEnded, nil)
	return sm
}

// 房间状态基础结构
type RoomStateBase struct {
	ID   string
	Room SessionContext
}

func (s *RoomStateBase) GetID() string {
	return s.ID
}

func (s *RoomStateBase) OnEnter() {
	// 默认实现
}

func (s *RoomStateBase) OnExit() {
	// 默认实现
}

// HandleAction rejects every command; concrete states override it.
func (s *RoomStateBase) HandleAction(ctx context.Context, action Action) (Outcome, error) {
	return s.reject(action)
}

func (s *RoomStateBase) reject(action Action) (Outcome, error) {
	return Outcome{}, fmt.Errorf("%w: %s while %s", ErrInvalidStateTransition, action.Kind, s.ID)
}
