// state/interfaces.go
package state

import (
	"errors"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/game"
)

// ErrRoomFull 房间人数已满
var ErrRoomFull = errors.New("room is full")

// Status 房间的业务状态
type Status int

const (
	StatusLobby Status = iota
	StatusInProgress
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusLobby:
		return "lobby"
	case StatusInProgress:
		return "in_progress"
	case StatusEnded:
		return "ended"
	}
	return "unknown"
}

// ActionKind 玩家或管理端发给房间的命令
type ActionKind int

const (
	ActionRegister ActionKind = iota
	ActionUnregister
	ActionStart
	ActionPlace
	ActionEnd
)

func (k ActionKind) String() string {
	switch k {
	case ActionRegister:
		return "register"
	case ActionUnregister:
		return "unregister"
	case ActionStart:
		return "start"
	case ActionPlace:
		return "place"
	case ActionEnd:
		return "end"
	}
	return "unknown"
}

// Action carries the arguments of one command. Only the fields relevant
// to Kind are read.
type Action struct {
	Kind    ActionKind
	Player  game.PlayerID
	Channel game.Channel
	Cells   []board.Cell
	Reason  string
}

// Outcome is what a command produced.
type Outcome struct {
	Player game.PlayerID
	Turn   *game.Turn
}

// SessionContext defines what a Room must offer the states.
// This breaks the import cycle between room and state.
type SessionContext interface {
	GetID() string
	GetMaxPlayers() int
	Game() *game.Session
	ChangeState(newState State) error
	SetStatus(status Status)
	Attach(id game.PlayerID, ch game.Channel)
	Detach(id game.PlayerID)
	BroadcastLobby()
	BroadcastGame(turn *game.Turn)
	Publish(kind string, turn *game.Turn)
	OnEnded()
}
