package state

import (
	"context"
	"fmt"

	"github.com/khaldane/Scrabble-Game/logger"
)

const (
	IDLobby   = "lobby"
	IDPlaying = "playing"
	IDEnded   = "ended"
)

// NewLobbyState creates the waiting state a room starts in.
func NewLobbyState(room SessionContext) *LobbyState {
	return &LobbyState{
		RoomStateBase: RoomStateBase{
			ID:   IDLobby,
			Room: room,
		},
	}
}

// 等待状态：玩家注册、离开，直到开始游戏
type LobbyState struct {
	RoomStateBase
}

func (s *LobbyState) OnEnter() {
	s.Room.SetStatus(StatusLobby)
}

func (s *LobbyState) HandleAction(ctx context.Context, action Action) (Outcome, error) {
	g := s.Room.Game()

	switch action.Kind {
	case ActionRegister:
		if len(g.Roster()) >= s.Room.GetMaxPlayers() {
			return Outcome{}, fmt.Errorf("%w: %d players", ErrRoomFull, s.Room.GetMaxPlayers())
		}
		id, err := g.AddPlayer()
		if err != nil {
			return Outcome{}, err
		}
		s.Room.Attach(id, action.Channel)
		logger.Log.Infof("房间 %s 玩家 %d 加入", s.Room.GetID(), id)
		s.Room.BroadcastLobby()
		return Outcome{Player: id}, nil

	case ActionUnregister:
		if err := g.RemovePlayer(action.Player); err != nil {
			return Outcome{}, err
		}
		s.Room.Detach(action.Player)
		logger.Log.Infof("房间 %s 玩家 %d 离开大厅", s.Room.GetID(), action.Player)
		s.Room.BroadcastLobby()
		return Outcome{Player: action.Player}, nil

	case ActionStart:
		return Outcome{}, s.Room.ChangeState(NewPlayingState(s.Room))

	case ActionEnd:
		return Outcome{}, s.Room.ChangeState(NewEndedState(s.Room, action.Reason, nil))
	}
	return s.reject(action)
}
