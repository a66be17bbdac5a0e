package state

import (
	"context"

	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/logger"
)

// 结束原因
const (
	ReasonPlayerLeft     = "player left the game"
	ReasonSupplyEmpty    = "tile supply empty"
	ReasonEndedByRequest = "game ended"
)

// 事件类型
const (
	EventGameStarted  = "game_started"
	EventTurnAccepted = "turn_accepted"
	EventGameEnded    = "game_ended"
)

// PlayingState 游戏进行状态
type PlayingState struct {
	RoomStateBase
}

// NewPlayingState 创建新的游戏状态
func NewPlayingState(room SessionContext) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   IDPlaying,
			Room: room,
		},
	}
}

// OnEnter deals the opening hands and pushes the first snapshot.
func (s *PlayingState) OnEnter() {
	s.Room.SetStatus(StatusInProgress)
	if err := s.Room.Game().Deal(); err != nil {
		logger.Log.Errorf("房间 %s 发牌失败: %v", s.Room.GetID(), err)
		return
	}
	logger.Log.Infof("房间 %s 进入游戏状态，玩家: %v", s.Room.GetID(), s.Room.Game().Roster())
	s.Room.BroadcastLobby()
	s.Room.BroadcastGame(nil)
	s.Room.Publish(EventGameStarted, nil)
}

// OnExit 退出游戏状态
func (s *PlayingState) OnExit() {
	logger.Log.Infof("房间 %s 退出游戏状态", s.Room.GetID())
}

func (s *PlayingState) HandleAction(ctx context.Context, action Action) (Outcome, error) {
	g := s.Room.Game()

	switch action.Kind {
	case ActionPlace:
		turn, err := g.Place(ctx, action.Player, action.Cells)
		if err != nil {
			logger.Log.Infof("房间 %s 玩家 %d 落子被拒绝: %v", s.Room.GetID(), action.Player, err)
			s.Room.BroadcastGame(game.Rejected(action.Player, action.Cells))
			return Outcome{Player: action.Player}, err
		}
		s.Room.Publish(EventTurnAccepted, turn)
		if turn.SupplyExhausted {
			return Outcome{Player: action.Player, Turn: turn},
				s.Room.ChangeState(NewEndedState(s.Room, ReasonSupplyEmpty, turn))
		}
		s.Room.BroadcastGame(turn)
		return Outcome{Player: action.Player, Turn: turn}, nil

	case ActionUnregister:
		if err := g.RemovePlayer(action.Player); err != nil {
			return Outcome{}, err
		}
		s.Room.Detach(action.Player)
		logger.Log.Infof("房间 %s 玩家 %d 中途离开，游戏结束", s.Room.GetID(), action.Player)
		return Outcome{Player: action.Player},
			s.Room.ChangeState(NewEndedState(s.Room, ReasonPlayerLeft, nil))

	case ActionEnd:
		return Outcome{}, s.Room.ChangeState(NewEndedState(s.Room, action.Reason, nil))
	}
	return s.reject(action)
}
