package state

import (
	"context"
	"fmt"

	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/logger"
)

// EndedState 终止状态，只允许断开连接
type EndedState struct {
	RoomStateBase
	Reason string
	Turn   *game.Turn
}

// NewEndedState ends the game for reason. turn is the placement that
// ended it, if any, and goes out with the final snapshot.
func NewEndedState(room SessionContext, reason string, turn *game.Turn) *EndedState {
	if reason == "" {
		reason = ReasonEndedByRequest
	}
	return &EndedState{
		RoomStateBase: RoomStateBase{
			ID:   IDEnded,
			Room: room,
		},
		Reason: reason,
		Turn:   turn,
	}
}

func (s *EndedState) OnEnter() {
	g := s.Room.Game()
	g.Finish(s.Reason)
	s.Room.SetStatus(StatusEnded)
	logger.Log.Infof("房间 %s 游戏结束: %s, 得分 %v", s.Room.GetID(), s.Reason, g.Scores())
	s.Room.BroadcastGame(s.Turn)
	s.Room.Publish(EventGameEnded, s.Turn)
	s.Room.OnEnded()
}

func (s *EndedState) HandleAction(ctx context.Context, action Action) (Outcome, error) {
	switch action.Kind {
	case ActionUnregister:
		s.Room.Detach(action.Player)
		return Outcome{Player: action.Player}, nil
	case ActionPlace:
		return Outcome{}, fmt.Errorf("%w: %s", game.ErrGameOver, s.Reason)
	}
	return s.reject(action)
}
