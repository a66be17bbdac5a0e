// game/snapshot.go
package game

import (
	"github.com/samber/lo"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/placement"
	"github.com/khaldane/Scrabble-Game/tiles"
)

// Turn 一次提交的结果，被拒绝的提交 Accepted 为 false
type Turn struct {
	Player          PlayerID
	Placed          []board.Cell
	Words           []placement.Word
	Score           int
	Accepted        bool
	SupplyExhausted bool
}

// Rejected describes a refused placement so it can still be shown to
// everybody without touching the board. Cells without a valid letter are
// left out so the push always encodes.
func Rejected(id PlayerID, cells []board.Cell) *Turn {
	shown := lo.Filter(cells, func(c board.Cell, _ int) bool { return c.Letter.Valid() })
	return &Turn{Player: id, Placed: shown}
}

// Snapshot 推送给单个玩家的局面
type Snapshot struct {
	PlayerID       PlayerID         `json:"player_id"`
	Hand           []tiles.Tile     `json:"hand"`
	YourTurn       bool             `json:"your_turn"`
	CurrentTurn    PlayerID         `json:"current_turn"`
	Scores         map[PlayerID]int `json:"scores"`
	RemainingTiles int              `json:"remaining_tiles"`
	Placed         []board.Cell     `json:"placed"`
	BoardUpdated   bool             `json:"board_updated"`
	LastTurnScore  int              `json:"last_turn_score"`
	Words          []string         `json:"words"`
	GameOver       bool             `json:"game_over"`
	EndReason      string           `json:"end_reason,omitempty"`
}

// LobbySnapshot 大厅状态
type LobbySnapshot struct {
	Players int        `json:"players"`
	Started bool       `json:"started"`
	Roster  []PlayerID `json:"roster"`
}

// Channel receives pushes for one player. Implementations must not block.
type Channel interface {
	Notify(s Snapshot)
	NotifyLobby(s LobbySnapshot)
}

// Snapshot builds recipient's view after last (nil for the opening deal).
func (g *Session) Snapshot(recipient PlayerID, last *Turn) Snapshot {
	current := g.CurrentPlayer()
	s := Snapshot{
		PlayerID:       recipient,
		Hand:           g.Hand(recipient),
		YourTurn:       current != 0 && current == recipient,
		CurrentTurn:    current,
		Scores:         g.Scores(),
		RemainingTiles: g.supply.Remaining(),
		GameOver:       g.over,
		EndReason:      g.endReason,
	}
	if last != nil {
		s.Placed = last.Placed
		s.BoardUpdated = last.Accepted && len(last.Placed) > 0
		s.LastTurnScore = last.Score
		s.Words = lo.Map(last.Words, func(w placement.Word, _ int) string { return w.Text })
	}
	return s
}

// Lobby builds the lobby view.
func (g *Session) Lobby(connected int) LobbySnapshot {
	return LobbySnapshot{
		Players: connected,
		Started: g.started,
		Roster:  g.Roster(),
	}
}
