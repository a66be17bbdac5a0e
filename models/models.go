// models/models.go
package models

import (
	"time"

	"github.com/khaldane/Scrabble-Game/game"
)

// RoomInfo 房间概要，用于房间列表与管理接口
type RoomInfo struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Status      string                `json:"status"`
	Players     int                   `json:"players"`
	MaxPlayers  int                   `json:"max_players"`
	Roster      []game.PlayerID       `json:"roster"`
	Scores      map[game.PlayerID]int `json:"scores,omitempty"`
	CurrentTurn game.PlayerID         `json:"current_turn,omitempty"`
	Remaining   int                   `json:"remaining_tiles"`
	EndReason   string                `json:"end_reason,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Joinable reports whether a new player may register.
func (r RoomInfo) Joinable() bool {
	return r.Status == "lobby" && len(r.Roster) < r.MaxPlayers
}
