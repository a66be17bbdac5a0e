package room

import (
	"context"

	"github.com/khaldane/Scrabble-Game/models"
)

// Directory is the part of Manager the transports depend on.
// server and rpc take this instead of *Manager so tests can swap it.
type Directory interface {
	CreateRoom(id, name string) (*Room, error)
	Lookup(id string) (*Room, error)
	List(ctx context.Context) []models.RoomInfo
}

var _ Directory = (*Manager)(nil)
