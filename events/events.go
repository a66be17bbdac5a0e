package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/khaldane/Scrabble-Game/game"
	"github.com/khaldane/Scrabble-Game/logger"
)

// Event 房间生命周期事件
type Event struct {
	Kind      string                `json:"kind"`
	RoomID    string                `json:"room_id"`
	Player    game.PlayerID         `json:"player,omitempty"`
	Words     []string              `json:"words,omitempty"`
	Score     int                   `json:"score,omitempty"`
	Scores    map[game.PlayerID]int `json:"scores"`
	Remaining int                   `json:"remaining_tiles"`
	Reason    string                `json:"reason,omitempty"`
	Time      time.Time             `json:"time"`
}

// Publisher sends events somewhere outside the process.
type Publisher interface {
	Publish(e Event) error
	Close()
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close()              {}

// NATSPublisher 发布到 <prefix>.<room id>
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("scrabble-game"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Log.Warnf("nats disconnected: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc, prefix: prefix}, nil
}

// Subject returns the subject events of roomID go to.
func (p *NATSPublisher) Subject(roomID string) string {
	return Subject(p.prefix, roomID)
}

func (p *NATSPublisher) Publish(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.Subject(e.RoomID), data)
}

func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		logger.Log.Warnf("nats drain: %v", err)
		p.conn.Close()
	}
}

// Subject joins prefix and roomID.
func Subject(prefix, roomID string) string {
	if prefix == "" {
		return roomID
	}
	return fmt.Sprintf("%s.%s", prefix, roomID)
}
