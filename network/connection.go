// network/connection.go
package network

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Packet struct {
	MsgID  uint16
	Data   []byte
	Length uint16
}

type Connection interface {
	Send(msgID uint16, data []byte) error
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
	ReadPacket() (*Packet, error)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(msgID uint16, data []byte) error {
	packet, err := Encode(msgID, data)
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, packet)
}

// ReadPacket blocks for the next frame and extends the read deadline
// when a heartbeat interval is set.
func (c *WSConnection) ReadPacket() (*Packet, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return Decode(data)
}

func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
