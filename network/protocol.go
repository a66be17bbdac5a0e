package network

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/game"
)

const (
	MsgTypeHeartbeat  = 1
	MsgTypeJoinRoom   = 101
	MsgTypeLeaveRoom  = 102
	MsgTypeCreateRoom = 103
	MsgTypeStartGame  = 104
	MsgTypePlaceTiles = 201
	MsgTypeLobbyState = 301
	MsgTypeGameState  = 302
	MsgTypeError      = 303
	MsgTypeRegistered = 304
)

// HeaderSize 2 字节消息ID + 2 字节数据长度
const HeaderSize = 4

// Encode 封包: 2字节消息ID + 2字节数据长度 + 数据
func Encode(msgID uint16, data []byte) ([]byte, error) {
	if len(data) > math.MaxUint16 {
		return nil, fmt.Errorf("payload of %d bytes exceeds frame limit", len(data))
	}
	packet := make([]byte, HeaderSize+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[HeaderSize:], data)
	return packet, nil
}

// Decode 拆包
func Decode(data []byte) (*Packet, error) {
	if len(data) < HeaderSize {
		return nil, io.ErrShortBuffer
	}

	msgID := binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])

	if len(data) < HeaderSize+int(length) {
		return nil, io.ErrShortBuffer
	}

	return &Packet{
		MsgID:  msgID,
		Length: length,
		Data:   data[HeaderSize : HeaderSize+int(length)],
	}, nil
}

// JoinRoomRequest 加入房间，room_id 为空时加入任意等待中的房间
type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type RegisteredResponse struct {
	RoomID   string        `json:"room_id"`
	PlayerID game.PlayerID `json:"player_id"`
}

// PlaceTilesRequest 一次落子，空列表表示跳过
type PlaceTilesRequest struct {
	Tiles []board.Cell `json:"tiles"`
}

type ErrorResponse struct {
	Request uint16 `json:"request"`
	Error   string `json:"error"`
}

// Marshal encodes v as JSON and frames it.
func Marshal(msgID uint16, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Encode(msgID, data)
}
