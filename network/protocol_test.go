package network

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	frame, err := Encode(MsgTypePlaceTiles, []byte(`{"tiles":[]}`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xC9, 0x00, 0x0C}, frame[:HeaderSize])

	p, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, uint16(MsgTypePlaceTiles), p.MsgID)
	assert.Equal(t, uint16(12), p.Length)
	assert.Equal(t, `{"tiles":[]}`, string(p.Data))
}

func TestDecodeShort(t *testing.T) {
	_, err := Decode([]byte{0, 1})
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	_, err = Decode([]byte{0, 1, 0, 9, 'x'})
	assert.ErrorIs(t, err, io.ErrShortBuffer)
}

func TestEncodeTooLarge(t *testing.T) {
	_, err := Encode(MsgTypeGameState, make([]byte, 70000))
	assert.Error(t, err)
}

func TestPlaceTilesRequestWire(t *testing.T) {
	var req PlaceTilesRequest
	require.NoError(t, json.Unmarshal([]byte(`{"tiles":[{"row":7,"col":8,"letter":"a"}]}`), &req))
	require.Len(t, req.Tiles, 1)
	assert.Equal(t, 7, req.Tiles[0].Row)
	assert.Equal(t, 8, req.Tiles[0].Col)
	assert.Equal(t, "A", req.Tiles[0].Letter.String())
}
