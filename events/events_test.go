package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaldane/Scrabble-Game/game"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "scrabble.rooms.abc", Subject("scrabble.rooms", "abc"))
	assert.Equal(t, "abc", Subject("", "abc"))
}

func TestEventJSON(t *testing.T) {
	e := Event{
		Kind:   "turn_accepted",
		RoomID: "abc",
		Player: 1,
		Words:  []string{"CAT"},
		Score:  5,
		Scores: map[game.PlayerID]int{1: 5, 2: 0},
		Time:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "turn_accepted", back["kind"])
	assert.Equal(t, map[string]any{"1": 5.0, "2": 0.0}, back["scores"])
	assert.NotContains(t, back, "reason")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(Event{Kind: "game_started"}))
	p.Close()
}
