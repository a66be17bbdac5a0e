package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.Equal(t, "memory", cfg.Lexicon.Backend)
	assert.Equal(t, uint(3), cfg.Lexicon.Retry.Attempts)
	assert.Equal(t, 5*time.Second, cfg.Lexicon.Timeout)
	assert.Equal(t, "tilegame.rooms", cfg.Events.Subject)
}

func TestFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  http_address: ":9999"
game:
  max_players: 3
  ended_room_ttl: 30s
lexicon:
  backend: sqlite
  retry:
    delay: 250ms
database:
  postgres:
    port: 6543
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("TILEGAME_LOG_LEVEL", "debug")
	t.Setenv("TILEGAME_GAME_MAX_PLAYERS", "2")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.HTTPAddress)
	assert.Equal(t, 2, cfg.Game.MaxPlayers, "env wins over file")
	assert.Equal(t, 30*time.Second, cfg.Game.EndedRoomTTL)
	assert.Equal(t, "sqlite", cfg.Lexicon.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.Lexicon.Retry.Delay)
	assert.Equal(t, 6543, cfg.Database.Postgres.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [oops"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
