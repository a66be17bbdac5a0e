package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/tiles"
)

var words = lexicon.NewSet("cat", "cats", "at", "to", "dog", "dot")

func ordered(letters string) *tiles.Supply {
	order := make([]tiles.Tile, len(letters))
	for i := range letters {
		order[i] = tiles.NewTile(tiles.Letter(letters[i]))
	}
	return tiles.NewOrderedSupply(order)
}

func across(r, c int, word string) []board.Cell {
	cells := make([]board.Cell, len(word))
	for i := range word {
		cells[i] = board.Cell{
			Coordinate: board.Coordinate{Row: r, Col: c + i},
			Letter:     tiles.Letter(word[i]),
		}
	}
	return cells
}

// newGame registers n players and deals from supply.
func newGame(t *testing.T, n int, opts ...Option) *Session {
	t.Helper()
	g := NewSession(words, opts...)
	for i := 0; i < n; i++ {
		_, err := g.AddPlayer()
		require.NoError(t, err)
	}
	require.NoError(t, g.Deal())
	return g
}

func letters(ts []tiles.Tile) string {
	var sb strings.Builder
	for _, t := range ts {
		sb.WriteString(t.Letter.String())
	}
	return sb.String()
}

func TestDealInRosterOrder(t *testing.T) {
	g := newGame(t, 2, WithSupply(ordered("CATSOXEDOGTRESLMN")))

	assert.Equal(t, []PlayerID{1, 2}, g.Roster())
	assert.Equal(t, "CATSOXE", letters(g.Hand(1)))
	assert.Equal(t, "DOGTRES", letters(g.Hand(2)))
	assert.Equal(t, 3, g.Remaining())
	assert.Equal(t, PlayerID(1), g.CurrentPlayer())
	assert.Equal(t, map[PlayerID]int{1: 0, 2: 0}, g.Scores())
}

func TestPlaceCat(t *testing.T) {
	g := newGame(t, 2, WithSupply(ordered("CATSOXEDOGTRESLMN")))

	turn, err := g.Place(context.Background(), 1, across(7, 7, "CAT"))
	require.NoError(t, err)
	assert.True(t, turn.Accepted)
	assert.Equal(t, 5, turn.Score)
	assert.Equal(t, 5, g.Scores()[1])
	assert.Equal(t, PlayerID(2), g.CurrentPlayer())
	assert.Equal(t, "SOXELMN", letters(g.Hand(1)))
	assert.Equal(t, 0, g.Remaining())
	assert.True(t, turn.SupplyExhausted)

	snap := g.Snapshot(2, turn)
	assert.True(t, snap.YourTurn)
	assert.True(t, snap.BoardUpdated)
	assert.Equal(t, []string{"CAT"}, snap.Words)
	assert.Equal(t, 5, snap.LastTurnScore)
	assert.Equal(t, "DOGTRES", letters(snap.Hand))
}

func TestNotYourTurn(t *testing.T) {
	g := newGame(t, 2)
	_, err := g.Place(context.Background(), 2, across(7, 7, "AT"))
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.True(t, g.Board().IsEmpty())
	assert.Equal(t, PlayerID(1), g.CurrentPlayer())
}

func TestTilesMustComeFromHand(t *testing.T) {
	g := newGame(t, 1, WithSupply(ordered("CATSOXE")))
	_, err := g.Place(context.Background(), 1, across(7, 7, "DOG"))
	assert.ErrorIs(t, err, tiles.ErrTileNotInHand)
}

func TestOccupiedCheckedBeforeHand(t *testing.T) {
	g := newGame(t, 2, WithSupply(ordered("CATSOXEDOGTRESLMNAB")))
	ctx := context.Background()
	_, err := g.Place(ctx, 1, across(7, 7, "CAT"))
	require.NoError(t, err)

	// player 2 holds no C, but the square is taken
	_, err = g.Place(ctx, 2, across(7, 7, "C"))
	assert.ErrorIs(t, err, board.ErrCoordinateOccupied)
}

func TestMissingLetterRejected(t *testing.T) {
	g := newGame(t, 1, WithSupply(ordered("CATSOXE")))
	cells := []board.Cell{{Coordinate: board.Coordinate{Row: 7, Col: 7}}}

	_, err := g.Place(context.Background(), 1, cells)
	assert.ErrorIs(t, err, tiles.ErrInvalidLetter)
	assert.True(t, g.Board().IsEmpty())

	rejected := Rejected(1, append(cells, across(7, 8, "A")...))
	assert.Equal(t, across(7, 8, "A"), rejected.Placed)
	assert.False(t, rejected.Accepted)
}

func TestRejectionLeavesStateUnchanged(t *testing.T) {
	g := newGame(t, 2, WithSupply(ordered("CATSOXEDOGTRESLMNAB")))
	ctx := context.Background()
	_, err := g.Place(ctx, 1, across(7, 7, "CAT"))
	require.NoError(t, err)

	boardBefore := g.Board().String()
	handBefore := g.Hand(2)
	scoresBefore := g.Scores()
	remainingBefore := g.Remaining()

	// DOG on row 0 touches nothing
	_, err = g.Place(ctx, 2, across(0, 0, "DOG"))
	require.Error(t, err)

	assert.Equal(t, boardBefore, g.Board().String())
	assert.Equal(t, handBefore, g.Hand(2))
	assert.Equal(t, scoresBefore, g.Scores())
	assert.Equal(t, remainingBefore, g.Remaining())
	assert.Equal(t, PlayerID(2), g.CurrentPlayer())
}

func TestNotCollinearLaterTurn(t *testing.T) {
	g := newGame(t, 2, WithSupply(ordered("CATSOXEDOGTRESLMNAB")))
	ctx := context.Background()
	_, err := g.Place(ctx, 1, across(7, 7, "CAT"))
	require.NoError(t, err)

	cells := []board.Cell{
		{Coordinate: board.Coordinate{Row: 8, Col: 7}, Letter: 'O'},
		{Coordinate: board.Coordinate{Row: 9, Col: 8}, Letter: 'D'},
	}
	_, err = g.Place(ctx, 2, cells)
	assert.ErrorContains(t, err, "single row or column")
	assert.Equal(t, PlayerID(2), g.CurrentPlayer())
}

func TestDoubleWordUsedOnce(t *testing.T) {
	layout := strings.Repeat(strings.Repeat(".", board.Size)+"\n", board.Size)
	rows := strings.Split(strings.TrimSpace(layout), "\n")
	rows[7] = "........D......"
	b, err := board.NewWithLayout(strings.Join(rows, "\n"))
	require.NoError(t, err)

	g := newGame(t, 2, WithBoard(b), WithSupply(ordered("CATXXXXSXXXXXXQQQQQQQQ")))
	ctx := context.Background()

	turn, err := g.Place(ctx, 1, across(7, 7, "CAT"))
	require.NoError(t, err)
	assert.Equal(t, 10, turn.Score)
	assert.Equal(t, board.None, g.Board().BonusAt(board.Coordinate{Row: 7, Col: 8}))

	turn, err = g.Place(ctx, 2, across(7, 10, "S"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CATS"}, g.Snapshot(2, turn).Words)
	assert.Equal(t, 6, turn.Score)
}

func TestTurnRotation(t *testing.T) {
	g := newGame(t, 3)
	ctx := context.Background()
	for _, want := range []PlayerID{1, 2, 3} {
		require.Equal(t, want, g.CurrentPlayer())
		turn, err := g.Place(ctx, want, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, turn.Score)
		assert.False(t, g.Snapshot(want, turn).BoardUpdated)
	}
	assert.Equal(t, PlayerID(1), g.CurrentPlayer())
	assert.True(t, g.Board().IsEmpty())
}

func TestRemovePlayerKeepsTurnValid(t *testing.T) {
	g := newGame(t, 3)
	_, err := g.Place(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Equal(t, PlayerID(2), g.CurrentPlayer())

	require.NoError(t, g.RemovePlayer(1))
	assert.Equal(t, PlayerID(2), g.CurrentPlayer())
	assert.ErrorIs(t, g.RemovePlayer(9), ErrPlayerNotFound)
}

func TestFinish(t *testing.T) {
	g := newGame(t, 2)
	g.Finish("player left")
	g.Finish("ignored")
	assert.True(t, g.Over())
	assert.Equal(t, "player left", g.EndReason())
	assert.Equal(t, PlayerID(0), g.CurrentPlayer())

	_, err := g.Place(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrGameOver)

	snap := g.Snapshot(1, nil)
	assert.True(t, snap.GameOver)
	assert.False(t, snap.YourTurn)
}

func TestLobby(t *testing.T) {
	g := NewSession(words)
	_, _ = g.AddPlayer()
	_, _ = g.AddPlayer()
	lobby := g.Lobby(2)
	assert.Equal(t, 2, lobby.Players)
	assert.False(t, lobby.Started)

	require.NoError(t, g.Deal())
	_, err := g.AddPlayer()
	assert.ErrorIs(t, err, ErrGameStarted)
	assert.True(t, g.Lobby(2).Started)
}
