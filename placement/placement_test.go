package placement

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/tiles"
)

var testWords = lexicon.NewSet("cat", "cats", "at", "to", "ta", "ox", "tot")

func cell(row, col int, l byte) board.Cell {
	return board.Cell{Coordinate: board.Coordinate{Row: row, Col: col}, Letter: tiles.Letter(l)}
}

func row(r, c int, word string) []board.Cell {
	cells := make([]board.Cell, len(word))
	for i := range word {
		cells[i] = cell(r, c+i, word[i])
	}
	return cells
}

// layoutWith returns a bonus-free layout with the given symbols set.
func layoutWith(t *testing.T, marks map[board.Coordinate]byte) *board.Board {
	t.Helper()
	grid := make([][]byte, board.Size)
	for r := range grid {
		grid[r] = []byte(strings.Repeat(".", board.Size))
	}
	for c, sym := range marks {
		grid[c.Row][c.Col] = sym
	}
	lines := make([]string, board.Size)
	for r := range grid {
		lines[r] = string(grid[r])
	}
	b, err := board.NewWithLayout(strings.Join(lines, "\n"))
	require.NoError(t, err)
	return b
}

// withCat commits CAT across the center row.
func withCat(t *testing.T, b *board.Board) *board.Board {
	t.Helper()
	for _, c := range row(7, 7, "CAT") {
		require.NoError(t, b.Commit(c.Coordinate, c.Letter))
	}
	return b
}

func TestFirstWordCat(t *testing.T) {
	v := NewValidator(testWords)
	b := board.New()

	res, err := v.Validate(context.Background(), b, row(7, 7, "CAT"), true)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Score)
	require.Len(t, res.Words, 1)
	assert.Equal(t, "CAT", res.Words[0].Text)
	assert.True(t, res.Words[0].Primary)
	assert.True(t, b.IsEmpty(), "validation must not write to the board")
}

func TestFirstTurnRules(t *testing.T) {
	v := NewValidator(testWords)
	ctx := context.Background()

	tests := []struct {
		name  string
		cells []board.Cell
		want  error
	}{
		{"single tile", []board.Cell{cell(7, 7, 'A')}, ErrMustCoverCenter},
		{"off center", row(0, 0, "CAT"), ErrMustCoverCenter},
		{"gap", []board.Cell{cell(7, 6, 'C'), cell(7, 7, 'A'), cell(7, 9, 'T')}, ErrDisconnected},
		{"diagonal", []board.Cell{cell(7, 7, 'A'), cell(8, 8, 'T')}, ErrNotCollinear},
		{"unknown", row(7, 7, "TAC"), ErrUnknownWord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(ctx, board.New(), tt.cells, true)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStructuralChecks(t *testing.T) {
	v := NewValidator(testWords)
	ctx := context.Background()
	b := withCat(t, board.New())

	_, err := v.Validate(ctx, b, []board.Cell{cell(7, 7, 'S')}, false)
	assert.ErrorIs(t, err, board.ErrCoordinateOccupied)

	_, err = v.Validate(ctx, b, []board.Cell{cell(8, 7, 'A'), cell(8, 7, 'T')}, false)
	assert.ErrorIs(t, err, ErrDuplicateCoordinate)

	_, err = v.Validate(ctx, b, []board.Cell{cell(15, 7, 'A')}, false)
	assert.ErrorIs(t, err, board.ErrOutOfBounds)

	_, err = v.Validate(ctx, b, row(0, 0, "CATSCATS"), false)
	assert.ErrorIs(t, err, ErrTooManyTiles)

	_, err = v.Validate(ctx, b, []board.Cell{cell(8, 7, '?')}, false)
	assert.ErrorIs(t, err, tiles.ErrInvalidLetter)
}

func TestPass(t *testing.T) {
	v := NewValidator(testWords)
	res, err := v.Validate(context.Background(), withCat(t, board.New()), nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Words)
}

func TestLaterTurnRules(t *testing.T) {
	v := NewValidator(testWords)
	ctx := context.Background()

	tests := []struct {
		name  string
		cells []board.Cell
		want  error
	}{
		{"not collinear", []board.Cell{cell(8, 7, 'A'), cell(9, 8, 'T')}, ErrNotCollinear},
		{"gap in word", []board.Cell{cell(9, 7, 'A'), cell(9, 9, 'T')}, ErrWordMismatch},
		{"far away", row(0, 0, "AT"), ErrUnconnected},
		{"single far away", []board.Cell{cell(0, 0, 'A')}, ErrUnconnected},
		{"bad cross word", []board.Cell{cell(8, 7, 'A'), cell(8, 8, 'T')}, ErrUnknownWord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := withCat(t, board.New())
			_, err := v.Validate(ctx, b, tt.cells, false)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnknownWordNamesTheWord(t *testing.T) {
	v := NewValidator(testWords)
	_, err := v.Validate(context.Background(), board.New(), row(7, 6, "ZAX"), true)
	require.ErrorIs(t, err, ErrUnknownWord)
	assert.Contains(t, err.Error(), "ZAX")
}

func TestExtendWord(t *testing.T) {
	v := NewValidator(testWords)
	b := withCat(t, board.New())

	res, err := v.Validate(context.Background(), b, []board.Cell{cell(7, 10, 'S')}, false)
	require.NoError(t, err)
	require.Len(t, res.Words, 1)
	assert.Equal(t, "CATS", res.Words[0].Text)
	// (7,10) carries no bonus in the default layout
	assert.Equal(t, 6, res.Score)
}

func TestSingleTileFormsColumnWord(t *testing.T) {
	v := NewValidator(testWords)
	b := withCat(t, board.New())

	res, err := v.Validate(context.Background(), b, []board.Cell{cell(8, 9, 'O')}, false)
	require.NoError(t, err)
	require.Len(t, res.Words, 1)
	assert.Equal(t, "TO", res.Words[0].Text)
	assert.True(t, res.Words[0].Primary)
	assert.Equal(t, 2, res.Score)
}

func TestParallelPlayScoresCrossWords(t *testing.T) {
	v := NewValidator(testWords)
	b := withCat(t, board.New())

	res, err := v.Validate(context.Background(), b, row(8, 8, "TO"), false)
	require.NoError(t, err)
	texts := make([]string, len(res.Words))
	for i, w := range res.Words {
		texts[i] = w.Text
	}
	assert.Equal(t, []string{"TO", "AT", "TO"}, texts)
	assert.Equal(t, 6, res.Score)
}

func TestBonusUsedOncePerTurn(t *testing.T) {
	v := NewValidator(testWords)
	b := withCat(t, layoutWith(t, map[board.Coordinate]byte{{Row: 8, Col: 8}: 'D'}))

	res, err := v.Validate(context.Background(), b, row(8, 8, "TO"), false)
	require.NoError(t, err)
	// TO doubled, the crossing AT gets nothing from the same square
	assert.Equal(t, 4, res.Words[0].Score)
	assert.Equal(t, 2, res.Words[1].Score)
	assert.Equal(t, 8, res.Score)
	assert.Equal(t, []board.Coordinate{{Row: 8, Col: 8}}, res.Bonuses)
	assert.Equal(t, board.DoubleWord, b.BonusAt(board.Coordinate{Row: 8, Col: 8}))
}

func TestLetterAndWordMultipliers(t *testing.T) {
	v := NewValidator(testWords)
	b := layoutWith(t, map[board.Coordinate]byte{
		{Row: 7, Col: 6}: 't',
		{Row: 7, Col: 7}: 'T',
	})

	res, err := v.Validate(context.Background(), b, row(7, 6, "CAT"), true)
	require.NoError(t, err)
	// (3*3 + 1 + 1) * 3
	assert.Equal(t, 33, res.Score)
	assert.Len(t, res.Bonuses, 2)
}

func TestLexiconUnavailable(t *testing.T) {
	down := lexicon.OracleFunc(func(ctx context.Context, candidate string) (bool, error) {
		return false, errors.New("dial tcp: connection refused")
	})
	v := NewValidator(down)

	_, err := v.Validate(context.Background(), board.New(), row(7, 7, "CAT"), true)
	assert.ErrorIs(t, err, lexicon.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrUnknownWord)
}
