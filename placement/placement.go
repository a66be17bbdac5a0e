// placement/placement.go
package placement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/tiles"
)

// 校验失败的原因，均不修改棋盘
var (
	ErrNotCollinear        = errors.New("tiles are not in a single row or column")
	ErrMustCoverCenter     = errors.New("first word must cover the center square")
	ErrDisconnected        = errors.New("tiles do not form one contiguous word")
	ErrWordMismatch        = errors.New("placed tiles are not all part of the main word")
	ErrUnconnected         = errors.New("placement does not touch any tile on the board")
	ErrUnknownWord         = errors.New("unknown word")
	ErrDuplicateCoordinate = errors.New("coordinate used twice")
	ErrTooManyTiles        = errors.New("too many tiles")
)

// Word 一次落子形成的一个单词
type Word struct {
	Text    string       `json:"text"`
	Cells   []board.Cell `json:"cells"`
	Score   int          `json:"score"`
	Primary bool         `json:"primary"`
}

// Result is an accepted placement. Bonuses lists the squares whose bonus
// the commit must consume.
type Result struct {
	Words   []Word             `json:"words"`
	Score   int                `json:"score"`
	Bonuses []board.Coordinate `json:"-"`
}

// Validator reconstructs, checks and scores proposed placements.
type Validator struct {
	oracle lexicon.Oracle
}

func NewValidator(oracle lexicon.Oracle) *Validator {
	return &Validator{oracle: oracle}
}

// Validate checks cells against b without writing to it. firstTurn is
// true while no word has been committed yet.
func (v *Validator) Validate(ctx context.Context, b *board.Board, cells []board.Cell, firstTurn bool) (*Result, error) {
	if err := CheckStructure(b, cells); err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return &Result{}, nil
	}

	words, err := buildWords(b, cells, firstTurn)
	if err != nil {
		return nil, err
	}

	for i := range words {
		if err := v.lookup(ctx, words[i].Text); err != nil {
			return nil, err
		}
	}

	return Score(b, words), nil
}

// CheckStructure runs the checks that need only the board, never the lexicon.
func CheckStructure(b *board.Board, cells []board.Cell) error {
	if len(cells) > tiles.HandSize {
		return fmt.Errorf("%w: %d placed, at most %d", ErrTooManyTiles, len(cells), tiles.HandSize)
	}
	seen := make(map[board.Coordinate]struct{}, len(cells))
	for _, c := range cells {
		if !c.InBounds() {
			return fmt.Errorf("%w: %s", board.ErrOutOfBounds, c.Coordinate)
		}
		if !c.Letter.Valid() {
			return fmt.Errorf("%w: at %s", tiles.ErrInvalidLetter, c.Coordinate)
		}
		if _, dup := seen[c.Coordinate]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCoordinate, c.Coordinate)
		}
		seen[c.Coordinate] = struct{}{}
		if b.IsOccupied(c.Coordinate) {
			return fmt.Errorf("%w: %s", board.ErrCoordinateOccupied, c.Coordinate)
		}
	}
	return nil
}

func placementAxis(cells []board.Cell) (board.Axis, error) {
	sameRow, sameCol := true, true
	for _, c := range cells[1:] {
		sameRow = sameRow && c.Row == cells[0].Row
		sameCol = sameCol && c.Col == cells[0].Col
	}
	switch {
	case sameRow:
		return board.Row, nil
	case sameCol:
		return board.Column, nil
	}
	return board.Row, ErrNotCollinear
}

func buildWords(b *board.Board, cells []board.Cell, firstTurn bool) ([]Word, error) {
	pending := make(map[board.Coordinate]tiles.Letter, len(cells))
	for _, c := range cells {
		pending[c.Coordinate] = c.Letter
	}

	if len(cells) == 1 {
		if firstTurn {
			return nil, ErrMustCoverCenter
		}
		return singleTileWords(b, cells[0], pending)
	}

	axis, err := placementAxis(cells)
	if err != nil {
		return nil, err
	}

	primary := b.NeighborWord(cells[0].Coordinate, axis, pending)
	used := countPending(primary, pending)

	if firstTurn {
		if used != len(cells) {
			return nil, ErrDisconnected
		}
		if !covers(primary, board.CenterSquare) {
			return nil, ErrMustCoverCenter
		}
		return []Word{newWord(primary, true)}, nil
	}

	if used != len(cells) {
		return nil, ErrWordMismatch
	}

	words := []Word{newWord(primary, true)}
	connected := len(primary) > used
	for _, c := range cells {
		cross := b.NeighborWord(c.Coordinate, axis.Perpendicular(), pending)
		if len(cross) < 2 {
			continue
		}
		words = append(words, newWord(cross, false))
		connected = true
	}
	if !connected {
		return nil, ErrUnconnected
	}
	return words, nil
}

// singleTileWords forms a word on each axis the tile has a neighbor on.
func singleTileWords(b *board.Board, c board.Cell, pending map[board.Coordinate]tiles.Letter) ([]Word, error) {
	var words []Word
	for _, axis := range []board.Axis{board.Row, board.Column} {
		run := b.NeighborWord(c.Coordinate, axis, pending)
		if len(run) < 2 {
			continue
		}
		words = append(words, newWord(run, len(words) == 0))
	}
	if len(words) == 0 {
		return nil, ErrUnconnected
	}
	return words, nil
}

func countPending(run []board.Cell, pending map[board.Coordinate]tiles.Letter) int {
	return lo.CountBy(run, func(c board.Cell) bool {
		_, ok := pending[c.Coordinate]
		return ok
	})
}

func covers(run []board.Cell, target board.Coordinate) bool {
	return lo.ContainsBy(run, func(c board.Cell) bool {
		return c.Coordinate == target
	})
}

func newWord(run []board.Cell, primary bool) Word {
	var sb strings.Builder
	for _, c := range run {
		sb.WriteString(c.Letter.String())
	}
	return Word{Text: sb.String(), Cells: run, Primary: primary}
}

func (v *Validator) lookup(ctx context.Context, word string) error {
	ok, err := v.oracle.IsWord(ctx, word)
	if err != nil {
		if errors.Is(err, lexicon.ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", lexicon.ErrUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWord, word)
	}
	return nil
}
