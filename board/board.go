// board/board.go
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khaldane/Scrabble-Game/tiles"
)

const (
	Size   = 15
	Center = 7
)

var (
	ErrCoordinateOccupied = errors.New("coordinate already occupied")
	ErrOutOfBounds        = errors.New("coordinate out of bounds")
)

// Coordinate 棋盘坐标
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coordinate) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// CenterSquare is the square the first word must cover.
var CenterSquare = Coordinate{Row: Center, Col: Center}

// Axis 读词方向
type Axis int

const (
	// Row reads left to right along a row.
	Row Axis = iota
	// Column reads top to bottom along a column.
	Column
)

func (a Axis) Perpendicular() Axis {
	if a == Row {
		return Column
	}
	return Row
}

func (a Axis) String() string {
	if a == Row {
		return "row"
	}
	return "column"
}

func (a Axis) step() (int, int) {
	if a == Row {
		return 0, 1
	}
	return 1, 0
}

// Cell is a letter at a coordinate.
type Cell struct {
	Coordinate
	Letter tiles.Letter `json:"letter"`
}

// Board 15x15 棋盘，已提交的字母与尚未使用的奖励格
type Board struct {
	letters [Size][Size]tiles.Letter
	bonuses [Size][Size]BonusKind
	count   int
}

// New returns an empty board with the default bonus layout.
func New() *Board {
	b, err := NewWithLayout(DefaultLayout)
	if err != nil {
		panic(err)
	}
	return b
}

// NewWithLayout returns an empty board with a parsed bonus layout.
func NewWithLayout(layout string) (*Board, error) {
	bonuses, err := ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	return &Board{bonuses: bonuses}, nil
}

func (b *Board) IsOccupied(c Coordinate) bool {
	if !c.InBounds() {
		return false
	}
	return b.letters[c.Row][c.Col] != 0
}

// LetterAt returns the committed letter, 0 if the square is empty.
func (b *Board) LetterAt(c Coordinate) tiles.Letter {
	if !c.InBounds() {
		return 0
	}
	return b.letters[c.Row][c.Col]
}

func (b *Board) IsEmpty() bool {
	return b.count == 0
}

// Commit places a letter permanently.
func (b *Board) Commit(c Coordinate, l tiles.Letter) error {
	if !c.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if !l.Valid() {
		return fmt.Errorf("%w: %d", tiles.ErrInvalidLetter, byte(l))
	}
	if b.letters[c.Row][c.Col] != 0 {
		return fmt.Errorf("%w: %s", ErrCoordinateOccupied, c)
	}
	b.letters[c.Row][c.Col] = l
	b.count++
	return nil
}

// BonusAt reads the unused bonus at c without consuming it.
func (b *Board) BonusAt(c Coordinate) BonusKind {
	if !c.InBounds() {
		return None
	}
	return b.bonuses[c.Row][c.Col]
}

// ConsumeBonus returns the bonus at c and clears it.
func (b *Board) ConsumeBonus(c Coordinate) BonusKind {
	if !c.InBounds() {
		return None
	}
	kind := b.bonuses[c.Row][c.Col]
	b.bonuses[c.Row][c.Col] = None
	return kind
}

// NeighborWord walks from origin in both directions along axis and returns
// the contiguous run of letters, committed tiles first and pending second.
// The origin is always part of the result.
func (b *Board) NeighborWord(origin Coordinate, axis Axis, pending map[Coordinate]tiles.Letter) []Cell {
	lookup := func(c Coordinate) (tiles.Letter, bool) {
		if !c.InBounds() {
			return 0, false
		}
		if l := b.letters[c.Row][c.Col]; l != 0 {
			return l, true
		}
		l, ok := pending[c]
		return l, ok
	}

	dr, dc := axis.step()
	start := origin
	for {
		prev := Coordinate{Row: start.Row - dr, Col: start.Col - dc}
		if _, ok := lookup(prev); !ok {
			break
		}
		start = prev
	}

	var run []Cell
	for c := start; ; c = (Coordinate{Row: c.Row + dr, Col: c.Col + dc}) {
		l, ok := lookup(c)
		if !ok {
			if c == origin {
				run = append(run, Cell{Coordinate: c})
				continue
			}
			break
		}
		run = append(run, Cell{Coordinate: c, Letter: l})
	}
	return run
}

// Cells lists committed squares in row-major order.
func (b *Board) Cells() []Cell {
	cells := make([]Cell, 0, b.count)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if l := b.letters[r][c]; l != 0 {
				cells = append(cells, Cell{Coordinate: Coordinate{Row: r, Col: c}, Letter: l})
			}
		}
	}
	return cells
}

// String renders committed letters, '.' for empty squares.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if l := b.letters[r][c]; l != 0 {
				sb.WriteByte(byte(l))
				continue
			}
			sb.WriteByte('.')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
