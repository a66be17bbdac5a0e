// tiles/tile.go
package tiles

import (
	"errors"
	"fmt"
)

// ErrInvalidLetter 非 A-Z 的字母
var ErrInvalidLetter = errors.New("invalid letter")

// Letter 是 A-Z 中的一个字母，0 表示空
type Letter byte

// ParseLetter parses a single character, ignoring case.
func ParseLetter(s string) (Letter, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	return Letter(c), nil
}

func (l Letter) Valid() bool {
	return l >= 'A' && l <= 'Z'
}

func (l Letter) String() string {
	if !l.Valid() {
		return ""
	}
	return string(rune(l))
}

func (l Letter) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLetter, byte(l))
	}
	return []byte{byte(l)}, nil
}

func (l *Letter) UnmarshalText(text []byte) error {
	parsed, err := ParseLetter(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Tile 是字母牌
type Tile struct {
	Letter Letter `json:"letter"`
	Value  int    `json:"value"`
}

// NewTile returns the tile for l with its table value.
func NewTile(l Letter) Tile {
	return Tile{Letter: l, Value: Value(l)}
}

func (t Tile) String() string {
	return fmt.Sprintf("%s%d", t.Letter, t.Value)
}

type letterSpec struct {
	value    int
	quantity int
}

// 字母分值与数量表，共 98 张，无空白牌
var distribution = [26]letterSpec{
	{1, 9},  // A
	{3, 2},  // B
	{3, 2},  // C
	{2, 4},  // D
	{1, 12}, // E
	{4, 2},  // F
	{2, 3},  // G
	{4, 2},  // H
	{1, 9},  // I
	{8, 1},  // J
	{5, 1},  // K
	{1, 4},  // L
	{3, 2},  // M
	{1, 6},  // N
	{1, 8},  // O
	{3, 2},  // P
	{10, 1}, // Q
	{1, 6},  // R
	{1, 4},  // S
	{1, 6},  // T
	{1, 4},  // U
	{4, 2},  // V
	{4, 2},  // W
	{8, 1},  // X
	{4, 2},  // Y
	{10, 1}, // Z
}

// Value returns the score of a letter, 0 for anything outside A-Z.
func Value(l Letter) int {
	if !l.Valid() {
		return 0
	}
	return distribution[l-'A'].value
}

// Quantity returns how many copies of l a full supply holds.
func Quantity(l Letter) int {
	if !l.Valid() {
		return 0
	}
	return distribution[l-'A'].quantity
}

// TotalTiles is the size of a full supply.
func TotalTiles() int {
	n := 0
	for _, spec := range distribution {
		n += spec.quantity
	}
	return n
}

// FullSet returns every tile of the table in alphabetical order.
func FullSet() []Tile {
	set := make([]Tile, 0, TotalTiles())
	for l := Letter('A'); l <= 'Z'; l++ {
		for i := 0; i < Quantity(l); i++ {
			set = append(set, NewTile(l))
		}
	}
	return set
}
