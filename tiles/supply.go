// tiles/supply.go
package tiles

import (
	"errors"

	"lukechampine.com/frand"
)

// ErrEmptySupply 牌堆已空
var ErrEmptySupply = errors.New("tile supply is empty")

// Source provides the randomness for shuffling.
type Source interface {
	Intn(n int) int
}

type frandSource struct{}

func (frandSource) Intn(n int) int {
	return frand.Intn(n)
}

// Supply 是洗好的牌堆，按游标顺序抽牌
type Supply struct {
	tiles  []Tile
	cursor int
	src    Source
}

// NewSupply creates a full supply shuffled with a CSPRNG.
func NewSupply() *Supply {
	return NewSupplyWithSource(frandSource{})
}

// NewSupplyWithSource creates a full supply shuffled by src.
func NewSupplyWithSource(src Source) *Supply {
	s := &Supply{src: src}
	s.Shuffle()
	return s
}

// NewOrderedSupply deals the given tiles in order. Shuffle on it
// restores the full table.
func NewOrderedSupply(order []Tile) *Supply {
	tiles := make([]Tile, len(order))
	copy(tiles, order)
	return &Supply{tiles: tiles, src: frandSource{}}
}

// Shuffle regenerates the full multiset and permutes it (Fisher-Yates).
func (s *Supply) Shuffle() {
	s.tiles = FullSet()
	for i := len(s.tiles) - 1; i > 0; i-- {
		j := s.src.Intn(i + 1)
		s.tiles[i], s.tiles[j] = s.tiles[j], s.tiles[i]
	}
	s.cursor = 0
}

// Draw returns the next tile.
func (s *Supply) Draw() (Tile, error) {
	if s.cursor >= len(s.tiles) {
		return Tile{}, ErrEmptySupply
	}
	t := s.tiles[s.cursor]
	s.cursor++
	return t, nil
}

func (s *Supply) Remaining() int {
	return len(s.tiles) - s.cursor
}
