// tiles/hand.go
package tiles

import (
	"errors"
	"fmt"
)

// HandSize 手牌上限
const HandSize = 7

var ErrTileNotInHand = errors.New("tile not in hand")

// Hand 玩家手牌
type Hand struct {
	tiles []Tile
}

func NewHand() *Hand {
	return &Hand{tiles: make([]Tile, 0, HandSize)}
}

// Fill draws until the hand holds HandSize tiles or the supply runs out.
// It reports whether the supply is exhausted afterwards.
func (h *Hand) Fill(s *Supply) bool {
	for len(h.tiles) < HandSize {
		t, err := s.Draw()
		if err != nil {
			break
		}
		h.tiles = append(h.tiles, t)
	}
	return s.Remaining() == 0
}

func (h *Hand) Len() int {
	return len(h.tiles)
}

// Tiles returns a copy of the hand.
func (h *Hand) Tiles() []Tile {
	out := make([]Tile, len(h.tiles))
	copy(out, h.tiles)
	return out
}

func (h *Hand) Letters() []Letter {
	out := make([]Letter, len(h.tiles))
	for i, t := range h.tiles {
		out[i] = t.Letter
	}
	return out
}

// Has reports whether the hand contains letters as a multiset.
func (h *Hand) Has(letters []Letter) bool {
	counts := make(map[Letter]int, len(h.tiles))
	for _, t := range h.tiles {
		counts[t.Letter]++
	}
	for _, l := range letters {
		if counts[l] == 0 {
			return false
		}
		counts[l]--
	}
	return true
}

// Remove takes one tile per letter out of the hand. Nothing is removed
// unless every letter is present.
func (h *Hand) Remove(letters []Letter) error {
	if !h.Has(letters) {
		return fmt.Errorf("%w: %v", ErrTileNotInHand, letters)
	}
	for _, l := range letters {
		for i, t := range h.tiles {
			if t.Letter == l {
				h.tiles = append(h.tiles[:i], h.tiles[i+1:]...)
				break
			}
		}
	}
	return nil
}
