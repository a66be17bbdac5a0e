// placement/score.go
package placement

import (
	"github.com/samber/lo"

	"github.com/khaldane/Scrabble-Game/board"
	"github.com/khaldane/Scrabble-Game/tiles"
)

// Score totals words against the unused bonuses of b. A bonus square
// counts for the first word that touches it in this turn only. b is not
// modified; the returned Bonuses are consumed at commit.
func Score(b *board.Board, words []Word) *Result {
	res := &Result{Words: make([]Word, len(words))}
	used := make(map[board.Coordinate]bool)

	for i, w := range words {
		sum, factor := 0, 1
		for _, c := range w.Cells {
			value := tiles.Value(c.Letter)
			if !used[c.Coordinate] {
				if kind := b.BonusAt(c.Coordinate); kind != board.None {
					used[c.Coordinate] = true
					res.Bonuses = append(res.Bonuses, c.Coordinate)
					value *= kind.LetterMultiplier()
					factor *= kind.WordMultiplier()
				}
			}
			sum += value
		}
		w.Score = sum * factor
		res.Words[i] = w
	}

	res.Score = lo.SumBy(res.Words, func(w Word) int { return w.Score })
	return res
}
