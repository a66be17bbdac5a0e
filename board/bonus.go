// board/bonus.go
package board

import (
	"fmt"
	"strings"
)

// BonusKind 奖励格类型
type BonusKind int

const (
	None BonusKind = iota
	DoubleLetter
	TripleLetter
	DoubleWord
	TripleWord
)

func (k BonusKind) String() string {
	switch k {
	case DoubleLetter:
		return "DL"
	case TripleLetter:
		return "TL"
	case DoubleWord:
		return "DW"
	case TripleWord:
		return "TW"
	}
	return "none"
}

// LetterMultiplier is 2 or 3 for letter bonuses, 1 otherwise.
func (k BonusKind) LetterMultiplier() int {
	switch k {
	case DoubleLetter:
		return 2
	case TripleLetter:
		return 3
	}
	return 1
}

// WordMultiplier is 2 or 3 for word bonuses, 1 otherwise.
func (k BonusKind) WordMultiplier() int {
	switch k {
	case DoubleWord:
		return 2
	case TripleWord:
		return 3
	}
	return 1
}

// DefaultLayout 默认奖励格布局: '.' 无, 'd' 双字母, 't' 三字母, 'D' 双词, 'T' 三词
const DefaultLayout = `...T..t.t..T...
..d..D...D..d..
.d..d.....d..d.
T..t...D...t..T
..d...d.d...d..
.D...t...t...D.
t...d.....d...t
...D.......D...
t...d.....d...t
.D...t...t...D.
..d...d.d...d..
T..t...D...t..T
.d..d.....d..d.
..d..D...D..d..
...T..t.t..T...`

// ParseLayout reads Size lines of Size symbols each.
func ParseLayout(layout string) ([Size][Size]BonusKind, error) {
	var grid [Size][Size]BonusKind
	lines := strings.Split(strings.TrimSpace(layout), "\n")
	if len(lines) != Size {
		return grid, fmt.Errorf("layout has %d rows, want %d", len(lines), Size)
	}
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != Size {
			return grid, fmt.Errorf("layout row %d has %d columns, want %d", r, len(line), Size)
		}
		for c := 0; c < Size; c++ {
			kind, err := parseSymbol(line[c])
			if err != nil {
				return grid, fmt.Errorf("layout row %d col %d: %w", r, c, err)
			}
			grid[r][c] = kind
		}
	}
	return grid, nil
}

func parseSymbol(b byte) (BonusKind, error) {
	switch b {
	case '.':
		return None, nil
	case 'd':
		return DoubleLetter, nil
	case 't':
		return TripleLetter, nil
	case 'D':
		return DoubleWord, nil
	case 'T':
		return TripleWord, nil
	}
	return None, fmt.Errorf("unknown bonus symbol %q", b)
}
