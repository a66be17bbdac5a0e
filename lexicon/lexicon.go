// lexicon/lexicon.go
package lexicon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrUnavailable 词典后端不可用，区别于“不是单词”
	ErrUnavailable = errors.New("lexicon unavailable")
	ErrInvalidWord = errors.New("candidate must contain only letters A-Z")
)

// Oracle answers whether a candidate string is a playable word.
// Lookups are exact and case-insensitive over A-Z. A non-nil error means
// the backend could not answer.
type Oracle interface {
	IsWord(ctx context.Context, candidate string) (bool, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, candidate string) (bool, error)

func (f OracleFunc) IsWord(ctx context.Context, candidate string) (bool, error) {
	return f(ctx, candidate)
}

var upper = cases.Upper(language.Und)

// Normalize upper-cases a candidate and checks it is non-empty A-Z.
// 只接受 ASCII 字母，先检查再转大写，避免 ı、ſ 之类被折叠成 I、S
func Normalize(candidate string) (string, error) {
	w := strings.TrimSpace(candidate)
	if w == "" {
		return "", ErrInvalidWord
	}
	for i := 0; i < len(w); i++ {
		c := w[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return "", fmt.Errorf("%w: %q", ErrInvalidWord, candidate)
		}
	}
	return upper.String(w), nil
}
