// persistence/interface.go
package persistence

import (
	"context"

	"github.com/khaldane/Scrabble-Game/lexicon"
)

// Database 词典存储接口，每个实现同时是一个 lexicon.Oracle
type Database interface {
	lexicon.Oracle
	// ImportWords inserts words that are not stored yet and returns how many
	// were new. Words must already be normalized.
	ImportWords(ctx context.Context, words []string) (int, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// lookupKey normalizes a candidate; ok is false for anything that can
// never be stored, which callers report as "not a word".
func lookupKey(candidate string) (key string, ok bool) {
	key, err := lexicon.Normalize(candidate)
	return key, err == nil
}
