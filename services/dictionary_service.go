// services/dictionary_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/samber/lo"

	"github.com/khaldane/Scrabble-Game/lexicon"
	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/persistence"
)

// importBatch 每次写入的单词数
const importBatch = 1000

// DictionaryService 词典的导入与查询
type DictionaryService struct {
	db persistence.Database
}

func NewDictionaryService(db persistence.Database) *DictionaryService {
	return &DictionaryService{db: db}
}

// Seed imports one word per line from r and returns how many were new.
// Invalid lines are skipped.
func (s *DictionaryService) Seed(ctx context.Context, r io.Reader) (int, error) {
	set, err := lexicon.ReadSet(r)
	if err != nil {
		return 0, fmt.Errorf("read word list: %w", err)
	}
	return s.importSet(ctx, set)
}

// SeedFile 从文件导入
func (s *DictionaryService) SeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.Seed(ctx, f)
}

// SeedIfEmpty fills an empty store from path, or from the built-in list
// when path is empty. A store that already has words is left alone.
func (s *DictionaryService) SeedIfEmpty(ctx context.Context, path string) (int, error) {
	n, err := s.db.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Infof("词典已有 %d 个单词，跳过导入", n)
		return 0, nil
	}
	if path == "" {
		return s.importSet(ctx, lexicon.Default())
	}
	return s.SeedFile(ctx, path)
}

func (s *DictionaryService) importSet(ctx context.Context, set *lexicon.Set) (int, error) {
	words := set.Words()
	slices.Sort(words)

	total := 0
	for _, batch := range lo.Chunk(words, importBatch) {
		n, err := s.db.ImportWords(ctx, batch)
		if err != nil {
			return total, fmt.Errorf("import words: %w", err)
		}
		total += n
	}
	logger.Log.Infof("词典导入 %d 个新单词（共读取 %d 个）", total, len(words))
	return total, nil
}

// CheckWord normalizes candidate and looks it up. Invalid input is
// reported as not a word rather than an error.
func (s *DictionaryService) CheckWord(ctx context.Context, candidate string) (string, bool, error) {
	key, err := lexicon.Normalize(candidate)
	if err != nil {
		return candidate, false, nil
	}
	ok, err := s.db.IsWord(ctx, key)
	return key, ok, err
}
