// lexicon/set.go
package lexicon

import (
	"bufio"
	"context"
	_ "embed"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var defaultWords string

// Set 内存词表
type Set struct {
	words map[string]struct{}
}

// NewSet builds a set from words; entries that are not A-Z are skipped.
func NewSet(words ...string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Default returns the embedded word list.
func Default() *Set {
	s, _ := ReadSet(strings.NewReader(defaultWords))
	return s
}

// ReadSet reads one word per line. Blank lines and lines starting with
// '#' are ignored.
func ReadSet(r io.Reader) (*Set, error) {
	s := NewSet()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads a word list from disk.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSet(f)
}

// Add inserts a word, reporting whether it was valid.
func (s *Set) Add(word string) bool {
	w, err := Normalize(word)
	if err != nil {
		return false
	}
	s.words[w] = struct{}{}
	return true
}

func (s *Set) Len() int {
	return len(s.words)
}

// Words returns the set contents in no particular order.
func (s *Set) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	return out
}

func (s *Set) IsWord(_ context.Context, candidate string) (bool, error) {
	w, err := Normalize(candidate)
	if err != nil {
		return false, nil
	}
	_, ok := s.words[w]
	return ok, nil
}
