package lexicon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	w, err := Normalize(" cat ")
	require.NoError(t, err)
	assert.Equal(t, "CAT", w)

	_, err = Normalize("")
	assert.ErrorIs(t, err, ErrInvalidWord)

	_, err = Normalize("c4t")
	assert.ErrorIs(t, err, ErrInvalidWord)

	// 非 ASCII 字母不折叠
	for _, w := range []string{"ıt", "ſat", "çat"} {
		_, err = Normalize(w)
		assert.ErrorIs(t, err, ErrInvalidWord, w)
	}
}

func TestSetRejectsNonASCII(t *testing.T) {
	ok, err := NewSet("it", "sat").IsWord(context.Background(), "ıt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetIsWord(t *testing.T) {
	ctx := context.Background()
	s := NewSet("cat", "DOG", "not a word")
	assert.Equal(t, 2, s.Len())

	ok, err := s.IsWord(ctx, "Cat")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.IsWord(ctx, "CA")
	require.NoError(t, err)
	assert.False(t, ok, "only exact matches count")

	ok, err = s.IsWord(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadSet(t *testing.T) {
	s, err := ReadSet(strings.NewReader("# comment\ncat\n\n dog \n"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"CAT", "DOG"}, s.Words())
}

func TestDefaultWords(t *testing.T) {
	s := Default()
	for _, w := range []string{"cat", "dog", "at", "zoo"} {
		ok, err := s.IsWord(context.Background(), w)
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
}

func TestRetryingRecovers(t *testing.T) {
	calls := 0
	flaky := OracleFunc(func(ctx context.Context, candidate string) (bool, error) {
		calls++
		if calls < 3 {
			return false, errors.New("connection reset")
		}
		return candidate == "CAT", nil
	})

	r := NewRetrying(flaky, 3, time.Millisecond)
	ok, err := r.IsWord(context.Background(), "CAT")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, calls)
}

func TestRetryingExhausted(t *testing.T) {
	calls := 0
	down := OracleFunc(func(ctx context.Context, candidate string) (bool, error) {
		calls++
		return false, errors.New("connection refused")
	})

	r := NewRetrying(down, 2, time.Millisecond)
	ok, err := r.IsWord(context.Background(), "CAT")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, calls)
}
