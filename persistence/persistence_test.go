package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

// exercise runs the same checks against every backend.
func exercise(t *testing.T, db Database) {
	t.Helper()
	ctx := context.Background()

	n, err := db.ImportWords(ctx, []string{"CAT", "CATS", "AT"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = db.ImportWords(ctx, []string{"CAT", "DOG"})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "existing words are skipped")

	total, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	for _, w := range []string{"cat", "CAT", " Dog "} {
		ok, err := db.IsWord(ctx, w)
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
	for _, w := range []string{"ca", "CATT", "", "C4T"} {
		ok, err := db.IsWord(ctx, w)
		require.NoError(t, err)
		assert.False(t, ok, w)
	}
}

func TestSQLiteDictionary(t *testing.T) {
	db, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	exercise(t, db)
}

func TestSQLiteClosedIsError(t *testing.T) {
	db, err := NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.IsWord(context.Background(), "CAT")
	assert.Error(t, err)
}

func TestSQLiteFilePersists(t *testing.T) {
	path := t.TempDir() + "/dict.db"
	ctx := context.Background()

	db, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	_, err = db.ImportWords(ctx, []string{"ZEN"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	ok, err := db.IsWord(ctx, "zen")
	require.NoError(t, err)
	assert.True(t, ok)
}

// 需要真实的 PostgreSQL，设置 TILEGAME_TEST_POSTGRES_DSN 后运行
func TestGormPostgreSQLDictionary(t *testing.T) {
	dsn := os.Getenv("TILEGAME_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TILEGAME_TEST_POSTGRES_DSN not set")
	}
	db, err := OpenGorm(postgres.Open(dsn))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.db.Exec("DELETE FROM dictionary").Error)

	exercise(t, db)
}
