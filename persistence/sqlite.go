package persistence

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite" // 纯 Go 的 SQLite 驱动
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `
        CREATE TABLE IF NOT EXISTS dictionary (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            word TEXT UNIQUE NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP
        )
    `,
	lookup: `SELECT 1 FROM dictionary WHERE word = ?`,
	insert: `INSERT OR IGNORE INTO dictionary (word) VALUES (?)`,
}

// SQLite 嵌入式词典，path 为 ":memory:" 时只存在于内存
type SQLite struct {
	sqlStore
}

// NewSQLite opens (and creates if needed) the dictionary at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// 单连接: 内存库每个连接各自独立，文件库也避免写锁竞争
	db.SetMaxOpenConns(1)

	s := &SQLite{sqlStore{db: db, d: sqliteDialect}}
	if err := s.initTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
