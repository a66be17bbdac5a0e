package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// dialect holds the statements that differ between SQL backends.
type dialect struct {
	name   string
	schema string
	lookup string
	insert string
}

// sqlStore 基于 database/sql 的词典表实现，PostgreSQL 与 SQLite 共用
type sqlStore struct {
	db *sql.DB
	d  dialect
}

func (s *sqlStore) initTables(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.d.schema); err != nil {
		return fmt.Errorf("%s: create dictionary table: %w", s.d.name, err)
	}
	return nil
}

// IsWord 查询单词是否存在
func (s *sqlStore) IsWord(ctx context.Context, candidate string) (bool, error) {
	key, ok := lookupKey(candidate)
	if !ok {
		return false, nil
	}

	var one int
	err := s.db.QueryRowContext(ctx, s.d.lookup, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: lookup %s: %w", s.d.name, key, err)
	}
	return true, nil
}

// ImportWords 在一个事务中批量插入，已存在的单词跳过
func (s *sqlStore) ImportWords(ctx context.Context, words []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.d.insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, w := range words {
		res, err := stmt.ExecContext(ctx, w)
		if err != nil {
			return 0, fmt.Errorf("%s: insert %s: %w", s.d.name, w, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count 单词总数
func (s *sqlStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dictionary`).Scan(&n)
	return n, err
}

// Close 关闭数据库连接
func (s *sqlStore) Close() error {
	return s.db.Close()
}
