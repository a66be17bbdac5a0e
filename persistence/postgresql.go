// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq" // PostgreSQL 驱动
)

var postgresDialect = dialect{
	name: "postgres",
	schema: `
        CREATE TABLE IF NOT EXISTS dictionary (
            id SERIAL PRIMARY KEY,
            word VARCHAR(32) UNIQUE NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `,
	lookup: `SELECT 1 FROM dictionary WHERE word = $1`,
	insert: `INSERT INTO dictionary (word) VALUES ($1) ON CONFLICT (word) DO NOTHING`,
}

// PostgreSQL 数据库实现
type PostgreSQL struct {
	sqlStore
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	p := &PostgreSQL{sqlStore{db: db, d: postgresDialect}}
	// 初始化表结构
	if err := p.initTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}
