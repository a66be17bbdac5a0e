// persistence/gorm_postgresql.go
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/khaldane/Scrabble-Game/logger"
	"github.com/khaldane/Scrabble-Game/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// zapWriter 把 GORM 日志转到 zap
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Log.Debugf(format, args...)
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
	return OpenGorm(postgres.Open(dsn))
}

// OpenGorm opens the dictionary on any GORM dialector and migrates it.
func OpenGorm(dialector gorm.Dialector) (*GormPostgreSQL, error) {
	// 配置GORM日志
	gormLogger := gormlogger.New(
		zapWriter{},
		gormlogger.Config{
			SlowThreshold:             time.Second,     // 慢SQL阈值
			LogLevel:                  gormlogger.Warn, // 日志级别
			IgnoreRecordNotFoundError: true,            // 查不到单词是正常结果
			Colorful:                  false,           // 禁用彩色打印
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.DictionaryWord{}); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// IsWord 查询单词是否存在
func (p *GormPostgreSQL) IsWord(ctx context.Context, candidate string) (bool, error) {
	key, ok := lookupKey(candidate)
	if !ok {
		return false, nil
	}

	var w models.DictionaryWord
	err := p.db.WithContext(ctx).Where("word = ?", key).Take(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ImportWords 批量插入，冲突时跳过
func (p *GormPostgreSQL) ImportWords(ctx context.Context, words []string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}
	rows := make([]models.DictionaryWord, len(words))
	for i, w := range words {
		rows[i] = models.DictionaryWord{Word: w}
	}

	var inserted int64
	err := p.Transaction(func(tx *gorm.DB) error {
		res := tx.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "word"}}, DoNothing: true}).
			CreateInBatches(rows, 500)
		inserted = res.RowsAffected
		return res.Error
	})
	return int(inserted), err
}

// Count 单词总数
func (p *GormPostgreSQL) Count(ctx context.Context) (int64, error) {
	var n int64
	err := p.db.WithContext(ctx).Model(&models.DictionaryWord{}).Count(&n).Error
	return n, err
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// 添加事务支持
func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}
