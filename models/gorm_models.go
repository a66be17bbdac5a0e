// models/gorm_models.go
package models

import (
	"time"
)

// DictionaryWord 词典表中的一个单词，全部大写
type DictionaryWord struct {
	ID        uint      `gorm:"primaryKey"`
	Word      string    `gorm:"uniqueIndex;size:32;not null"`
	CreatedAt time.Time
}

func (DictionaryWord) TableName() string {
	return "dictionary"
}
