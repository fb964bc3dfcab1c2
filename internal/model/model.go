// Package model 定义数据库模型
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名执行自动迁移，空串迁移全部模型
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "Note":
		return db.AutoMigrate(Note{})
	case "User":
		return db.AutoMigrate(User{})
	case "Revision":
		return db.AutoMigrate(Revision{})
	case "Edit":
		return db.AutoMigrate(Edit{})
	case "Author":
		return db.AutoMigrate(Author{})
	case "HistoryEntry":
		return db.AutoMigrate(HistoryEntry{})
	case "":
		return db.AutoMigrate(Note{}, User{}, Revision{}, Edit{}, Author{}, HistoryEntry{})
	}
	return nil
}
