package model

import (
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// User 注册用户模型
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement"`
	Username  string     `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	CreatedAt timex.Time `gorm:"column:created_at"`
}

func (m User) TableName() string {
	return "user"
}
