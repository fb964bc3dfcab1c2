package model

import (
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// Author 贡献身份模型，作用域为单条笔记
// UserUID 为 0 表示匿名作者，其身份只允许被计数，不允许被展示
type Author struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	NoteID    int64      `gorm:"column:note_id;index:idx_author_note;not null"`
	UserUID   int64      `gorm:"column:user_uid;index:idx_author_user;not null;default:0"`
	CreatedAt timex.Time `gorm:"column:created_at"`
}

func (m Author) TableName() string {
	return "author"
}
