package model

import (
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// Note 笔记模型
// Content 是实时编辑层维护的当前内容，折叠时成为新修订版本的内容
type Note struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	PublicID     string     `gorm:"column:public_id;type:varchar(64);uniqueIndex;not null"`
	PrimaryAlias string     `gorm:"column:primary_alias;type:varchar(255);index;not null;default:''"`
	Title        string     `gorm:"column:title;type:varchar(255);not null;default:''"`
	Tags         string     `gorm:"column:tags;type:varchar(1024);not null;default:''"`
	Content      string     `gorm:"column:content;type:longtext"`
	CreatedAt    timex.Time `gorm:"column:created_at"`
	UpdatedAt    timex.Time `gorm:"column:updated_at"`
}

func (m Note) TableName() string {
	return "note"
}
