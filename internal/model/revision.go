package model

import (
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// Revision 修订版本模型
// 同一笔记的修订版本按 (created_at, id) 升序全序排列
type Revision struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	NoteID    int64      `gorm:"column:note_id;index:idx_revision_note;not null"`
	Content   string     `gorm:"column:content;type:longtext"`
	Patch     string     `gorm:"column:patch;type:longtext"`
	Length    int64      `gorm:"column:length;not null;default:0"`
	CreatedAt timex.Time `gorm:"column:created_at;index:idx_revision_created"`
}

func (m Revision) TableName() string {
	return "revision"
}
