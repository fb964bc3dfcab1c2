package model

import (
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// Edit 原子编辑模型
// RevisionID 为 0 表示尚未折叠进任何修订版本
type Edit struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	NoteID     int64      `gorm:"column:note_id;index:idx_edit_note;not null"`
	AuthorID   int64      `gorm:"column:author_id;index:idx_edit_author;not null"`
	RevisionID int64      `gorm:"column:revision_id;index:idx_edit_revision;not null;default:0"`
	StartPos   int64      `gorm:"column:start_pos;not null;default:0"`
	EndPos     int64      `gorm:"column:end_pos;not null;default:0"`
	CreatedAt  timex.Time `gorm:"column:created_at"`
}

func (m Edit) TableName() string {
	return "edit"
}
