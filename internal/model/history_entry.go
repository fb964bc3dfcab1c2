package model

import (
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// HistoryEntry 用户历史记录模型
// (uid, note_id) 唯一，每个用户对每条笔记至多一条记录
type HistoryEntry struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement"`
	UID       int64      `gorm:"column:uid;uniqueIndex:idx_history_uid_note;not null"`
	NoteID    int64      `gorm:"column:note_id;uniqueIndex:idx_history_uid_note;not null"`
	PinStatus bool       `gorm:"column:pin_status;not null;default:false"`
	UpdatedAt timex.Time `gorm:"column:updated_at"`
}

func (m HistoryEntry) TableName() string {
	return "history_entry"
}
