// Package domain 定义领域模型和接口
package domain

import "time"

// HistoryEntry 用户历史记录领域模型
// 以 (UID, NoteID) 为唯一标识
type HistoryEntry struct {
	ID        int64
	UID       int64
	NoteID    int64
	PinStatus bool
	UpdatedAt time.Time
}

// HistoryImportEntry 历史记录导入条目
// NoteRef 为笔记的 PublicID 或别名
type HistoryImportEntry struct {
	NoteRef       string
	PinStatus     bool
	LastVisitedAt time.Time
}
