// Package domain 定义领域模型和接口
package domain

import "time"

// Edit 原子编辑领域模型
// RevisionID 为 0 表示尚未折叠进修订版本
type Edit struct {
	ID         int64
	NoteID     int64
	AuthorID   int64
	RevisionID int64
	StartPos   int64
	EndPos     int64
	CreatedAt  time.Time
}
