// Package domain 定义领域模型和接口
package domain

import "time"

// Revision 修订版本领域模型
// Patch 是相对于前一修订版本的文本补丁，首个修订版本为空串
type Revision struct {
	ID        int64
	NoteID    int64
	Content   string
	Patch     string
	Length    int64
	CreatedAt time.Time
}
