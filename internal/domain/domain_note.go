// Package domain 定义领域模型和接口
package domain

import "time"

// Note 笔记领域模型
type Note struct {
	ID           int64
	PublicID     string
	PrimaryAlias string
	Title        string
	Tags         []string
	Content      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
