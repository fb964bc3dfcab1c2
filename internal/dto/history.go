// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/note-revision-service/pkg/timex"

// HistoryEntryDTO 单条历史记录
// Identifier 优先使用笔记主别名，没有别名时使用 PublicID
type HistoryEntryDTO struct {
	Identifier    string     `json:"identifier"`
	Title         string     `json:"title"`
	Tags          []string   `json:"tags"`
	PinStatus     bool       `json:"pinStatus"`
	LastVisitedAt timex.Time `json:"lastVisitedAt"`
}

// HistoryImportEntryRequest 导入的单条历史记录
type HistoryImportEntryRequest struct {
	Note          string     `json:"note" form:"note" binding:"required"`
	PinStatus     bool       `json:"pinStatus" form:"pinStatus"`
	LastVisitedAt timex.Time `json:"lastVisitedAt" form:"lastVisitedAt"`
}

// HistoryImportRequest 全量替换历史记录的请求参数
type HistoryImportRequest struct {
	History []HistoryImportEntryRequest `json:"history" binding:"required"`
}

// HistoryUpdateRequest 更新单条历史记录的请求参数
type HistoryUpdateRequest struct {
	PinStatus bool `json:"pinStatus" form:"pinStatus"`
}

// HistoryTouchRequest 记录一次笔记访问的请求参数
type HistoryTouchRequest struct {
	Note string `json:"note" form:"note" uri:"note" binding:"required"`
}
