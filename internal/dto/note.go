// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/note-revision-service/pkg/timex"

// NoteCreateRequest 创建笔记的请求参数
type NoteCreateRequest struct {
	Alias   string   `json:"alias" form:"alias"`
	Title   string   `json:"title" form:"title"`
	Tags    []string `json:"tags" form:"tags"`
	Content string   `json:"content" form:"content"`
}

// NoteEditRequest 记录一次原子编辑的请求参数
// 匿名访客不携带认证信息时 UID 为 0
type NoteEditRequest struct {
	Note     string `json:"note" form:"note" binding:"required"`
	Content  string `json:"content" form:"content"`
	StartPos int64  `json:"startPos" form:"startPos"`
	EndPos   int64  `json:"endPos" form:"endPos"`
}

// NoteRenameRequest 修改笔记主别名的请求参数
type NoteRenameRequest struct {
	Note  string `json:"note" form:"note" binding:"required"`
	Alias string `json:"alias" form:"alias" binding:"required"`
}

// NoteDTO 笔记基础信息
type NoteDTO struct {
	PublicID     string     `json:"publicId"`
	PrimaryAlias string     `json:"primaryAlias,omitempty"`
	Title        string     `json:"title"`
	Tags         []string   `json:"tags"`
	CreatedAt    timex.Time `json:"createdAt"`
	UpdatedAt    timex.Time `json:"updatedAt"`
}
