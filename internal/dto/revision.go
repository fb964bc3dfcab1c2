// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/note-revision-service/pkg/timex"

// RevisionGetRequest 获取单个修订版本的请求参数
type RevisionGetRequest struct {
	Note       string `json:"note" form:"note" uri:"note" binding:"required"`
	RevisionID int64  `json:"revisionId" form:"revisionId" uri:"revisionId" binding:"required"`
}

// RevisionListRequest 获取笔记全部修订版本的请求参数
type RevisionListRequest struct {
	Note string `json:"note" form:"note" uri:"note" binding:"required"`
}

// RevisionPurgeRequest 清理修订历史的请求参数
type RevisionPurgeRequest struct {
	Note string `json:"note" form:"note" uri:"note" binding:"required"`
}

// RevisionFoldRequest 触发修订折叠的请求参数
type RevisionFoldRequest struct {
	Note string `json:"note" form:"note" binding:"required"`
}

// EditDTO 单条编辑记录
// Username 为空表示匿名作者
type EditDTO struct {
	Username  string     `json:"username,omitempty"`
	StartPos  int64      `json:"startPos"`
	EndPos    int64      `json:"endPos"`
	CreatedAt timex.Time `json:"createdAt"`
}

// RevisionMetadataDTO 修订版本元数据
// 匿名作者不出现在 AuthorUsernames 中，只计入 AnonymousAuthorCount
type RevisionMetadataDTO struct {
	ID                   int64      `json:"id"`
	Length               int64      `json:"length"`
	CreatedAt            timex.Time `json:"createdAt"`
	AuthorUsernames      []string   `json:"authorUsernames"`
	AnonymousAuthorCount int64      `json:"anonymousAuthorCount"`
}

// RevisionDTO 完整修订版本，含内容、补丁和编辑记录
type RevisionDTO struct {
	RevisionMetadataDTO
	Content string    `json:"content"`
	Patch   string    `json:"patch"`
	Edits   []EditDTO `json:"edits"`
}

// RevisionPurgeResponse 清理结果
type RevisionPurgeResponse struct {
	PurgedCount int64 `json:"purgedCount"`
	KeptID      int64 `json:"keptId"`
}

// RevisionFoldResponse 折叠结果
type RevisionFoldResponse struct {
	Created      bool  `json:"created"`
	RevisionID   int64 `json:"revisionId,omitempty"`
	ClaimedEdits int64 `json:"claimedEdits"`
}
