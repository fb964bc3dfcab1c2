// Package domain 定义领域模型和接口
package domain

// Author 一条笔记范围内的贡献身份
// 密封的和类型：要么关联注册用户 (LinkedAuthor)，要么匿名 (AnonymousAuthor)
// 调用方必须对两种情况分别处理，匿名身份只允许被计数
type Author interface {
	// AuthorID 作者记录 ID，去重以此为准
	AuthorID() int64
	isAuthor()
}

// LinkedAuthor 关联了注册用户的作者
type LinkedAuthor struct {
	ID     int64
	NoteID int64
	User   User
}

func (a LinkedAuthor) AuthorID() int64 { return a.ID }

func (LinkedAuthor) isAuthor() {}

// AnonymousAuthor 未关联任何注册用户的作者
type AnonymousAuthor struct {
	ID     int64
	NoteID int64
}

func (a AnonymousAuthor) AuthorID() int64 { return a.ID }

func (AnonymousAuthor) isAuthor() {}
