// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id int64) (*Note, error)

	// GetByRef 根据 PublicID 或主别名获取笔记
	GetByRef(ctx context.Context, ref string) (*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// UpdateContent 更新笔记正文
	UpdateContent(ctx context.Context, content string, id int64) error

	// UpdateMeta 更新笔记标题和标签
	UpdateMeta(ctx context.Context, title string, tags []string, id int64) error

	// UpdatePrimaryAlias 更新笔记主别名
	UpdatePrimaryAlias(ctx context.Context, alias string, id int64) error

	// ExistsAlias 判断别名是否已被占用
	ExistsAlias(ctx context.Context, alias string) (bool, error)

	// Delete 物理删除笔记
	Delete(ctx context.Context, id int64) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ListByUIDs 根据UID集合批量获取用户
	ListByUIDs(ctx context.Context, uids []int64) ([]*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)
}

// RevisionRepository 修订版本仓储接口
// 所有按序操作以 (created_at, id) 为排序键
type RevisionRepository interface {
	// GetByID 获取指定笔记下的修订版本，noteID 不匹配视为不存在
	GetByID(ctx context.Context, id, noteID int64) (*Revision, error)

	// GetLatest 获取笔记的最新修订版本
	GetLatest(ctx context.Context, noteID int64) (*Revision, error)

	// GetFirst 获取笔记的最早修订版本
	GetFirst(ctx context.Context, noteID int64) (*Revision, error)

	// ListByNoteID 按时间升序获取笔记的全部修订版本
	ListByNoteID(ctx context.Context, noteID int64) ([]*Revision, error)

	// Create 创建修订版本
	Create(ctx context.Context, revision *Revision) (*Revision, error)

	// Count 获取笔记的修订版本数量
	Count(ctx context.Context, noteID int64) (int64, error)

	// ListNoteIDsOverRevisionCount 获取修订版本数量超过 max 的笔记ID列表
	ListNoteIDsOverRevisionCount(ctx context.Context, max int64) ([]int64, error)

	// DeleteAllButLatest 删除除最新修订版本外的全部修订版本，返回被删除的版本
	DeleteAllButLatest(ctx context.Context, noteID int64) ([]*Revision, error)

	// DeleteAllByNoteID 删除笔记的全部修订版本
	DeleteAllByNoteID(ctx context.Context, noteID int64) error
}

// EditRepository 编辑记录仓储接口
type EditRepository interface {
	// Create 创建编辑记录
	Create(ctx context.Context, edit *Edit) (*Edit, error)

	// ListByRevisionID 获取归属于指定修订版本的编辑记录
	ListByRevisionID(ctx context.Context, revisionID int64) ([]*Edit, error)

	// ListPending 获取笔记下尚未折叠的编辑记录
	ListPending(ctx context.Context, noteID int64) ([]*Edit, error)

	// ClaimPending 将笔记下未折叠的编辑记录归属到修订版本，返回归属数量
	ClaimPending(ctx context.Context, noteID, revisionID int64) (int64, error)

	// ListNoteIDsPending 获取存在未折叠编辑记录的笔记ID列表
	ListNoteIDsPending(ctx context.Context) ([]int64, error)

	// ReassignRevisions 将若干修订版本下的编辑记录改挂到目标修订版本
	// 清理修订历史时保留编辑归属，作者信息不随版本删除丢失
	ReassignRevisions(ctx context.Context, fromRevisionIDs []int64, toRevisionID int64) error

	// DeleteAllByNoteID 删除笔记的全部编辑记录
	DeleteAllByNoteID(ctx context.Context, noteID int64) error
}

// AuthorRepository 作者仓储接口
// userUID 为 0 表示匿名作者
type AuthorRepository interface {
	// GetByID 根据ID获取作者
	GetByID(ctx context.Context, id int64) (Author, error)

	// GetOrCreate 获取或创建笔记下指定用户的作者记录
	// userUID 为 0 时总是创建新的匿名作者
	GetOrCreate(ctx context.Context, noteID, userUID int64) (Author, error)

	// ListByNoteID 获取笔记的全部作者
	ListByNoteID(ctx context.Context, noteID int64) ([]Author, error)

	// ListByRevisionID 获取修订版本内编辑记录涉及的作者（去重）
	ListByRevisionID(ctx context.Context, revisionID int64) ([]Author, error)

	// DeleteAllByNoteID 删除笔记的全部作者记录
	DeleteAllByNoteID(ctx context.Context, noteID int64) error
}

// HistoryRepository 历史记录仓储接口
type HistoryRepository interface {
	// GetByUIDNote 获取用户对指定笔记的历史记录
	GetByUIDNote(ctx context.Context, uid, noteID int64) (*HistoryEntry, error)

	// ListByUID 获取用户的全部历史记录，按最近访问倒序
	ListByUID(ctx context.Context, uid int64) ([]*HistoryEntry, error)

	// Touch 更新访问时间，不存在时创建（原子 upsert）
	Touch(ctx context.Context, uid, noteID int64) (*HistoryEntry, error)

	// UpdatePinStatus 更新置顶状态
	UpdatePinStatus(ctx context.Context, pinStatus bool, uid, noteID int64) error

	// Delete 删除单条历史记录
	Delete(ctx context.Context, uid, noteID int64) error

	// DeleteAllByUID 删除用户的全部历史记录
	DeleteAllByUID(ctx context.Context, uid int64) error

	// ReplaceAll 原子替换用户的全部历史记录
	ReplaceAll(ctx context.Context, uid int64, entries []*HistoryEntry) error

	// DeleteAllByNoteID 删除笔记相关的全部历史记录
	DeleteAllByNoteID(ctx context.Context, noteID int64) error
}
