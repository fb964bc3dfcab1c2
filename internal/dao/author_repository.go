// Package dao 实现数据访问层
package dao

import (
	"context"
	"errors"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/timex"

	"gorm.io/gorm"
)

// authorRepository 实现 domain.AuthorRepository 接口
type authorRepository struct {
	dao *Dao
}

// NewAuthorRepository 创建 AuthorRepository 实例
func NewAuthorRepository(dao *Dao) domain.AuthorRepository {
	return &authorRepository{dao: dao}
}

var _ domain.AuthorRepository = (*authorRepository)(nil)

// toDomain 将作者记录转换为和类型
// 用户记录缺失时降级为匿名作者，对外不暴露悬挂的用户引用
func (r *authorRepository) toDomain(ctx context.Context, m *model.Author) (domain.Author, error) {
	if m.UserUID == 0 {
		return domain.AnonymousAuthor{ID: m.ID, NoteID: m.NoteID}, nil
	}
	var u model.User
	err := r.dao.db.WithContext(ctx).Where("uid = ?", m.UserUID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AnonymousAuthor{ID: m.ID, NoteID: m.NoteID}, nil
		}
		return nil, err
	}
	return domain.LinkedAuthor{
		ID:     m.ID,
		NoteID: m.NoteID,
		User: domain.User{
			UID:       u.UID,
			Username:  u.Username,
			CreatedAt: u.CreatedAt.Time(),
		},
	}, nil
}

// toDomainList 批量转换作者记录，用户查询按 UID 去重
func (r *authorRepository) toDomainList(ctx context.Context, ms []*model.Author) ([]domain.Author, error) {
	uids := make([]int64, 0, len(ms))
	seen := make(map[int64]bool)
	for _, m := range ms {
		if m.UserUID != 0 && !seen[m.UserUID] {
			seen[m.UserUID] = true
			uids = append(uids, m.UserUID)
		}
	}

	users := make(map[int64]*model.User, len(uids))
	if len(uids) > 0 {
		var us []*model.User
		err := r.dao.db.WithContext(ctx).Where("uid IN ?", uids).Find(&us).Error
		if err != nil {
			return nil, err
		}
		for _, u := range us {
			users[u.UID] = u
		}
	}

	authors := make([]domain.Author, 0, len(ms))
	for _, m := range ms {
		u, ok := users[m.UserUID]
		if m.UserUID == 0 || !ok {
			authors = append(authors, domain.AnonymousAuthor{ID: m.ID, NoteID: m.NoteID})
			continue
		}
		authors = append(authors, domain.LinkedAuthor{
			ID:     m.ID,
			NoteID: m.NoteID,
			User: domain.User{
				UID:       u.UID,
				Username:  u.Username,
				CreatedAt: u.CreatedAt.Time(),
			},
		})
	}
	return authors, nil
}

// GetByID 根据ID获取作者
func (r *authorRepository) GetByID(ctx context.Context, id int64) (domain.Author, error) {
	var m model.Author
	err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(ctx, &m)
}

// GetOrCreate 获取或创建笔记下指定用户的作者记录
// userUID 为 0 时总是创建新的匿名作者
func (r *authorRepository) GetOrCreate(ctx context.Context, noteID, userUID int64) (domain.Author, error) {
	if userUID != 0 {
		var m model.Author
		err := r.dao.db.WithContext(ctx).
			Where("note_id = ? AND user_uid = ?", noteID, userUID).
			First(&m).Error
		if err == nil {
			return r.toDomain(ctx, &m)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	m := &model.Author{
		NoteID:    noteID,
		UserUID:   userUID,
		CreatedAt: timex.Now(),
	}
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(ctx, m)
}

// ListByNoteID 获取笔记的全部作者
func (r *authorRepository) ListByNoteID(ctx context.Context, noteID int64) ([]domain.Author, error) {
	var ms []*model.Author
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ctx, ms)
}

// ListByRevisionID 获取修订版本内编辑记录涉及的作者（去重）
func (r *authorRepository) ListByRevisionID(ctx context.Context, revisionID int64) ([]domain.Author, error) {
	var ms []*model.Author
	err := r.dao.db.WithContext(ctx).Model(&model.Author{}).
		Distinct("author.*").
		Joins("JOIN edit ON edit.author_id = author.id").
		Where("edit.revision_id = ?", revisionID).
		Order("author.id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ctx, ms)
}

// DeleteAllByNoteID 删除笔记的全部作者记录
func (r *authorRepository) DeleteAllByNoteID(ctx context.Context, noteID int64) error {
	return r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&model.Author{}).Error
}
