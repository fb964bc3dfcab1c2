// Package dao 实现数据访问层
package dao

import (
	"context"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// revisionRepository 实现 domain.RevisionRepository 接口
type revisionRepository struct {
	dao *Dao
}

// NewRevisionRepository 创建 RevisionRepository 实例
func NewRevisionRepository(dao *Dao) domain.RevisionRepository {
	return &revisionRepository{dao: dao}
}

var _ domain.RevisionRepository = (*revisionRepository)(nil)

func (r *revisionRepository) toDomain(m *model.Revision) *domain.Revision {
	if m == nil {
		return nil
	}
	return &domain.Revision{
		ID:        m.ID,
		NoteID:    m.NoteID,
		Content:   m.Content,
		Patch:     m.Patch,
		Length:    m.Length,
		CreatedAt: m.CreatedAt.Time(),
	}
}

func (r *revisionRepository) toDomainList(ms []*model.Revision) []*domain.Revision {
	revisions := make([]*domain.Revision, 0, len(ms))
	for _, m := range ms {
		revisions = append(revisions, r.toDomain(m))
	}
	return revisions
}

// GetByID 获取指定笔记下的修订版本，noteID 不匹配视为不存在
func (r *revisionRepository) GetByID(ctx context.Context, id, noteID int64) (*domain.Revision, error) {
	var m model.Revision
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND note_id = ?", id, noteID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetLatest 获取笔记的最新修订版本
func (r *revisionRepository) GetLatest(ctx context.Context, noteID int64) (*domain.Revision, error) {
	var m model.Revision
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetFirst 获取笔记的最早修订版本
func (r *revisionRepository) GetFirst(ctx context.Context, noteID int64) (*domain.Revision, error) {
	var m model.Revision
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at ASC, id ASC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByNoteID 按时间升序获取笔记的全部修订版本
func (r *revisionRepository) ListByNoteID(ctx context.Context, noteID int64) ([]*domain.Revision, error) {
	var ms []*model.Revision
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// Create 创建修订版本
func (r *revisionRepository) Create(ctx context.Context, revision *domain.Revision) (*domain.Revision, error) {
	m := &model.Revision{
		NoteID:    revision.NoteID,
		Content:   revision.Content,
		Patch:     revision.Patch,
		Length:    revision.Length,
		CreatedAt: timex.Time(revision.CreatedAt),
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = timex.Now()
	}
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Count 获取笔记的修订版本数量
func (r *revisionRepository) Count(ctx context.Context, noteID int64) (int64, error) {
	var count int64
	err := r.dao.db.WithContext(ctx).Model(&model.Revision{}).
		Where("note_id = ?", noteID).
		Count(&count).Error
	return count, err
}

// ListNoteIDsOverRevisionCount 获取修订版本数量超过 max 的笔记ID列表
func (r *revisionRepository) ListNoteIDsOverRevisionCount(ctx context.Context, max int64) ([]int64, error) {
	var noteIDs []int64
	err := r.dao.db.WithContext(ctx).Model(&model.Revision{}).
		Select("note_id").
		Group("note_id").
		Having("COUNT(*) > ?", max).
		Pluck("note_id", &noteIDs).Error
	if err != nil {
		return nil, err
	}
	return noteIDs, nil
}

// DeleteAllButLatest 删除除最新修订版本外的全部修订版本，返回被删除的版本
func (r *revisionRepository) DeleteAllButLatest(ctx context.Context, noteID int64) ([]*domain.Revision, error) {
	var latest model.Revision
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		return nil, err
	}

	var victims []*model.Revision
	err = r.dao.db.WithContext(ctx).
		Where("note_id = ? AND id <> ?", noteID, latest.ID).
		Order("created_at ASC, id ASC").
		Find(&victims).Error
	if err != nil {
		return nil, err
	}
	if len(victims) == 0 {
		return nil, nil
	}

	err = r.dao.db.WithContext(ctx).
		Where("note_id = ? AND id <> ?", noteID, latest.ID).
		Delete(&model.Revision{}).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(victims), nil
}

// DeleteAllByNoteID 删除笔记的全部修订版本
func (r *revisionRepository) DeleteAllByNoteID(ctx context.Context, noteID int64) error {
	return r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&model.Revision{}).Error
}
