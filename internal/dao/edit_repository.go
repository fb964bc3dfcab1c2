// Package dao 实现数据访问层
package dao

import (
	"context"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// editRepository 实现 domain.EditRepository 接口
type editRepository struct {
	dao *Dao
}

// NewEditRepository 创建 EditRepository 实例
func NewEditRepository(dao *Dao) domain.EditRepository {
	return &editRepository{dao: dao}
}

var _ domain.EditRepository = (*editRepository)(nil)

func (r *editRepository) toDomain(m *model.Edit) *domain.Edit {
	if m == nil {
		return nil
	}
	return &domain.Edit{
		ID:         m.ID,
		NoteID:     m.NoteID,
		AuthorID:   m.AuthorID,
		RevisionID: m.RevisionID,
		StartPos:   m.StartPos,
		EndPos:     m.EndPos,
		CreatedAt:  m.CreatedAt.Time(),
	}
}

func (r *editRepository) toDomainList(ms []*model.Edit) []*domain.Edit {
	edits := make([]*domain.Edit, 0, len(ms))
	for _, m := range ms {
		edits = append(edits, r.toDomain(m))
	}
	return edits
}

// Create 创建编辑记录
func (r *editRepository) Create(ctx context.Context, edit *domain.Edit) (*domain.Edit, error) {
	m := &model.Edit{
		NoteID:     edit.NoteID,
		AuthorID:   edit.AuthorID,
		RevisionID: edit.RevisionID,
		StartPos:   edit.StartPos,
		EndPos:     edit.EndPos,
		CreatedAt:  timex.Now(),
	}
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// ListByRevisionID 获取归属于指定修订版本的编辑记录
func (r *editRepository) ListByRevisionID(ctx context.Context, revisionID int64) ([]*domain.Edit, error) {
	var ms []*model.Edit
	err := r.dao.db.WithContext(ctx).
		Where("revision_id = ?", revisionID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ListPending 获取笔记下尚未折叠的编辑记录
func (r *editRepository) ListPending(ctx context.Context, noteID int64) ([]*domain.Edit, error) {
	var ms []*model.Edit
	err := r.dao.db.WithContext(ctx).
		Where("note_id = ? AND revision_id = 0", noteID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(ms), nil
}

// ClaimPending 将笔记下未折叠的编辑记录归属到修订版本，返回归属数量
func (r *editRepository) ClaimPending(ctx context.Context, noteID, revisionID int64) (int64, error) {
	result := r.dao.db.WithContext(ctx).Model(&model.Edit{}).
		Where("note_id = ? AND revision_id = 0", noteID).
		Update("revision_id", revisionID)
	return result.RowsAffected, result.Error
}

// ListNoteIDsPending 获取存在未折叠编辑记录的笔记ID列表
func (r *editRepository) ListNoteIDsPending(ctx context.Context) ([]int64, error) {
	var noteIDs []int64
	err := r.dao.db.WithContext(ctx).Model(&model.Edit{}).
		Distinct("note_id").
		Where("revision_id = 0").
		Pluck("note_id", &noteIDs).Error
	if err != nil {
		return nil, err
	}
	return noteIDs, nil
}

// ReassignRevisions 将若干修订版本下的编辑记录改挂到目标修订版本
func (r *editRepository) ReassignRevisions(ctx context.Context, fromRevisionIDs []int64, toRevisionID int64) error {
	if len(fromRevisionIDs) == 0 {
		return nil
	}
	return r.dao.db.WithContext(ctx).Model(&model.Edit{}).
		Where("revision_id IN ?", fromRevisionIDs).
		Update("revision_id", toRevisionID).Error
}

// DeleteAllByNoteID 删除笔记的全部编辑记录
func (r *editRepository) DeleteAllByNoteID(ctx context.Context, noteID int64) error {
	return r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&model.Edit{}).Error
}
