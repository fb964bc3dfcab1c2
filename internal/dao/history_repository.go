// Package dao 实现数据访问层
package dao

import (
	"context"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/convert"
	"github.com/haierkeys/note-revision-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// historyRepository 实现 domain.HistoryRepository 接口
type historyRepository struct {
	dao *Dao
}

// NewHistoryRepository 创建 HistoryRepository 实例
func NewHistoryRepository(dao *Dao) domain.HistoryRepository {
	return &historyRepository{dao: dao}
}

var _ domain.HistoryRepository = (*historyRepository)(nil)

func (r *historyRepository) toDomain(m *model.HistoryEntry) *domain.HistoryEntry {
	if m == nil {
		return nil
	}
	return convert.StructAssign(m, &domain.HistoryEntry{}).(*domain.HistoryEntry)
}

// GetByUIDNote 获取用户对指定笔记的历史记录
func (r *historyRepository) GetByUIDNote(ctx context.Context, uid, noteID int64) (*domain.HistoryEntry, error) {
	var m model.HistoryEntry
	err := r.dao.db.WithContext(ctx).
		Where("uid = ? AND note_id = ?", uid, noteID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByUID 获取用户的全部历史记录，按最近访问倒序
func (r *historyRepository) ListByUID(ctx context.Context, uid int64) ([]*domain.HistoryEntry, error) {
	var ms []*model.HistoryEntry
	err := r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("updated_at DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	entries := make([]*domain.HistoryEntry, 0, len(ms))
	for _, m := range ms {
		entries = append(entries, r.toDomain(m))
	}
	return entries, nil
}

// Touch 更新访问时间，不存在时创建（原子 upsert）
// 冲突时不触碰 pin_status，置顶状态只随显式更新变化
func (r *historyRepository) Touch(ctx context.Context, uid, noteID int64) (*domain.HistoryEntry, error) {
	m := &model.HistoryEntry{
		UID:       uid,
		NoteID:    noteID,
		PinStatus: false,
		UpdatedAt: timex.Now(),
	}
	err := r.dao.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}, {Name: "note_id"}},
		DoUpdates: clause.Assignments(map[string]any{"updated_at": m.UpdatedAt}),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.GetByUIDNote(ctx, uid, noteID)
}

// UpdatePinStatus 更新置顶状态
func (r *historyRepository) UpdatePinStatus(ctx context.Context, pinStatus bool, uid, noteID int64) error {
	result := r.dao.db.WithContext(ctx).Model(&model.HistoryEntry{}).
		Where("uid = ? AND note_id = ?", uid, noteID).
		Update("pin_status", pinStatus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除单条历史记录
func (r *historyRepository) Delete(ctx context.Context, uid, noteID int64) error {
	result := r.dao.db.WithContext(ctx).
		Where("uid = ? AND note_id = ?", uid, noteID).
		Delete(&model.HistoryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAllByUID 删除用户的全部历史记录
func (r *historyRepository) DeleteAllByUID(ctx context.Context, uid int64) error {
	return r.dao.db.WithContext(ctx).
		Where("uid = ?", uid).
		Delete(&model.HistoryEntry{}).Error
}

// ReplaceAll 原子替换用户的全部历史记录
// 整体在单事务内先删后插，失败时回滚，旧记录保持不变
func (r *historyRepository) ReplaceAll(ctx context.Context, uid int64, entries []*domain.HistoryEntry) error {
	return r.dao.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", uid).Delete(&model.HistoryEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		ms := make([]*model.HistoryEntry, 0, len(entries))
		for _, e := range entries {
			ms = append(ms, &model.HistoryEntry{
				UID:       uid,
				NoteID:    e.NoteID,
				PinStatus: e.PinStatus,
				UpdatedAt: timex.Time(e.UpdatedAt),
			})
		}
		return tx.Create(ms).Error
	})
}

// DeleteAllByNoteID 删除笔记相关的全部历史记录
func (r *historyRepository) DeleteAllByNoteID(ctx context.Context, noteID int64) error {
	return r.dao.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Delete(&model.HistoryEntry{}).Error
}
