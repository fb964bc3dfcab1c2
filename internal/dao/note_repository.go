// Package dao 实现数据访问层
package dao

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/model"
	"github.com/haierkeys/note-revision-service/pkg/timex"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

var _ domain.NoteRepository = (*noteRepository)(nil)

// tagsToColumn 标签列表转数据库列值
func tagsToColumn(tags []string) string {
	return strings.Join(tags, ",")
}

// tagsFromColumn 数据库列值转标签列表
func tagsFromColumn(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:           m.ID,
		PublicID:     m.PublicID,
		PrimaryAlias: m.PrimaryAlias,
		Title:        m.Title,
		Tags:         tagsFromColumn(m.Tags),
		Content:      m.Content,
		CreatedAt:    m.CreatedAt.Time(),
		UpdatedAt:    m.UpdatedAt.Time(),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:           note.ID,
		PublicID:     note.PublicID,
		PrimaryAlias: note.PrimaryAlias,
		Title:        note.Title,
		Tags:         tagsToColumn(note.Tags),
		Content:      note.Content,
		CreatedAt:    timex.Time(note.CreatedAt),
		UpdatedAt:    timex.Time(note.UpdatedAt),
	}
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByRef 根据 PublicID 或主别名获取笔记
func (r *noteRepository) GetByRef(ctx context.Context, ref string) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("public_id = ? OR (primary_alias = ? AND primary_alias <> '')", ref, ref).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	now := timex.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateContent 更新笔记正文
func (r *noteRepository) UpdateContent(ctx context.Context, content string, id int64) error {
	return r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":    content,
			"updated_at": timex.Time(time.Now()),
		}).Error
}

// UpdateMeta 更新笔记标题和标签
func (r *noteRepository) UpdateMeta(ctx context.Context, title string, tags []string, id int64) error {
	return r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":      title,
			"tags":       tagsToColumn(tags),
			"updated_at": timex.Time(time.Now()),
		}).Error
}

// UpdatePrimaryAlias 更新笔记主别名
func (r *noteRepository) UpdatePrimaryAlias(ctx context.Context, alias string, id int64) error {
	return r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"primary_alias": alias,
			"updated_at":    timex.Time(time.Now()),
		}).Error
}

// ExistsAlias 判断别名是否已被占用
func (r *noteRepository) ExistsAlias(ctx context.Context, alias string) (bool, error) {
	if alias == "" {
		return false, nil
	}
	var count int64
	err := r.dao.db.WithContext(ctx).Model(&model.Note{}).
		Where("primary_alias = ? OR public_id = ?", alias, alias).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete 物理删除笔记
func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Note{}).Error
}
