// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/dto"
	"github.com/haierkeys/note-revision-service/pkg/code"
	"github.com/haierkeys/note-revision-service/pkg/logger"
	"github.com/haierkeys/note-revision-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HistoryService 定义用户历史记录业务服务接口
type HistoryService interface {
	// List 获取用户的全部历史记录，按最近访问倒序
	List(ctx context.Context, uid int64) ([]*dto.HistoryEntryDTO, error)

	// Touch 记录一次笔记访问，不存在时创建记录
	Touch(ctx context.Context, uid int64, noteRef string) (*dto.HistoryEntryDTO, error)

	// Import 全量替换用户的历史记录，整体成功或整体失败
	Import(ctx context.Context, uid int64, params *dto.HistoryImportRequest) error

	// Update 更新单条历史记录的置顶状态
	Update(ctx context.Context, uid int64, noteRef string, params *dto.HistoryUpdateRequest) (*dto.HistoryEntryDTO, error)

	// Delete 删除单条历史记录
	Delete(ctx context.Context, uid int64, noteRef string) error

	// DeleteAll 删除用户的全部历史记录
	DeleteAll(ctx context.Context, uid int64) error
}

// historyService 实现 HistoryService 接口
type historyService struct {
	historyRepo domain.HistoryRepository
	noteRepo    domain.NoteRepository
	config      *ServiceConfig
	logger      *zap.Logger
}

var _ HistoryService = (*historyService)(nil)

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(historyRepo domain.HistoryRepository, noteRepo domain.NoteRepository, config *ServiceConfig, log *zap.Logger) HistoryService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &historyService{
		historyRepo: historyRepo,
		noteRepo:    noteRepo,
		config:      config,
		logger:      log,
	}
}

// isForbiddenRef 检查笔记引用是否命中保留别名
func (s *historyService) isForbiddenRef(noteRef string) bool {
	lower := strings.ToLower(noteRef)
	for _, forbidden := range s.config.Note.ForbiddenAliases {
		if lower == strings.ToLower(forbidden) {
			return true
		}
	}
	return false
}

// resolveNote 解析笔记引用
func (s *historyService) resolveNote(ctx context.Context, noteRef string) (*domain.Note, error) {
	note, err := s.noteRepo.GetByRef(ctx, noteRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return note, nil
}

// toDTO 组装历史记录 DTO，标识符优先使用主别名
func (s *historyService) toDTO(entry *domain.HistoryEntry, note *domain.Note) *dto.HistoryEntryDTO {
	identifier := note.PublicID
	if note.PrimaryAlias != "" {
		identifier = note.PrimaryAlias
	}
	return &dto.HistoryEntryDTO{
		Identifier:    identifier,
		Title:         note.Title,
		Tags:          note.Tags,
		PinStatus:     entry.PinStatus,
		LastVisitedAt: timex.Time(entry.UpdatedAt),
	}
}

// List 获取用户的全部历史记录，按最近访问倒序
// 指向已删除笔记的残留记录被跳过
func (s *historyService) List(ctx context.Context, uid int64) ([]*dto.HistoryEntryDTO, error) {
	entries, err := s.historyRepo.ListByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	result := make([]*dto.HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		note, err := s.noteRepo.GetByID(ctx, entry.NoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		result = append(result, s.toDTO(entry, note))
	}
	return result, nil
}

// Touch 记录一次笔记访问，不存在时创建记录
func (s *historyService) Touch(ctx context.Context, uid int64, noteRef string) (*dto.HistoryEntryDTO, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}

	entry, err := s.historyRepo.Touch(ctx, uid, note.ID)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return s.toDTO(entry, note), nil
}

// Import 全量替换用户的历史记录
// 先解析所有笔记引用，任何一条解析失败都不触碰已有记录
func (s *historyService) Import(ctx context.Context, uid int64, params *dto.HistoryImportRequest) error {
	entries := make([]*domain.HistoryEntry, 0, len(params.History))
	seen := make(map[int64]bool, len(params.History))
	for _, item := range params.History {
		if s.isForbiddenRef(item.Note) {
			return code.ErrorForbiddenNoteAlias.Clone().WithDetails("forbidden note reference: " + item.Note)
		}
		note, err := s.resolveNote(ctx, item.Note)
		if err != nil {
			if errors.Is(err, code.ErrorNoteNotFound) {
				return code.ErrorNoteNotFound.Clone().WithDetails("unknown note: " + item.Note)
			}
			return err
		}

		visitedAt := item.LastVisitedAt.Time()
		if visitedAt.IsZero() {
			visitedAt = time.Now()
		}
		// 同一笔记出现多次时保留最后一条
		if seen[note.ID] {
			for _, e := range entries {
				if e.NoteID == note.ID {
					e.PinStatus = item.PinStatus
					e.UpdatedAt = visitedAt
				}
			}
			continue
		}
		seen[note.ID] = true

		entries = append(entries, &domain.HistoryEntry{
			UID:       uid,
			NoteID:    note.ID,
			PinStatus: item.PinStatus,
			UpdatedAt: visitedAt,
		})
	}

	if err := s.historyRepo.ReplaceAll(ctx, uid, entries); err != nil {
		return code.ErrorHistoryImport.Clone().WithDetails(err.Error())
	}

	s.logger.Info("history imported",
		zap.Int64(logger.FieldUID, uid),
		zap.Int("entries", len(entries)),
	)
	return nil
}

// Update 更新单条历史记录的置顶状态
func (s *historyService) Update(ctx context.Context, uid int64, noteRef string, params *dto.HistoryUpdateRequest) (*dto.HistoryEntryDTO, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}

	if err := s.historyRepo.UpdatePinStatus(ctx, params.PinStatus, uid, note.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorHistoryEntryNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	entry, err := s.historyRepo.GetByUIDNote(ctx, uid, note.ID)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return s.toDTO(entry, note), nil
}

// Delete 删除单条历史记录
func (s *historyService) Delete(ctx context.Context, uid int64, noteRef string) error {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return err
	}

	if err := s.historyRepo.Delete(ctx, uid, note.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorHistoryEntryNotFound
		}
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return nil
}

// DeleteAll 删除用户的全部历史记录
func (s *historyService) DeleteAll(ctx context.Context, uid int64) error {
	if err := s.historyRepo.DeleteAllByUID(ctx, uid); err != nil {
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return nil
}
