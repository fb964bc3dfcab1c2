// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/haierkeys/note-revision-service/internal/dao"
	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/dto"
	"github.com/haierkeys/note-revision-service/pkg/code"
	"github.com/haierkeys/note-revision-service/pkg/logger"
	"github.com/haierkeys/note-revision-service/pkg/timex"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Get 获取笔记基础信息
	Get(ctx context.Context, noteRef string) (*dto.NoteDTO, error)

	// Create 创建笔记，同时生成首个修订版本
	Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// RecordEdit 记录一次原子编辑并更新笔记当前内容
	// uid 为 0 表示匿名访客
	RecordEdit(ctx context.Context, uid int64, params *dto.NoteEditRequest) error

	// Rename 修改笔记主别名
	Rename(ctx context.Context, uid int64, params *dto.NoteRenameRequest) error

	// Delete 删除笔记及其全部修订版本、编辑记录、作者和历史记录
	Delete(ctx context.Context, noteRef string) error
}

// noteService 实现 NoteService 接口
type noteService struct {
	dao        *dao.Dao
	noteRepo   domain.NoteRepository
	authorship AuthorshipService
	config     *ServiceConfig
	logger     *zap.Logger
}

var _ NoteService = (*noteService)(nil)

// NewNoteService 创建 NoteService 实例
func NewNoteService(
	d *dao.Dao,
	noteRepo domain.NoteRepository,
	authorship AuthorshipService,
	config *ServiceConfig,
	log *zap.Logger,
) NoteService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &noteService{
		dao:        d,
		noteRepo:   noteRepo,
		authorship: authorship,
		config:     config,
		logger:     log,
	}
}

// checkAlias 校验别名是否可用
func (s *noteService) checkAlias(ctx context.Context, alias string) error {
	if alias == "" {
		return nil
	}
	lower := strings.ToLower(alias)
	for _, forbidden := range s.config.Note.ForbiddenAliases {
		if lower == strings.ToLower(forbidden) {
			return code.ErrorForbiddenNoteAlias
		}
	}

	exists, err := s.noteRepo.ExistsAlias(ctx, alias)
	if err != nil {
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	if exists {
		return code.ErrorNoteAliasExists
	}
	return nil
}

// checkContentLength 校验内容长度
func (s *noteService) checkContentLength(content string) error {
	max := s.config.Note.MaxContentLength
	if max > 0 && int64(utf8.RuneCountInString(content)) > max {
		return code.ErrorInvalidParams.Clone().WithDetails("content exceeds maximum length")
	}
	return nil
}

func (s *noteService) toDTO(note *domain.Note) *dto.NoteDTO {
	if note == nil {
		return nil
	}
	return &dto.NoteDTO{
		PublicID:     note.PublicID,
		PrimaryAlias: note.PrimaryAlias,
		Title:        note.Title,
		Tags:         note.Tags,
		CreatedAt:    timex.Time(note.CreatedAt),
		UpdatedAt:    timex.Time(note.UpdatedAt),
	}
}

// Get 获取笔记基础信息
func (s *noteService) Get(ctx context.Context, noteRef string) (*dto.NoteDTO, error) {
	note, err := s.noteRepo.GetByRef(ctx, noteRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return s.toDTO(note), nil
}

// Create 创建笔记，同时生成首个修订版本
// 首个修订版本的补丁为空字符串，内容即完整快照
func (s *noteService) Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	if err := s.checkAlias(ctx, params.Alias); err != nil {
		return nil, err
	}
	if err := s.checkContentLength(params.Content); err != nil {
		return nil, err
	}

	var created *domain.Note
	err := s.dao.Transaction(ctx, func(tx *gorm.DB) error {
		txDao := s.dao.WithTx(tx)
		noteRepo := dao.NewNoteRepository(txDao)
		revisionRepo := dao.NewRevisionRepository(txDao)

		note, err := noteRepo.Create(ctx, &domain.Note{
			PublicID:     uuid.NewString(),
			PrimaryAlias: params.Alias,
			Title:        params.Title,
			Tags:         params.Tags,
			Content:      params.Content,
		})
		if err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		_, err = revisionRepo.Create(ctx, &domain.Revision{
			NoteID:  note.ID,
			Content: params.Content,
			Patch:   "",
			Length:  int64(utf8.RuneCountInString(params.Content)),
		})
		if err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		created = note
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("note created",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, created.ID),
		zap.String(logger.FieldAlias, created.PrimaryAlias),
	)
	return s.toDTO(created), nil
}

// RecordEdit 记录一次原子编辑并更新笔记当前内容
func (s *noteService) RecordEdit(ctx context.Context, uid int64, params *dto.NoteEditRequest) error {
	if err := s.checkContentLength(params.Content); err != nil {
		return err
	}

	note, err := s.noteRepo.GetByRef(ctx, params.Note)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorNoteNotFound
		}
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	return s.dao.ExecuteWrite(ctx, note.ID, func(tx *gorm.DB) error {
		txDao := s.dao.WithTx(tx)
		noteRepo := dao.NewNoteRepository(txDao)
		authorRepo := dao.NewAuthorRepository(txDao)
		editRepo := dao.NewEditRepository(txDao)

		author, err := authorRepo.GetOrCreate(ctx, note.ID, uid)
		if err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		if err := noteRepo.UpdateContent(ctx, params.Content, note.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		_, err = editRepo.Create(ctx, &domain.Edit{
			NoteID:   note.ID,
			AuthorID: author.AuthorID(),
			StartPos: params.StartPos,
			EndPos:   params.EndPos,
		})
		if err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		return nil
	})
}

// Rename 修改笔记主别名
func (s *noteService) Rename(ctx context.Context, uid int64, params *dto.NoteRenameRequest) error {
	note, err := s.noteRepo.GetByRef(ctx, params.Note)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorNoteNotFound
		}
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	if params.Alias == note.PrimaryAlias {
		return nil
	}
	if err := s.checkAlias(ctx, params.Alias); err != nil {
		return err
	}

	if err := s.noteRepo.UpdatePrimaryAlias(ctx, params.Alias, note.ID); err != nil {
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	s.logger.Info("note renamed",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNoteID, note.ID),
		zap.String(logger.FieldAlias, params.Alias),
	)
	return nil
}

// Delete 删除笔记及其全部修订版本、编辑记录、作者和历史记录
func (s *noteService) Delete(ctx context.Context, noteRef string) error {
	note, err := s.noteRepo.GetByRef(ctx, noteRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorNoteNotFound
		}
		return code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	return s.dao.ExecuteWrite(ctx, note.ID, func(tx *gorm.DB) error {
		txDao := s.dao.WithTx(tx)

		if err := dao.NewEditRepository(txDao).DeleteAllByNoteID(ctx, note.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		if err := dao.NewRevisionRepository(txDao).DeleteAllByNoteID(ctx, note.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		if err := dao.NewAuthorRepository(txDao).DeleteAllByNoteID(ctx, note.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		if err := dao.NewHistoryRepository(txDao).DeleteAllByNoteID(ctx, note.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		if err := dao.NewNoteRepository(txDao).Delete(ctx, note.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		return nil
	})
}
