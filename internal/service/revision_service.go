// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/haierkeys/note-revision-service/internal/dao"
	"github.com/haierkeys/note-revision-service/internal/domain"
	"github.com/haierkeys/note-revision-service/internal/dto"
	"github.com/haierkeys/note-revision-service/pkg/code"
	"github.com/haierkeys/note-revision-service/pkg/diff"
	"github.com/haierkeys/note-revision-service/pkg/logger"
	"github.com/haierkeys/note-revision-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RevisionService 定义修订版本业务服务接口
type RevisionService interface {
	// List 获取笔记的全部修订版本元数据，按时间升序
	List(ctx context.Context, noteRef string) ([]*dto.RevisionMetadataDTO, error)

	// Get 获取单个修订版本
	Get(ctx context.Context, noteRef string, revisionID int64) (*dto.RevisionDTO, error)

	// GetLatest 获取最新修订版本
	GetLatest(ctx context.Context, noteRef string) (*dto.RevisionDTO, error)

	// GetFirst 获取最早修订版本
	GetFirst(ctx context.Context, noteRef string) (*dto.RevisionDTO, error)

	// Purge 清理修订历史，只保留最新修订版本
	Purge(ctx context.Context, noteRef string) (*dto.RevisionPurgeResponse, error)

	// PurgeNoteID 按笔记ID清理修订历史，供后台保留任务使用
	PurgeNoteID(ctx context.Context, noteID int64) (*dto.RevisionPurgeResponse, error)

	// SweepRetention 清理修订版本数量超过 maxRevisions 的笔记，返回被清理的笔记数
	// 补丁链相对前一版本构建，无法只删中间版本，超限时整链收敛到最新版本
	SweepRetention(ctx context.Context, maxRevisions int64) (int, error)

	// Fold 将笔记当前内容折叠为新修订版本，认领所有未折叠的编辑记录
	// 内容无变化且无待折叠编辑时不创建新版本
	Fold(ctx context.Context, noteRef string) (*dto.RevisionFoldResponse, error)

	// FoldNoteID 按笔记ID折叠，供后台扫描任务使用
	FoldNoteID(ctx context.Context, noteID int64) (*dto.RevisionFoldResponse, error)

	// FoldAllPending 折叠所有存在未折叠编辑记录的笔记，返回创建的版本数
	FoldAllPending(ctx context.Context) (int, error)
}

// revisionService 实现 RevisionService 接口
type revisionService struct {
	dao          *dao.Dao
	noteRepo     domain.NoteRepository
	revisionRepo domain.RevisionRepository
	editRepo     domain.EditRepository
	authorship   AuthorshipService
	logger       *zap.Logger
}

var _ RevisionService = (*revisionService)(nil)

// NewRevisionService 创建 RevisionService 实例
func NewRevisionService(
	d *dao.Dao,
	noteRepo domain.NoteRepository,
	revisionRepo domain.RevisionRepository,
	editRepo domain.EditRepository,
	authorship AuthorshipService,
	log *zap.Logger,
) RevisionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &revisionService{
		dao:          d,
		noteRepo:     noteRepo,
		revisionRepo: revisionRepo,
		editRepo:     editRepo,
		authorship:   authorship,
		logger:       log,
	}
}

// resolveNote 解析笔记引用
func (s *revisionService) resolveNote(ctx context.Context, noteRef string) (*domain.Note, error) {
	note, err := s.noteRepo.GetByRef(ctx, noteRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return note, nil
}

// toMetadataDTO 组装修订版本元数据
func (s *revisionService) toMetadataDTO(ctx context.Context, revision *domain.Revision) (*dto.RevisionMetadataDTO, error) {
	usernames, err := s.authorship.RevisionAuthorUsernames(ctx, revision.ID)
	if err != nil {
		return nil, err
	}
	anonymousCount, err := s.authorship.RevisionAnonymousAuthorCount(ctx, revision.ID)
	if err != nil {
		return nil, err
	}
	return &dto.RevisionMetadataDTO{
		ID:                   revision.ID,
		Length:               revision.Length,
		CreatedAt:            timex.Time(revision.CreatedAt),
		AuthorUsernames:      usernames,
		AnonymousAuthorCount: anonymousCount,
	}, nil
}

// toDTO 组装完整修订版本
func (s *revisionService) toDTO(ctx context.Context, revision *domain.Revision) (*dto.RevisionDTO, error) {
	metadata, err := s.toMetadataDTO(ctx, revision)
	if err != nil {
		return nil, err
	}

	edits, err := s.editRepo.ListByRevisionID(ctx, revision.ID)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	editDTOs := make([]dto.EditDTO, 0, len(edits))
	authors, err := s.authorship.RevisionAuthors(ctx, revision.ID)
	if err != nil {
		return nil, err
	}
	usernameByAuthor := make(map[int64]string, len(authors))
	for _, a := range authors {
		if linked, ok := a.(domain.LinkedAuthor); ok {
			usernameByAuthor[linked.AuthorID()] = linked.User.Username
		}
	}
	for _, e := range edits {
		editDTOs = append(editDTOs, dto.EditDTO{
			Username:  usernameByAuthor[e.AuthorID],
			StartPos:  e.StartPos,
			EndPos:    e.EndPos,
			CreatedAt: timex.Time(e.CreatedAt),
		})
	}

	return &dto.RevisionDTO{
		RevisionMetadataDTO: *metadata,
		Content:             revision.Content,
		Patch:               revision.Patch,
		Edits:               editDTOs,
	}, nil
}

// List 获取笔记的全部修订版本元数据，按时间升序
func (s *revisionService) List(ctx context.Context, noteRef string) ([]*dto.RevisionMetadataDTO, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}

	revisions, err := s.revisionRepo.ListByNoteID(ctx, note.ID)
	if err != nil {
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	metadatas := make([]*dto.RevisionMetadataDTO, 0, len(revisions))
	for _, revision := range revisions {
		metadata, err := s.toMetadataDTO(ctx, revision)
		if err != nil {
			return nil, err
		}
		metadatas = append(metadatas, metadata)
	}
	return metadatas, nil
}

// Get 获取单个修订版本
func (s *revisionService) Get(ctx context.Context, noteRef string, revisionID int64) (*dto.RevisionDTO, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}

	revision, err := s.revisionRepo.GetByID(ctx, revisionID, note.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorRevisionNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return s.toDTO(ctx, revision)
}

// GetLatest 获取最新修订版本
func (s *revisionService) GetLatest(ctx context.Context, noteRef string) (*dto.RevisionDTO, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}

	revision, err := s.revisionRepo.GetLatest(ctx, note.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorRevisionNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return s.toDTO(ctx, revision)
}

// GetFirst 获取最早修订版本
func (s *revisionService) GetFirst(ctx context.Context, noteRef string) (*dto.RevisionDTO, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}

	revision, err := s.revisionRepo.GetFirst(ctx, note.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorRevisionNotFound
		}
		return nil, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}
	return s.toDTO(ctx, revision)
}

// Purge 清理修订历史，只保留最新修订版本
func (s *revisionService) Purge(ctx context.Context, noteRef string) (*dto.RevisionPurgeResponse, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}
	return s.PurgeNoteID(ctx, note.ID)
}

// PurgeNoteID 按笔记ID清理修订历史，供后台保留任务使用
// 被清理版本的编辑记录改挂到保留版本，作者归属不丢失
func (s *revisionService) PurgeNoteID(ctx context.Context, noteID int64) (*dto.RevisionPurgeResponse, error) {
	var result dto.RevisionPurgeResponse
	err := s.dao.ExecuteWrite(ctx, noteID, func(tx *gorm.DB) error {
		txDao := s.dao.WithTx(tx)
		revisionRepo := dao.NewRevisionRepository(txDao)
		editRepo := dao.NewEditRepository(txDao)

		victims, err := revisionRepo.DeleteAllButLatest(ctx, noteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code.ErrorRevisionNotFound
			}
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		kept, err := revisionRepo.GetLatest(ctx, noteID)
		if err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		victimIDs := make([]int64, 0, len(victims))
		for _, v := range victims {
			victimIDs = append(victimIDs, v.ID)
		}
		if err := editRepo.ReassignRevisions(ctx, victimIDs, kept.ID); err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		result.PurgedCount = int64(len(victims))
		result.KeptID = kept.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("revision history purged",
		zap.Int64(logger.FieldNoteID, noteID),
		zap.Int64("purged", result.PurgedCount),
		zap.Int64(logger.FieldRevisionID, result.KeptID),
	)
	return &result, nil
}

// Fold 将笔记当前内容折叠为新修订版本
func (s *revisionService) Fold(ctx context.Context, noteRef string) (*dto.RevisionFoldResponse, error) {
	note, err := s.resolveNote(ctx, noteRef)
	if err != nil {
		return nil, err
	}
	return s.FoldNoteID(ctx, note.ID)
}

// FoldNoteID 按笔记ID折叠，供后台扫描任务使用
// 整个折叠在单事务中完成并按笔记串行化：
// 读取当前内容 -> 对最新版本算补丁 -> 创建新版本 -> 认领未折叠编辑
func (s *revisionService) FoldNoteID(ctx context.Context, noteID int64) (*dto.RevisionFoldResponse, error) {
	var result dto.RevisionFoldResponse
	err := s.dao.ExecuteWrite(ctx, noteID, func(tx *gorm.DB) error {
		txDao := s.dao.WithTx(tx)
		noteRepo := dao.NewNoteRepository(txDao)
		revisionRepo := dao.NewRevisionRepository(txDao)
		editRepo := dao.NewEditRepository(txDao)

		note, err := noteRepo.GetByID(ctx, noteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return code.ErrorNoteNotFound
			}
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		var baseContent string
		var patch string
		latest, err := revisionRepo.GetLatest(ctx, noteID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}
		if latest != nil {
			baseContent = latest.Content
			patch = diff.MakePatch(baseContent, note.Content)
		}

		pending, err := editRepo.ListPending(ctx, noteID)
		if err != nil {
			return code.ErrorDBQuery.Clone().WithDetails(err.Error())
		}

		// 内容无变化且没有待认领的编辑，折叠是空操作
		if latest != nil && patch == "" && len(pending) == 0 {
			result.Created = false
			return nil
		}

		revision, err := revisionRepo.Create(ctx, &domain.Revision{
			NoteID:  noteID,
			Content: note.Content,
			Patch:   patch,
			Length:  int64(utf8.RuneCountInString(note.Content)),
		})
		if err != nil {
			return code.ErrorRevisionFold.Clone().WithDetails(err.Error())
		}

		claimed, err := editRepo.ClaimPending(ctx, noteID, revision.ID)
		if err != nil {
			return code.ErrorRevisionFold.Clone().WithDetails(err.Error())
		}

		result.Created = true
		result.RevisionID = revision.ID
		result.ClaimedEdits = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Created {
		s.logger.Info("revision folded",
			zap.Int64(logger.FieldNoteID, noteID),
			zap.Int64(logger.FieldRevisionID, result.RevisionID),
			zap.Int64("claimed_edits", result.ClaimedEdits),
		)
	}
	return &result, nil
}

// FoldAllPending 折叠所有存在未折叠编辑记录的笔记，返回创建的版本数
func (s *revisionService) FoldAllPending(ctx context.Context) (int, error) {
	noteIDs, err := s.editRepo.ListNoteIDsPending(ctx)
	if err != nil {
		return 0, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	created := 0
	for _, noteID := range noteIDs {
		result, err := s.FoldNoteID(ctx, noteID)
		if err != nil {
			// 单条失败不中断整轮扫描
			s.logger.Warn("fold sweep failed for note",
				zap.Int64(logger.FieldNoteID, noteID),
				zap.Error(err),
			)
			continue
		}
		if result.Created {
			created++
		}
	}
	return created, nil
}

// SweepRetention 清理修订版本数量超过 maxRevisions 的笔记，返回被清理的笔记数
func (s *revisionService) SweepRetention(ctx context.Context, maxRevisions int64) (int, error) {
	if maxRevisions <= 0 {
		return 0, nil
	}

	noteIDs, err := s.revisionRepo.ListNoteIDsOverRevisionCount(ctx, maxRevisions)
	if err != nil {
		return 0, code.ErrorDBQuery.Clone().WithDetails(err.Error())
	}

	purged := 0
	for _, noteID := range noteIDs {
		if _, err := s.PurgeNoteID(ctx, noteID); err != nil {
			// 单条失败不中断整轮扫描
			s.logger.Warn("retention sweep failed for note",
				zap.Int64(logger.FieldNoteID, noteID),
				zap.Error(err),
			)
			continue
		}
		purged++
	}
	return purged, nil
}
