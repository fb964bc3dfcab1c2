package api_router

import (
	"github.com/haierkeys/note-revision-service/internal/app"
	"github.com/haierkeys/note-revision-service/internal/dto"
	pkgapp "github.com/haierkeys/note-revision-service/pkg/app"
	"github.com/haierkeys/note-revision-service/pkg/code"
	apperrors "github.com/haierkeys/note-revision-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RevisionHandler 修订版本 API 路由处理器
type RevisionHandler struct {
	*Handler
}

// NewRevisionHandler 创建 RevisionHandler 实例
func NewRevisionHandler(a *app.App) *RevisionHandler {
	return &RevisionHandler{Handler: NewHandler(a)}
}

// List 获取笔记的全部修订版本元数据
// GET /api/note/revisions
func (h *RevisionHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RevisionHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	metadatas, err := h.App.RevisionService.List(ctx, params.Note)
	if err != nil {
		h.logError(ctx, "RevisionHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	// 带 page 参数时返回分页结果，否则返回全量列表
	if _, exists := c.GetQuery("page"); exists {
		cfg := h.App.Config()
		page := pkgapp.GetPage(c)
		pageSize := pkgapp.GetPageSizeWithConfig(c, pkgapp.PaginationConfig{
			DefaultPageSize: cfg.App.DefaultPageSize,
			MaxPageSize:     cfg.App.MaxPageSize,
		})
		total := len(metadatas)
		offset := pkgapp.GetPageOffset(page, pageSize)
		if offset >= total {
			metadatas = metadatas[:0]
		} else if end := offset + pageSize; end < total {
			metadatas = metadatas[offset:end]
		} else {
			metadatas = metadatas[offset:]
		}
		response.ToResponseList(code.Success, metadatas, total)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(metadatas))
}

// Get 获取单个修订版本
// GET /api/note/revision
func (h *RevisionHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RevisionHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	revision, err := h.App.RevisionService.Get(ctx, params.Note, params.RevisionID)
	if err != nil {
		h.logError(ctx, "RevisionHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(revision))
}

// Latest 获取最新修订版本
// GET /api/note/revision/latest
func (h *RevisionHandler) Latest(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	revision, err := h.App.RevisionService.GetLatest(ctx, params.Note)
	if err != nil {
		h.logError(ctx, "RevisionHandler.Latest", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(revision))
}

// First 获取最早修订版本
// GET /api/note/revision/first
func (h *RevisionHandler) First(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	revision, err := h.App.RevisionService.GetFirst(ctx, params.Note)
	if err != nil {
		h.logError(ctx, "RevisionHandler.First", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(revision))
}

// Purge 清理修订历史，只保留最新修订版本
// DELETE /api/note/revisions
func (h *RevisionHandler) Purge(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionPurgeRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.RevisionService.Purge(ctx, params.Note)
	if err != nil {
		h.logError(ctx, "RevisionHandler.Purge", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(result))
}

// Fold 将笔记当前内容折叠为新修订版本
// POST /api/note/revision/fold
func (h *RevisionHandler) Fold(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RevisionFoldRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.RevisionService.Fold(ctx, params.Note)
	if err != nil {
		h.logError(ctx, "RevisionHandler.Fold", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(result))
}
