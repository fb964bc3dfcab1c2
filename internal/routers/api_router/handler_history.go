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

// HistoryHandler 用户历史记录 API 路由处理器
type HistoryHandler struct {
	*Handler
}

// NewHistoryHandler 创建 HistoryHandler 实例
func NewHistoryHandler(a *app.App) *HistoryHandler {
	return &HistoryHandler{Handler: NewHandler(a)}
}

// List 获取当前用户的全部历史记录
// GET /api/me/history
func (h *HistoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	entries, err := h.App.HistoryService.List(ctx, uid)
	if err != nil {
		h.logError(ctx, "HistoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(entries))
}

// Import 全量替换当前用户的历史记录
// POST /api/me/history
func (h *HistoryHandler) Import(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.HistoryImportRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("HistoryHandler.Import.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.HistoryService.Import(ctx, uid, params); err != nil {
		h.logError(ctx, "HistoryHandler.Import", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// DeleteAll 删除当前用户的全部历史记录
// DELETE /api/me/history
func (h *HistoryHandler) DeleteAll(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.HistoryService.DeleteAll(ctx, uid); err != nil {
		h.logError(ctx, "HistoryHandler.DeleteAll", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Touch 记录当前用户对笔记的一次访问
// POST /api/me/history/entry
func (h *HistoryHandler) Touch(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.HistoryTouchRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("HistoryHandler.Touch.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	entry, err := h.App.HistoryService.Touch(ctx, uid, params.Note)
	if err != nil {
		h.logError(ctx, "HistoryHandler.Touch", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(entry))
}

// HistoryEntryRequestParams 指定单条历史记录的请求参数
type HistoryEntryRequestParams struct {
	Note string `form:"note" binding:"required"`
}

// Update 更新单条历史记录的置顶状态
// PUT /api/me/history/entry
func (h *HistoryHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	query := &HistoryEntryRequestParams{}

	if err := c.ShouldBindQuery(query); err != nil {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(err.Error()))
		return
	}

	params := &dto.HistoryUpdateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("HistoryHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	entry, err := h.App.HistoryService.Update(ctx, uid, query.Note, params)
	if err != nil {
		h.logError(ctx, "HistoryHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(entry))
}

// Delete 删除单条历史记录
// DELETE /api/me/history/entry
func (h *HistoryHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	query := &HistoryEntryRequestParams{}

	if err := c.ShouldBindQuery(query); err != nil {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(err.Error()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.HistoryService.Delete(ctx, uid, query.Note); err != nil {
		h.logError(ctx, "HistoryHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
