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

// NoteHandler 笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// NoteRefRequestParams 指定笔记的请求参数
type NoteRefRequestParams struct {
	Note string `form:"note" binding:"required"`
}

// Get 获取笔记基础信息
// GET /api/note
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &NoteRefRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, params.Note)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(note))
}

// Create 创建笔记
// POST /api/note
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Create(ctx, pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.Clone().WithData(note))
}

// Edit 记录一次原子编辑
// POST /api/note/edit
func (h *NoteHandler) Edit(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteEditRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Edit.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	if err := h.App.NoteService.RecordEdit(ctx, pkgapp.GetUID(c), params); err != nil {
		h.logError(ctx, "NoteHandler.Edit", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Rename 修改笔记主别名
// POST /api/note/rename
func (h *NoteHandler) Rename(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteRenameRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	ctx := c.Request.Context()
	if err := h.App.NoteService.Rename(ctx, pkgapp.GetUID(c), params); err != nil {
		h.logError(ctx, "NoteHandler.Rename", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Delete 删除笔记及其全部关联数据
// DELETE /api/note
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &NoteRefRequestParams{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.NoteService.Delete(ctx, params.Note); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
