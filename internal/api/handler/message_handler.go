package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/pkg/response"
)

type messageRequest struct {
	Text string `json:"text"`
}

// PostMessage 发布消息（不超过 140 字符）
// @Summary 发布消息
// @Tags 消息
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body messageRequest true "消息"
// @Success 201 {object} response.Response{data=model.Message}
// @Failure 400 {object} response.Response
// @Router /api/v1/messages [post]
func (h *Handler) PostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.contentService.PostMessage(c.Request.Context(), middleware.CurrentUserID(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, m)
}

// GetMessage 查看单条消息
// @Summary 查看消息
// @Tags 消息
// @Param message_id path string true "消息ID"
// @Success 200 {object} response.Response{data=model.Message}
// @Failure 404 {object} response.Response
// @Router /api/v1/messages/{message_id} [get]
func (h *Handler) GetMessage(c *gin.Context) {
	m, err := h.contentService.GetMessage(c.Request.Context(), c.Param("message_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, m)
}

// DeleteMessage 删除自己的消息
// @Summary 删除消息
// @Tags 消息
// @Security BearerAuth
// @Param message_id path string true "消息ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/messages/{message_id} [delete]
func (h *Handler) DeleteMessage(c *gin.Context) {
	if err := h.contentService.DeleteMessage(c.Request.Context(), middleware.CurrentUserID(c), c.Param("message_id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞状态
// @Tags 消息
// @Security BearerAuth
// @Param message_id path string true "消息ID"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/messages/{message_id}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	liked, err := h.contentService.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c), c.Param("message_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}
