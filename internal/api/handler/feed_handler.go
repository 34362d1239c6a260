package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/pkg/response"
)

// GetFeed 首页时间线
// @Summary 时间线：自己与关注者的消息，最新在前
// @Tags 时间线
// @Security BearerAuth
// @Param limit query int false "条数（超过上限按上限处理）"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	userID := middleware.CurrentUserID(c)
	msgs, err := h.feedService.GetFeed(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.withLikes(c, userID, msgs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"list": views})
}
