package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/repository"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/response"
)

type profileRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	ImageURL       *string `json:"image_url"`
	HeaderImageURL *string `json:"header_image_url"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	// Password 当前密码，用于确认身份
	Password string `json:"password" binding:"required"`
}

type profileResponse struct {
	User     *model.User           `json:"user"`
	Messages []*model.Message      `json:"messages"`
	Counts   repository.UserCounts `json:"counts"`
}

// ListUsers 用户列表
// @Summary 用户列表（按用户名搜索）
// @Tags 用户
// @Param q query string false "用户名包含"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.accountService.List(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// GetUser 个人主页
// @Summary 用户主页：资料、最近消息与统计
// @Tags 用户
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response{data=profileResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{user_id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")
	u, err := h.accountService.Get(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	msgs, err := h.contentService.ListUserMessages(ctx, userID, service.UserMessageLimit)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	counts, err := h.accountService.Counts(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, profileResponse{User: u, Messages: msgs, Counts: counts})
}

// ListLikes 用户点赞过的消息
// @Summary 点赞列表
// @Tags 用户
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{user_id}/likes [get]
func (h *Handler) ListLikes(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")
	if _, err := h.accountService.Get(ctx, userID); err != nil {
		respondError(c, err)
		return
	}
	page, pageSize := pageParams(c)
	list, err := h.contentService.ListLikedMessages(ctx, userID, page, pageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	views, err := h.withLikes(c, middleware.CurrentUserID(c), list)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": views})
}

// EditProfile 修改资料（需当前密码）
// @Summary 修改资料
// @Tags 用户
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profileRequest true "资料"
// @Success 200 {object} response.Response{data=accountView}
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/users/profile [put]
func (h *Handler) EditProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.accountService.EditProfile(c.Request.Context(), middleware.CurrentUserID(c), service.ProfileUpdate{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	}, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, ownAccount(u))
}

// DeleteAccount 注销账户，级联删除消息、点赞与关系
// @Summary 注销账户
// @Tags 用户
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/users/profile [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.CurrentUserID(c)
	if err := h.accountService.Delete(ctx, userID); err != nil {
		respondError(c, err)
		return
	}
	if err := h.sessions.RevokeUser(ctx, userID); err != nil {
		response.InternalError(c, err)
		return
	}
	h.clearCookie(c)
	response.Success(c, nil)
}
