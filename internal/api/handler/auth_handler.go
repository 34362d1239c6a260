package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/pkg/response"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	ImageURL string `json:"image_url"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *accountView `json:"user"`
}

// Signup 注册并登录
// @Summary 注册
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 201 {object} response.Response{data=authResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.accountService.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.startSession(c, u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, authResponse{Token: token, User: ownAccount(u)})
}

// Login 用户名密码登录
// @Summary 登录
// @Tags 账户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=authResponse}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.accountService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.Unauthorized(c, "invalid credentials")
		return
	}
	token, err := h.startSession(c, u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, authResponse{Token: token, User: ownAccount(u)})
}

// Logout 吊销当前会话
// @Summary 退出登录
// @Tags 账户
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if claims := middleware.CurrentClaims(c); claims != nil {
		if err := h.sessions.Revoke(c.Request.Context(), claims); err != nil {
			response.InternalError(c, err)
			return
		}
	}
	h.clearCookie(c)
	response.Success(c, nil)
}
