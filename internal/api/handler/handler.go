package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/model"
	"github.com/d60-Lab/warbler/internal/service"
	"github.com/d60-Lab/warbler/internal/session"
	"github.com/d60-Lab/warbler/pkg/response"
)

// Handler 聚合全部 HTTP handler 依赖
type Handler struct {
	accountService service.AccountService
	relService     service.RelationshipService
	contentService service.ContentService
	feedService    service.FeedService
	tokens         *session.TokenManager
	sessions       session.Store
	secureCookie   bool
}

type Deps struct {
	Accounts      service.AccountService
	Relationships service.RelationshipService
	Content       service.ContentService
	Feed          service.FeedService
	Tokens        *session.TokenManager
	Sessions      session.Store
	// SecureCookie release 模式下开启
	SecureCookie bool
}

func New(d Deps) *Handler {
	sessions := d.Sessions
	if sessions == nil {
		sessions = session.NopStore{}
	}
	return &Handler{
		accountService: d.Accounts,
		relService:     d.Relationships,
		contentService: d.Content,
		feedService:    d.Feed,
		tokens:         d.Tokens,
		sessions:       sessions,
		secureCookie:   d.SecureCookie,
	}
}

// respondError 按错误类别映射 HTTP 状态码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, err.Error(), gin.H{"field": service.ConflictField(err)})
	case errors.Is(err, service.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// startSession 签发 token、登记会话并写 cookie
func (h *Handler) startSession(c *gin.Context, userID string) (string, error) {
	token, claims, err := h.tokens.Issue(userID)
	if err != nil {
		return "", err
	}
	if err := h.sessions.Save(c.Request.Context(), claims); err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, int(h.tokens.TTL()/time.Second), "/", "", h.secureCookie, true)
	return token, nil
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.secureCookie, true)
}

// accountView 账户本人可见的资料（含 email）
type accountView struct {
	*model.User
	Email string `json:"email"`
}

func ownAccount(u *model.User) *accountView {
	if u == nil {
		return nil
	}
	return &accountView{User: u, Email: u.Email}
}

// messageView 消息及当前用户是否已点赞
type messageView struct {
	*model.Message
	Liked bool `json:"liked"`
}

func (h *Handler) withLikes(c *gin.Context, viewerID string, msgs []*model.Message) ([]messageView, error) {
	views := make([]messageView, len(msgs))
	if len(msgs) == 0 {
		return views, nil
	}
	liked := map[string]bool{}
	if viewerID != "" {
		ids := make([]string, len(msgs))
		for i, m := range msgs {
			ids[i] = m.ID
		}
		var err error
		if liked, err = h.contentService.LikedAmong(c.Request.Context(), viewerID, ids); err != nil {
			return nil, err
		}
	}
	for i, m := range msgs {
		views[i] = messageView{Message: m, Liked: liked[m.ID]}
	}
	return views, nil
}
