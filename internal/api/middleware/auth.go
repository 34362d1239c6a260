package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/internal/session"
	"github.com/d60-Lab/warbler/pkg/logger"
	"github.com/d60-Lab/warbler/pkg/response"
)

const (
	UserIDKey  = "user_id"
	ClaimsKey  = "session_claims"
	CookieName = "session"
)

// Auth 校验 Bearer token 或 session cookie，并确认会话未被吊销。
// 成功后在 context 中写入 user_id 与 claims。
func Auth(tokens *session.TokenManager, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(CookieName)
		}
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid session")
			return
		}
		active, err := store.Active(c.Request.Context(), claims)
		if err != nil {
			logger.Error("session lookup failed", zap.String("sid", claims.SessionID), zap.Error(err))
			response.Abort(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if !active {
			response.Abort(c, http.StatusUnauthorized, "session expired")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// CurrentUserID 已认证请求的账户 ID
func CurrentUserID(c *gin.Context) string { return c.GetString(UserIDKey) }

// CurrentClaims 已认证请求的会话
func CurrentClaims(c *gin.Context) *session.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*session.Claims)
	return claims
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
