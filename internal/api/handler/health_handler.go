package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/warbler/pkg/logger"
	"github.com/d60-Lab/warbler/pkg/response"
)

// Health 检查数据库连通性
// @Summary 健康检查
// @Tags 运维
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func Health(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			response.Abort(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	}
}
