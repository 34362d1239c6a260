package router

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/warbler/docs"
	"github.com/d60-Lab/warbler/internal/api/handler"
	"github.com/d60-Lab/warbler/internal/api/middleware"
	"github.com/d60-Lab/warbler/internal/session"
)

type Options struct {
	Mode        string
	ServiceName string
	CORSOrigins []string
	Tokens      *session.TokenManager
	Sessions    session.Store
	// Ping 健康检查使用
	Ping func() error
}

// Setup 注册全局中间件与全部路由
func Setup(h *handler.Handler, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NopStore{}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(opts.ServiceName))
	r.Use(middleware.Metrics())
	r.Use(middleware.AccessLog())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.NoCache())

	r.GET("/healthz", handler.Health(opts.Ping))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.Auth(opts.Tokens, opts.Sessions)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/signup", h.Signup)
		v1.POST("/auth/login", h.Login)
		v1.POST("/auth/logout", auth, h.Logout)

		users := v1.Group("/users")
		users.GET("", h.ListUsers)
		users.GET("/:user_id", h.GetUser)
		users.GET("/:user_id/following", auth, h.ListFollowing)
		users.GET("/:user_id/followers", auth, h.ListFollowers)
		users.GET("/:user_id/likes", auth, h.ListLikes)
		users.POST("/follow/:user_id", auth, h.Follow)
		users.POST("/stop-following/:user_id", auth, h.Unfollow)
		users.PUT("/profile", auth, h.EditProfile)
		users.DELETE("/profile", auth, h.DeleteAccount)

		messages := v1.Group("/messages")
		messages.POST("", auth, h.PostMessage)
		messages.GET("/:message_id", h.GetMessage)
		messages.DELETE("/:message_id", auth, h.DeleteMessage)
		messages.POST("/:message_id/like", auth, h.ToggleLike)

		v1.GET("/feed", auth, h.GetFeed)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
