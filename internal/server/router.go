package server

import (
	"context"
	"net/http"

	"watchparty/internal/auth"
	"watchparty/internal/config"
	"watchparty/internal/db"
	"watchparty/internal/metrics"
	"watchparty/internal/mw"
	"watchparty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func healthz(p pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.Ping(c.Request.Context()); err != nil {
			log.Error().Err(err).Str("request_id", mw.GetRequestID(c)).Msg("healthz ping")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// SetupRouter 统一初始化 Gin 中间件、页面路由以及 JSON API。
// limiter 为 nil 时不做限流。
func SetupRouter(cfg config.Config, store *db.Store, limiter *mw.Limiter) *gin.Engine {
	users := service.NewUserService(store)
	h := NewHandler(users, service.NewRoomService(store), service.NewMessageService(store), cfg.CookieSecure)

	r := gin.New()
	r.Use(mw.Recovery(), mw.RequestID(), mw.AccessLog(), metrics.GinMiddleware(), mw.NoCache())
	if limiter != nil {
		// 控制单个 IP+路由的速率，避免轮询把服务刷爆。
		r.Use(mw.RateLimit(limiter))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSOrigins))
	}

	r.GET("/healthz", healthz(store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/static", staticFiles())

	// 页面和 API 共用：每个请求一个懒加载的数据库会话，再从 cookie 识别用户。
	app := r.Group("", mw.DBSession(store), auth.Identify(users))

	app.GET("/", h.Index)
	app.GET("/rooms/new", h.NewRoomPage)
	app.POST("/rooms/new", h.CreateRoom)
	app.GET("/signup", h.Signup)
	app.POST("/signup", h.Signup)
	app.GET("/profile", h.Profile)
	app.GET("/login", h.LoginPage)
	app.POST("/login", h.Login)
	app.GET("/logout", h.Logout)
	app.GET("/rooms/:id", h.Room)

	api := app.Group("/api")
	api.POST("/user/name", auth.RequireUser(), h.UpdateUserName)
	api.POST("/user/password", auth.RequireUser(), h.UpdateUserPassword)
	api.POST("/room/name", h.RenameRoom)
	api.GET("/messages/:room_id", h.ListMessages)
	api.POST("/messages/:room_id", auth.RequireUser(), h.PostMessage)

	return r
}
