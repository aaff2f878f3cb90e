package mw

import (
	"net/http"
	"time"

	"watchparty/internal/auth"
	"watchparty/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID 沿用调用方的 X-Request-ID，没有则生成一个。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog 在处理链结束后为每个请求记一行访问日志。
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		if status >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Uint("user_id", auth.GetUserID(c)).
			Msg("request")
	}
}

// NoCache 要求浏览器每次都重新校验响应。
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.Next()
	}
}

// Recovery 把 panic 转成 500，不把 panic 内容暴露给客户端。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Str("request_id", GetRequestID(c)).Interface("panic", recovered).Msg("handler panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}

// DBSession 为每个请求创建独立的 db.Session，处理链返回后（包括 panic）释放。
func DBSession(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.NewSession()
		defer func() {
			if err := sess.Close(); err != nil {
				log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("release db session")
			}
		}()
		c.Request = c.Request.WithContext(db.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}
