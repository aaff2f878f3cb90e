package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	UsersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchparty_users_created_total",
		Help: "Total number of accounts created through signup",
	})
	RoomsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchparty_rooms_created_total",
		Help: "Total number of rooms created",
	})
	MessagesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "watchparty_messages_posted_total",
		Help: "Total number of chat messages stored",
	})
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "watchparty_logins_total",
		Help: "Login form submissions by outcome",
	}, []string{"result"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(UsersCreated, RoomsCreated, MessagesPosted, LoginsTotal, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware 按路由模板统计请求数和耗时，/rooms/1 与 /rooms/2 计入同一序列。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": strconv.Itoa(c.Writer.Status())}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
