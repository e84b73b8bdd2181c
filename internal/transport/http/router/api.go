package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-service/internal/core/config"
	"user-service/internal/core/server"
	mdw "user-service/internal/transport/http/middleware"
)

// NewAPIEngine 业务端引擎，模块挂在 /v1 下
func NewAPIEngine(l *zap.Logger, h config.HTTP, mods ...APIModule) *gin.Engine {
	r := server.NewRouter(l, h.CORSOrigins)

	// 中间件
	r.Use(
		mdw.RequestID(l),
		mdw.AccessLog(l),
		mdw.Metrics(),
		mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst),
	)
	if h.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(h.MaxConcurrent))
	}
	if h.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(h.MaxBodyBytes))
	}
	if h.RequestTimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(h.RequestTimeoutSec) * time.Second))
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

	MountAll(r.Group("/v1"), mods...)
	return r
}
