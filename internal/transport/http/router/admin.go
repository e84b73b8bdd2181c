package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-service/internal/core/server"
	mdw "user-service/internal/transport/http/middleware"
)

// HealthCheck 依赖探活，返回 nil 表示可用
type HealthCheck func(ctx context.Context) error

// NewAdminEngine 运维端引擎：/health 汇总依赖探活，/metrics 暴露 prometheus 指标
func NewAdminEngine(l *zap.Logger, checks map[string]HealthCheck) *gin.Engine {
	r := server.NewRouter(l, nil)
	r.Use(mdw.RequestID(l))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, detail := http.StatusOK, gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				detail[name] = err.Error()
				continue
			}
			detail[name] = "UP"
		}
		overall := "UP"
		if status != http.StatusOK {
			overall = "DOWN"
		}
		c.JSON(status, gin.H{"status": overall, "checks": detail})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
