package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterHTTPRoutes 注册详细健康检查路由。
// 基础的 /healthz 与 /readyz 探针由 HTTP 服务自身提供，这里暴露逐项结果。
func RegisterHTTPRoutes(r *gin.Engine, aggregator *Aggregator) {
	r.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		results := aggregator.CheckAll(ctx)
		overall := aggregator.OverallStatus(ctx)

		// Degraded 仍返回 200，表示可以服务
		code := http.StatusOK
		if overall == StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    overall,
			"timestamp": time.Now(),
			"checks":    results,
		})
	})
}
