package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juicelab/juicebox-server/internal/session"
)

// RegisterReadOnlyRoutes 注册只读查询路由
func RegisterReadOnlyRoutes(r *gin.Engine, sess session.Manager, logger *zap.Logger) {
	if r == nil || sess == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := NewReadOnlyHandler(sess, logger)

	api := r.Group("/api/v1")
	api.GET("/devices", handler.ListDevices)
	api.GET("/devices/:deviceId", handler.GetDevice)

	logger.Info("readonly routes registered", zap.Int("endpoints", 2))
}
