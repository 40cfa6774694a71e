package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/juicelab/juicebox-server/internal/session"
)

// ReadOnlyHandler 只读 API 处理器
type ReadOnlyHandler struct {
	sess   session.Manager
	logger *zap.Logger
}

// NewReadOnlyHandler 创建只读 API 处理器
func NewReadOnlyHandler(sess session.Manager, logger *zap.Logger) *ReadOnlyHandler {
	return &ReadOnlyHandler{sess: sess, logger: logger}
}

type deviceView struct {
	session.Snapshot
	Online bool `json:"online"`
}

// ListDevices 查询已知设备及其最近上报
func (h *ReadOnlyHandler) ListDevices(c *gin.Context) {
	now := time.Now()
	devs := h.sess.Devices()
	out := make([]deviceView, 0, len(devs))
	for _, s := range devs {
		out = append(out, deviceView{Snapshot: s, Online: h.sess.IsOnline(s.DeviceID, now)})
	}
	c.JSON(http.StatusOK, gin.H{"devices": out, "online": h.sess.OnlineCount(now)})
}

// GetDevice 查询单台设备的最近上报
func (h *ReadOnlyHandler) GetDevice(c *gin.Context) {
	id := c.Param("deviceId")
	s, ok := h.sess.Snapshot(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown device"})
		return
	}
	c.JSON(http.StatusOK, deviceView{Snapshot: s, Online: h.sess.IsOnline(id, time.Now())})
}
