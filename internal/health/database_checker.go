package health

import (
	"context"
	"fmt"
	"time"

	"github.com/juicelab/juicebox-server/internal/storage/gormrepo"
)

// DatabaseChecker 遥测归档库健康检查器（启用数据库归档时注册）
type DatabaseChecker struct {
	repo *gormrepo.Repository
}

// NewDatabaseChecker 创建数据库健康检查器
func NewDatabaseChecker(repo *gormrepo.Repository) *DatabaseChecker {
	return &DatabaseChecker{repo: repo}
}

// Name 返回检查器名称
func (c *DatabaseChecker) Name() string {
	return "database"
}

// Check 执行健康检查
func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	if err := c.repo.Ping(ctx); err != nil {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
			Latency: time.Since(start),
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Latency: time.Since(start),
	}
}
