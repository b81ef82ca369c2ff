// Package v1 v1 版本的公共接口
package v1

import (
	"context"
	"net/http"
	"time"

	"tarot-trader/pkg/metrics"
	"tarot-trader/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck 依赖的健康检查
type HealthCheck func(ctx context.Context) error

// HealthController 健康检查
type HealthController struct {
	checks  map[string]HealthCheck
	metrics *metrics.OperationMetrics
}

func NewHealthController(checks map[string]HealthCheck, m *metrics.OperationMetrics) *HealthController {
	return &HealthController{checks: checks, metrics: m}
}

// Show 健康检查端点，任一依赖失败时返回 503
// GET /v1/health
func (hc *HealthController) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	healthy := true
	deps := make(map[string]string, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			healthy = false
			continue
		}
		deps[name] = "ok"
	}

	data := gin.H{
		"time":         time.Now().Unix(),
		"dependencies": deps,
		"metrics":      hc.metrics.Snapshot(),
	}
	if !healthy {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
			Status:  response.Error,
			Message: "依赖服务不可用",
			Data:    data,
		})
		return
	}
	response.Data(c, data)
}
