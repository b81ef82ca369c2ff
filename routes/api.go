// Package routes 注册路由
package routes

import (
	v1 "tarot-trader/app/http/controllers/api/v1"
	"tarot-trader/app/http/controllers/api/v1/tarot"
	"tarot-trader/app/http/middlewares"
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/auth"
	"tarot-trader/pkg/config"
	"tarot-trader/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// 路由限流配置
const (
	// 🎴 开始新阅读限流：每小时每用户 100 次
	CreateReadingLimit = "100-H"
	// 🃏 抽牌与完成限流：每分钟每用户 300 次
	DrawCardLimit = "300-M"
	// 📖 卡牌目录限流：每分钟每 IP 600 次
	CatalogLimit = "600-M"
)

// Dependencies 路由依赖的服务
type Dependencies struct {
	Manager      *service.Manager
	JWT          *auth.JWT
	Metrics      *metrics.OperationMetrics
	HealthChecks map[string]v1.HealthCheck
}

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, deps Dependencies) {
	v1Group := r.Group("/v1")

	v1Group.Use(
		middlewares.SecurityHeaders(),
		middlewares.Cors(),
		middlewares.LimitIP(config.GetString("app.api_rate_limit", "30000-H")),
	)

	// 🔍 健康检查与操作指标
	hc := v1.NewHealthController(deps.HealthChecks, deps.Metrics)
	v1Group.GET("/health", hc.Show)

	// 📖 卡牌目录
	cc := tarot.NewCardController(deps.Manager.Catalog())
	v1Group.GET("/cards", middlewares.LimitPerRoute(CatalogLimit), cc.Index)

	authed := v1Group.Group("", middlewares.AuthJWT(deps.JWT))
	rc := tarot.NewReadingController(deps.Manager)

	// 👋 结束会话
	authed.DELETE("/session", rc.SignOut)

	// 🎴 阅读会话
	readings := authed.Group("/readings")
	{
		readings.GET("", rc.Index)
		readings.POST("", middlewares.LimitUser(CreateReadingLimit), rc.Store)
		readings.POST("/reload", rc.Reload)
		readings.POST("/view/close", rc.CloseView)

		readings.GET("/current", rc.Current)
		readings.POST("/current/continue", rc.Continue)
		readings.POST("/current/draws", middlewares.LimitUser(DrawCardLimit), rc.Draw)
		readings.POST("/current/complete", middlewares.LimitUser(DrawCardLimit), rc.Complete)

		readings.GET("/:id", rc.Show)
		readings.DELETE("/:id", rc.Destroy)
	}
}
