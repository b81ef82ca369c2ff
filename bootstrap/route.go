package bootstrap

import (
	"net/http"
	"strings"

	"tarot-trader/app/http/middlewares"
	"tarot-trader/pkg/response"
	"tarot-trader/routes"

	"github.com/gin-gonic/gin"
)

// SetupRoute 注册全局中间件、API 路由和 404 处理器
func SetupRoute(router *gin.Engine, deps routes.Dependencies) {
	router.Use(
		middlewares.Logger(),   // 记录请求日志
		middlewares.Recovery(), // 在发生 panic 时恢复
	)

	routes.RegisterAPIRoutes(router, deps)

	router.NoRoute(notFound)
	router.NoMethod(notFound)
}

// notFound 浏览器访问返回纯文本，其余返回统一的 JSON 结构
func notFound(c *gin.Context) {
	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.String(http.StatusNotFound, "页面返回 404")
		return
	}
	response.Abort404(c, "路由未定义，请确认 url 和请求方法是否正确")
}
