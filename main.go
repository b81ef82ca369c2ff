package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	service "tarot-trader/app/services/tarot"
	"tarot-trader/bootstrap"
	"tarot-trader/pkg/app"
	btsConfig "tarot-trader/config"
	"tarot-trader/pkg/auth"
	"tarot-trader/pkg/config"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/metrics"
	"tarot-trader/pkg/redis"
	"tarot-trader/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 加载应用程序的基础配置
func init() {
	// 加载 config 目录下的配置信息
	btsConfig.Initialize()
}

// App 应用程序上下文，用于优雅关闭
type App struct {
	server  *http.Server
	manager *service.Manager
}

func main() {
	// 解析命令行参数
	env := parseFlags()

	// 初始化配置和日志
	config.InitConfig(env)
	bootstrap.SetupLogger()

	// 初始化各组件
	m := metrics.NewOperationMetrics()
	stores := bootstrap.SetupStore(bootstrap.SetupRedis())
	manager := bootstrap.SetupTarot(stores, m)

	secret := config.GetString("auth.jwt_secret")
	if secret == "" {
		if app.IsProduction() {
			logger.FatalString("Auth", "Setup", "生产环境必须设置 JWT_SECRET")
		}
		logger.WarnString("Auth", "Setup", "未设置 JWT_SECRET，所有阅读接口将返回 401")
	}
	jwt := auth.NewJWT(secret, time.Duration(config.GetInt("auth.token_ttl_hours", 24))*time.Hour)

	// 创建并配置 Gin 服务器
	router := setupServer(routes.Dependencies{
		Manager:      manager,
		JWT:          jwt,
		Metrics:      m,
		HealthChecks: stores.Checks,
	})

	app := &App{
		server: &http.Server{
			Addr:    ":" + config.Get("app.port"),
			Handler: router,
		},
		manager: manager,
	}

	// 启动服务器（包含优雅关闭）
	app.start()
}

// parseFlags 解析命令行参数，返回环境配置参数
func parseFlags() string {
	var env string
	flag.StringVar(&env, "env", "", "加载 .env 文件，例如 --env=testing 将加载 .env.testing 文件")
	flag.Parse()
	return env
}

// setupServer 配置并返回 Gin 服务器实例
func setupServer(deps routes.Dependencies) *gin.Engine {
	// 本地环境或调试模式下保留 gin 的调试输出
	if !app.IsLocal() && !config.GetBool("app.debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	bootstrap.SetupRoute(router, deps)
	return router
}

// start 启动服务器并处理优雅关闭
func (a *App) start() {
	// 创建系统信号监听器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.InfoString("Server", "Start", "服务器正在启动，监听端口 "+a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server", zap.String("启动失败", err.Error()))
		}
	}()

	// 等待中断信号
	<-quit
	logger.InfoString("Server", "Shutdown", "正在关闭服务器...")

	// 创建一个带超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := a.server.Shutdown(ctx); err != nil {
		logger.ErrorString("Server", "Shutdown", err.Error())
	}

	// 停止所有会话的自动完成定时器
	a.manager.Close()

	if redis.Redis != nil {
		logger.LogIf(redis.Redis.Close())
	}
	_ = logger.Logger.Sync()

	logger.InfoString("Server", "Shutdown", "服务器已成功关闭")
}
