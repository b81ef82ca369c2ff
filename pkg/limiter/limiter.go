// Package limiter 处理限流逻辑
package limiter

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tarot-trader/pkg/config"
	"tarot-trader/pkg/redis"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// ErrRedisDisabled Redis 未启用，调用方应退化为进程内限流
var ErrRedisDisabled = errors.New("limiter: redis is not enabled")

// Rate 解析后的限流速率
type Rate struct {
	Limit     int64
	Period    time.Duration
	PerSecond float64
}

// ParseLimit 解析限流配置字符串
// 支持的格式: "5-S"、"10-M"、"1000-H"、"2000-D"
func ParseLimit(limit string) (Rate, error) {
	r, err := limiterlib.NewRateFromFormatted(limit)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid limit format %q: %w", limit, err)
	}
	if r.Limit <= 0 {
		return Rate{}, fmt.Errorf("invalid limit format %q: limit must be positive", limit)
	}
	return Rate{
		Limit:     r.Limit,
		Period:    r.Period,
		PerSecond: float64(r.Limit) / r.Period.Seconds(),
	}, nil
}

// GetKeyIP 按 IP 限流
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyUser 已登录用户按用户 ID 限流，未登录时退回 IP
func GetKeyUser(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return c.ClientIP()
}

// GetKeyRouteWithIP 路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// 每种限额一个 limiter 实例，共用 redis.Redis 连接
var instances sync.Map // map[string]*limiterlib.Limiter

func instanceFor(formatted string) (*limiterlib.Limiter, error) {
	if v, ok := instances.Load(formatted); ok {
		return v.(*limiterlib.Limiter), nil
	}

	rate, err := limiterlib.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	store, err := sredis.NewStoreWithOptions(redis.Redis.Client, limiterlib.StoreOptions{
		Prefix: config.GetString("app.name") + ":limiter",
	})
	if err != nil {
		return nil, err
	}

	actual, _ := instances.LoadOrStore(formatted, limiterlib.New(store, rate))
	return actual.(*limiterlib.Limiter), nil
}

// CheckRate 使用 Redis 检测请求是否超额。
// 同一请求对同一个 key 只计数一次，重复检查时只读取结果
func CheckRate(c *gin.Context, key string, formatted string) (limiterlib.Context, error) {
	if redis.Redis == nil {
		return limiterlib.Context{}, ErrRedisDisabled
	}
	lim, err := instanceFor(formatted)
	if err != nil {
		return limiterlib.Context{}, err
	}

	onceKey := "limiter-once:" + key
	if c.GetBool(onceKey) {
		return lim.Peek(c, key)
	}
	c.Set(onceKey, true)
	return lim.Get(c, key)
}

// routeToKeyString 将路由中的 / 替换为 -，: 替换为 _
func routeToKeyString(routeName string) string {
	return strings.NewReplacer("/", "-", ":", "_").Replace(routeName)
}
