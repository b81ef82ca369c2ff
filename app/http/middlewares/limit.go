package middlewares

import (
	"sync"
	"time"

	"tarot-trader/pkg/app"
	"tarot-trader/pkg/limiter"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/redis"
	"tarot-trader/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	// DefaultBurst 默认突发请求数量
	DefaultBurst = 100
	// idleLimiterTTL 进程内限流器闲置多久后清理
	idleLimiterTTL = 24 * time.Hour
)

var (
	// 进程内限流器，Redis 未启用时使用
	limiters sync.Map // map[string]*localLimiter
	// 清理协程只启动一次
	cleanupOnce sync.Once
)

type localLimiter struct {
	lim      *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (l *localLimiter) touch() {
	l.mu.Lock()
	l.lastSeen = time.Now()
	l.mu.Unlock()
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Limit string
	Burst int
}

// LimitIP 全局限流中间件，针对 IP 进行限流
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
//
// Redis 启用时多实例共享计数，否则退化为进程内令牌桶
func LimitIP(limit string) gin.HandlerFunc {
	return createLimiterHandler(limiter.GetKeyIP, newRateLimitConfig(limit))
}

// LimitUser 针对登录用户的限流，需放在 AuthJWT 之后
func LimitUser(limit string) gin.HandlerFunc {
	return createLimiterHandler(limiter.GetKeyUser, newRateLimitConfig(limit))
}

// LimitPerRoute 针对单个路由的限流中间件，基于 IP + 路由路径
func LimitPerRoute(limit string) gin.HandlerFunc {
	return createLimiterHandler(limiter.GetKeyRouteWithIP, newRateLimitConfig(limit))
}

func newRateLimitConfig(limit string) RateLimitConfig {
	// 测试环境使用较大限制
	if app.IsTesting() {
		limit = "1000000-H"
	}
	return RateLimitConfig{
		Limit: limit,
		Burst: DefaultBurst,
	}
}

// createLimiterHandler 创建限流处理器
// keyFunc: 用于生成限流键的函数
// config: 限流配置
func createLimiterHandler(keyFunc func(*gin.Context) string, config RateLimitConfig) gin.HandlerFunc {
	// 定期清理过期的限流器
	cleanupOnce.Do(func() { go cleanupLimiters() })

	return func(c *gin.Context) {
		// 不同限额使用各自的计数
		key := config.Limit + ":" + keyFunc(c)

		if redis.Redis != nil {
			if allowed, ok := checkRedis(c, key, config.Limit); ok {
				if !allowed {
					response.Abort429(c)
				}
				return
			}
		}

		// 获取或创建限流器
		lim, err := getLimiter(key, config)
		if err != nil {
			logger.ErrorString("限流器", "创建失败", err.Error())
			// 降级处理：允许请求通过
			c.Next()
			return
		}

		// 尝试获取令牌
		if !lim.Allow() {
			response.Abort429(c)
			return
		}

		// 设置 RateLimit 相关响应头
		setRateLimitHeaders(c, lim)

		c.Next()
	}
}

// checkRedis 使用 Redis 计数。第二个返回值为 false 时表示 Redis 不可用，由调用方降级
func checkRedis(c *gin.Context, key, limit string) (allowed bool, ok bool) {
	result, err := limiter.CheckRate(c, key, limit)
	if err != nil {
		logger.WarnString("限流器", "Redis", err.Error())
		return false, false
	}

	c.Header("X-RateLimit-Limit", cast.ToString(result.Limit))
	c.Header("X-RateLimit-Remaining", cast.ToString(result.Remaining))
	c.Header("X-RateLimit-Reset", cast.ToString(result.Reset))

	if result.Reached {
		return false, true
	}
	c.Next()
	return true, true
}

// getLimiter 获取或创建限流器
func getLimiter(key string, config RateLimitConfig) (*rate.Limiter, error) {
	// 尝试从缓存获取限流器
	if v, exists := limiters.Load(key); exists {
		l := v.(*localLimiter)
		l.touch()
		return l.lim, nil
	}

	// 解析限流配置
	r, err := limiter.ParseLimit(config.Limit)
	if err != nil {
		return nil, err
	}

	// 突发量不超过限额本身
	burst := config.Burst
	if r.Limit < int64(burst) {
		burst = int(r.Limit)
	}
	l := &localLimiter{lim: rate.NewLimiter(rate.Limit(r.PerSecond), burst), lastSeen: time.Now()}
	actual, _ := limiters.LoadOrStore(key, l)
	return actual.(*localLimiter).lim, nil
}

// setRateLimitHeaders 设置限流相关的响应头
func setRateLimitHeaders(c *gin.Context, lim *rate.Limiter) {
	c.Header("X-RateLimit-Limit", cast.ToString(float64(lim.Limit())))
	c.Header("X-RateLimit-Remaining", cast.ToString(int(lim.Tokens())))
	c.Header("X-RateLimit-Reset", cast.ToString(time.Now().Add(time.Second).Unix()))
}

// cleanupLimiters 定期清理过期的限流器
func cleanupLimiters() {
	ticker := time.NewTicker(time.Hour)
	for range ticker.C {
		removeIdleLimiters(time.Now())
	}
}

func removeIdleLimiters(now time.Time) {
	limiters.Range(func(key, value interface{}) bool {
		l := value.(*localLimiter)
		l.mu.Lock()
		idle := now.Sub(l.lastSeen) > idleLimiterTTL
		l.mu.Unlock()
		if idle {
			limiters.Delete(key)
		}
		return true
	})
}
