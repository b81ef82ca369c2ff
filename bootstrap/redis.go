package bootstrap

import (
	"fmt"

	"tarot-trader/pkg/config"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/redis"
)

// SetupRedis 初始化 Redis，未启用或连接失败时返回 false，
// 卡牌目录不做缓存，限流使用进程内令牌桶
func SetupRedis() bool {
	if !config.GetBool("redis.enabled") {
		logger.InfoString("Redis", "Setup", "未启用 Redis")
		return false
	}

	err := redis.ConnectRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
	)
	if err != nil {
		logger.ErrorString("Redis", "Setup", err.Error())
		return false
	}
	return true
}
