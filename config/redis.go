package config

import (
	"tarot-trader/pkg/config"
)

func init() {
	config.Add("redis", func() map[string]interface{} {
		return map[string]interface{}{
			// 未开启时卡牌目录不做缓存，限流退化为进程内令牌桶
			"enabled":  config.Env("REDIS_ENABLED", false),
			"host":     config.Env("REDIS_HOST", "127.0.0.1"),
			"port":     config.Env("REDIS_PORT", "6379"),
			"username": config.Env("REDIS_USERNAME", ""),
			"password": config.Env("REDIS_PASSWORD", ""),

			// 业务类存储使用 1 号库（卡牌目录缓存、限流）
			"database": config.Env("REDIS_MAIN_DB", 1),

			// 卡牌目录缓存时长
			"catalog_ttl_seconds": config.Env("REDIS_CATALOG_TTL", 3600),
		}
	})
}
