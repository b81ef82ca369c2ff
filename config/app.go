// Package config 站点配置信息
package config

import "tarot-trader/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称
			"name": config.Env("APP_NAME", "TarotTrader"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("APP_PORT", "3000"),

			// 设置时区，阅读记录的 created_at / completed_at 使用
			"timezone": config.Env("TIMEZONE", "UTC"),

			// 跨域允许的来源，前端部署在其他域名时设置
			"cors_origin": config.Env("CORS_ORIGIN", "*"),

			// 全局限流，格式见 pkg/limiter
			"api_rate_limit": config.Env("API_RATE_LIMIT", "30000-H"),
		}
	})
}
