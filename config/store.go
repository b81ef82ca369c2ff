package config

import "tarot-trader/pkg/config"

func init() {
	config.Add("store", func() map[string]interface{} {
		return map[string]interface{}{
			// 记录存储后端：database（gorm）或 postgrest（Supabase 等 REST 接口）
			"driver": config.Env("STORE_DRIVER", "database"),

			// 单次存储调用的超时时间
			"timeout_seconds": config.Env("STORE_TIMEOUT", 5),

			// postgrest 后端配置
			"postgrest_url": config.Env("POSTGREST_URL", ""),
			"postgrest_key": config.Env("POSTGREST_KEY", ""),
		}
	})
}
