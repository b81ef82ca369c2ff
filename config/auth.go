package config

import "tarot-trader/pkg/config"

func init() {
	config.Add("auth", func() map[string]interface{} {
		return map[string]interface{}{
			// JWT 签名密钥，生产环境必须设置
			"jwt_secret": config.Env("JWT_SECRET", ""),

			// 签发令牌的有效期
			"token_ttl_hours": config.Env("JWT_TTL_HOURS", 24),
		}
	})
}
