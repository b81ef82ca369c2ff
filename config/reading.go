package config

import "tarot-trader/pkg/config"

func init() {
	config.Add("reading", func() map[string]interface{} {
		return map[string]interface{}{
			// 抽到逆位的概率
			"reversal_probability": config.Env("READING_REVERSAL_PROBABILITY", 0.3),

			// 抽满三张后自动完成的延迟，0 表示同步完成
			"auto_complete_delay_ms": config.Env("READING_AUTO_COMPLETE_DELAY", 500),
		}
	})
}
