package bootstrap

import (
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/app"
	"tarot-trader/pkg/config"
	"tarot-trader/pkg/draw"
	"tarot-trader/pkg/metrics"
)

// SetupTarot 创建会话管理器
func SetupTarot(stores Stores, m *metrics.OperationMetrics) *service.Manager {
	timeout := app.Seconds(config.GetInt("store.timeout_seconds", 5))

	engine := draw.NewEngine(nil, config.GetFloat64("reading.reversal_probability", draw.DefaultReversalProbability))
	catalog := service.NewCatalog(stores.Cards, timeout)

	return service.NewManager(catalog, engine, stores.Readings, stores.Profiles, service.Options{
		AutoCompleteDelay: app.Milliseconds(config.GetInt("reading.auto_complete_delay_ms", int(service.DefaultAutoCompleteDelay.Milliseconds()))),
		StoreTimeout:      timeout,
		Now:               app.TimenowInTimezone,
		Metrics:           m,
	})
}
