package bootstrap

import (
	"context"

	v1 "tarot-trader/app/http/controllers/api/v1"
	"tarot-trader/app/repositories"
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/app"
	"tarot-trader/pkg/config"
	"tarot-trader/pkg/database"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/postgrest"
	"tarot-trader/pkg/redis"
)

// Stores 会话使用的存储及其健康检查
type Stores struct {
	Cards    service.CardStore
	Readings service.ReadingStore
	Profiles service.ProfileStore
	Checks   map[string]v1.HealthCheck
}

// SetupStore 按 store.driver 选择存储后端：database（gorm）或 postgrest
func SetupStore(redisEnabled bool) Stores {
	stores := Stores{Checks: make(map[string]v1.HealthCheck)}
	seeded := 0

	switch driver := config.Get("store.driver", "database"); driver {
	case "postgrest":
		client, err := postgrest.New(
			config.GetString("store.postgrest_url"),
			config.GetString("store.postgrest_key"),
			app.Seconds(config.GetInt("store.timeout_seconds", 5)),
		)
		if err != nil {
			panic(err)
		}
		stores.Cards = repositories.NewRestCardRepository(client)
		stores.Readings = repositories.NewRestReadingRepository(client)
		stores.Profiles = repositories.NewRestProfileRepository(client)
		stores.Checks["postgrest"] = func(context.Context) error { return client.HealthCheck() }
		logger.InfoString("Store", "Setup", "使用 PostgREST 存储: "+client.URL)

	case "database":
		seeded = SetupDB()
		stores.Cards = repositories.NewCardRepository(database.DB)
		stores.Readings = repositories.NewReadingRepository(database.DB)
		stores.Profiles = repositories.NewProfileRepository(database.DB)
		stores.Checks["database"] = func(ctx context.Context) error { return database.SQLDB.PingContext(ctx) }
		logger.InfoString("Store", "Setup", "使用数据库存储: "+config.Get("database.connection"))

	default:
		panic("暂不支持该存储类型: " + driver)
	}

	if redisEnabled {
		cached := repositories.NewCachedCardRepository(
			stores.Cards,
			redis.Redis,
			config.GetString("app.name")+":catalog",
			app.Seconds(config.GetInt("redis.catalog_ttl_seconds", 3600)),
		)
		if seeded > 0 {
			cached.Invalidate(context.Background())
		}
		stores.Cards = cached
		stores.Checks["redis"] = redis.Redis.Ping
	}

	return stores
}
