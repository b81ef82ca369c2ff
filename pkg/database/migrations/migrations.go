package migrations

import (
	"tarot-trader/app/models/card"
	"tarot-trader/app/models/profile"
	"tarot-trader/app/models/reading"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&profile.Profile{},
		&card.Card{},
		&reading.Reading{},
	}
}
