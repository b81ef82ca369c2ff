package tarot

import (
	"context"
	"time"

	"tarot-trader/app/models/card"
	"tarot-trader/app/models/profile"
	"tarot-trader/app/models/reading"
)

// CardStore 卡牌目录的只读存储
type CardStore interface {
	ListCards(ctx context.Context) ([]card.Card, error)
}

// ReadingStore 阅读记录存储。所有写操作都带 ownerID 条件，
// 记录不存在或不属于该用户时返回 repositories.ErrNotFound
type ReadingStore interface {
	CreateReading(ctx context.Context, r *reading.Reading) error
	UpdateCards(ctx context.Context, ownerID, id string, cards reading.RawCards) error
	CompleteReading(ctx context.Context, ownerID, id string, interpretation *string, completedAt time.Time) error
	DeleteReading(ctx context.Context, ownerID, id string) error
	// ListReadings 按 created_at 倒序返回，只填充 CardsDrawn，不解析
	ListReadings(ctx context.Context, ownerID string) ([]reading.Reading, error)
}

// ProfileStore 用户资料存储
type ProfileStore interface {
	FirstOrCreate(ctx context.Context, p *profile.Profile) error
}
