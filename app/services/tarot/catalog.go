package tarot

import (
	"context"
	"time"

	"tarot-trader/app/models/card"
)

// Catalog 卡牌目录查询
type Catalog struct {
	store   CardStore
	timeout time.Duration
}

// NewCatalog 创建目录，timeout 为 0 时使用 DefaultStoreTimeout
func NewCatalog(store CardStore, timeout time.Duration) *Catalog {
	return &Catalog{store: store, timeout: timeout}
}

// ListCards 返回完整目录
func (c *Catalog) ListCards(ctx context.Context) ([]card.Card, error) {
	cards, err := withTimeout(ctx, c.timeout, "list cards", c.store.ListCards)
	if err != nil {
		return nil, readError("list cards", err)
	}
	return cards, nil
}

// ListAvailableCards 返回目录中不在 exclude 里的牌，保持目录顺序
func (c *Catalog) ListAvailableCards(ctx context.Context, exclude map[string]struct{}) ([]card.Card, error) {
	cards, err := c.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]card.Card, 0, len(cards))
	for _, cd := range cards {
		if _, drawn := exclude[cd.ID]; drawn {
			continue
		}
		available = append(available, cd)
	}
	return available, nil
}
