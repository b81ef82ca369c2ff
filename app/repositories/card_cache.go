package repositories

import (
	"context"
	"encoding/json"
	"time"

	"tarot-trader/app/models/card"
	"tarot-trader/pkg/logger"
)

// CardLister 卡牌目录来源
type CardLister interface {
	ListCards(ctx context.Context) ([]card.Card, error)
}

// KV 缓存接口，*redis.RedisClient 实现了该接口
type KV interface {
	Get(ctx context.Context, key string) string
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) bool
	Del(ctx context.Context, keys ...string) bool
}

// CachedCardRepository 目录读穿缓存。目录只在初始化时写入，写入后由调用方 Invalidate
type CachedCardRepository struct {
	source CardLister
	kv     KV
	key    string
	ttl    time.Duration
}

// NewCachedCardRepository 创建缓存仓库，key 形如 "<app>:catalog"
func NewCachedCardRepository(source CardLister, kv KV, key string, ttl time.Duration) *CachedCardRepository {
	return &CachedCardRepository{source: source, kv: kv, key: key, ttl: ttl}
}

// ListCards 优先读缓存，缓存缺失或损坏时回源并回填
func (r *CachedCardRepository) ListCards(ctx context.Context) ([]card.Card, error) {
	if cached := r.kv.Get(ctx, r.key); cached != "" {
		var cards []card.Card
		if err := json.Unmarshal([]byte(cached), &cards); err == nil && len(cards) > 0 {
			return cards, nil
		}
		logger.WarnString("CardCache", "Get", "缓存内容无法解析，回源读取")
	}

	cards, err := r.source.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return cards, nil
	}

	if b, err := json.Marshal(cards); err == nil {
		r.kv.Set(ctx, r.key, string(b), r.ttl)
	}
	return cards, nil
}

// Invalidate 清除缓存，重新初始化目录后调用
func (r *CachedCardRepository) Invalidate(ctx context.Context) {
	r.kv.Del(ctx, r.key)
}
