package repositories

import (
	"context"

	"gorm.io/gorm"

	"tarot-trader/app/models/card"
)

// CardRepository 卡牌目录仓库
type CardRepository struct {
	db *gorm.DB
}

// NewCardRepository 创建仓库实例
func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// ListCards 按名称返回完整目录
func (r *CardRepository) ListCards(ctx context.Context) ([]card.Card, error) {
	var cards []card.Card
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cards).Error
	return cards, err
}
