package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tarot-trader/app/models/reading"
)

// ReadingRepository 塔罗牌阅读记录仓库
type ReadingRepository struct {
	db *gorm.DB
}

// NewReadingRepository 创建仓库实例
func NewReadingRepository(db *gorm.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// CreateReading 创建阅读记录
func (r *ReadingRepository) CreateReading(ctx context.Context, row *reading.Reading) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateCards 整体覆盖 cards_drawn 列
func (r *ReadingRepository) UpdateCards(ctx context.Context, ownerID, id string, cards reading.RawCards) error {
	return r.update(ctx, ownerID, id, map[string]interface{}{
		"cards_drawn": cards,
		"updated_at":  time.Now(),
	})
}

// CompleteReading 标记完成并写入解读
func (r *ReadingRepository) CompleteReading(ctx context.Context, ownerID, id string, interpretation *string, completedAt time.Time) error {
	return r.update(ctx, ownerID, id, map[string]interface{}{
		"status":         reading.StatusCompleted,
		"interpretation": interpretation,
		"completed_at":   completedAt,
		"updated_at":     completedAt,
	})
}

func (r *ReadingRepository) update(ctx context.Context, ownerID, id string, values map[string]interface{}) error {
	// 使用复合条件确保只能修改自己的记录
	result := r.db.WithContext(ctx).
		Model(&reading.Reading{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReading 删除阅读记录
func (r *ReadingRepository) DeleteReading(ctx context.Context, ownerID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&reading.Reading{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReadings 获取用户的全部记录，最新的在前
func (r *ReadingRepository) ListReadings(ctx context.Context, ownerID string) ([]reading.Reading, error) {
	var readings []reading.Reading
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&readings).Error
	return readings, err
}
