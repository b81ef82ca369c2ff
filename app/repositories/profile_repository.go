package repositories

import (
	"context"

	"gorm.io/gorm"

	"tarot-trader/app/models/profile"
)

// ProfileRepository 用户资料仓库
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建仓库实例
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FirstOrCreate 按 ID 查找资料，不存在时创建。已有资料不会被覆盖
func (r *ProfileRepository) FirstOrCreate(ctx context.Context, p *profile.Profile) error {
	return r.db.WithContext(ctx).
		Where(profile.Profile{ID: p.ID}).
		Attrs(profile.Profile{Email: p.Email, Name: p.Name}).
		FirstOrCreate(p).Error
}
