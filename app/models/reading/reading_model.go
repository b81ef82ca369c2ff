// Package reading 塔罗牌阅读记录
package reading

import (
	"time"

	"tarot-trader/app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reading 一次牌阵阅读。cards_drawn 列保存完整的已抽卡牌 JSON 数组，每次抽牌整体覆盖写入
type Reading struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string     `gorm:"type:varchar(36);index" json:"user_id"`
	Name           string     `gorm:"column:name;type:varchar(100)" json:"title"`
	SpreadType     string     `gorm:"type:varchar(30)" json:"spread_type"`
	Status         Status     `gorm:"type:varchar(20);index" json:"status"`
	CardsDrawn     RawCards   `gorm:"column:cards_drawn;type:text" json:"-"`
	Interpretation *string    `gorm:"type:text" json:"interpretation,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// Cards 为 CardsDrawn 解码后的内存形态，不直接落库
	Cards DrawnCards `gorm:"-" json:"cards"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Reading) TableName() string {
	return "readings"
}

// BeforeCreate GORM 钩子，补全主键并校验
func (r *Reading) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return r.Validate()
}
