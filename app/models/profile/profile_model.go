// Package profile 用户资料
package profile

import (
	"tarot-trader/app/models"
)

// Profile 身份提供方确认的用户资料，ID 与令牌中的 sub 一致
type Profile struct {
	ID    string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email string `gorm:"type:varchar(255);index" json:"email"`
	Name  string `gorm:"type:varchar(50)" json:"name"`

	models.CommonTimestampsField
}

// TableName 表名
func (Profile) TableName() string {
	return "profiles"
}
