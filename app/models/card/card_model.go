// Package card 塔罗牌目录
package card

// Card 卡牌目录中的一张牌，由初始化数据写入，之后不再修改
type Card struct {
	ID       string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name     string `gorm:"type:varchar(100);uniqueIndex" json:"name"`
	Suit     Suit   `gorm:"type:varchar(20);index" json:"suit"`
	Meaning  string `gorm:"type:text" json:"meaning"`
	CardType string `gorm:"type:varchar(20)" json:"card_type"`
}

// TableName 指定表名
func (Card) TableName() string {
	return "tarot_cards"
}
