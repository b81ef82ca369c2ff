package reading

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"tarot-trader/app/models/card"
)

// Status 阅读状态
type Status string

const (
	StatusInProgress Status = "in_progress" // 进行中
	StatusCompleted  Status = "completed"   // 已完成
)

// Position 牌阵中的位置
type Position string

const (
	PositionPast    Position = "past"
	PositionPresent Position = "present"
	PositionFuture  Position = "future"
)

// SpreadThreeCard 过去/现在/未来三张牌阵
const SpreadThreeCard = "three_card"

// Positions 三张牌阵的位置顺序，也是解读时的卡牌顺序
var Positions = []Position{PositionPast, PositionPresent, PositionFuture}

// CardCount 牌阵满员时的卡牌数量
var CardCount = len(Positions)

// IsValid 检查位置是否合法
func (p Position) IsValid() bool {
	for _, pos := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// DrawnCard 抽到的一张牌，带有位置和正逆位
type DrawnCard struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Suit     card.Suit `json:"suit"`
	Meaning  string    `json:"meaning"`
	CardType string    `json:"card_type,omitempty"`
	Reversed bool      `json:"reversed"`
	Position Position  `json:"position"`
}

// NewDrawnCard 由目录卡牌构造一张已抽卡牌
func NewDrawnCard(c card.Card, reversed bool, position Position) DrawnCard {
	return DrawnCard{
		ID:       c.ID,
		Name:     c.Name,
		Suit:     c.Suit,
		Meaning:  c.Meaning,
		CardType: c.CardType,
		Reversed: reversed,
		Position: position,
	}
}

// DrawnCards 已抽卡牌列表，按抽取顺序排列
type DrawnCards []DrawnCard

// IDSet 返回已抽卡牌 ID 集合，用于抽牌时排除
func (cs DrawnCards) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		set[c.ID] = struct{}{}
	}
	return set
}

// At 返回某个位置上的牌
func (cs DrawnCards) At(position Position) (DrawnCard, bool) {
	for _, c := range cs {
		if c.Position == position {
			return c, true
		}
	}
	return DrawnCard{}, false
}

// Clone 复制列表
func (cs DrawnCards) Clone() DrawnCards {
	if cs == nil {
		return DrawnCards{}
	}
	out := make(DrawnCards, len(cs))
	copy(out, cs)
	return out
}

// RawCards cards_drawn 列的原始内容。Scan 从不解析，解析失败只影响单条记录
type RawCards []byte

// Value 实现 driver.Valuer 接口
func (r RawCards) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "[]", nil
	}
	return string(r), nil
}

// Scan 实现 sql.Scanner 接口
func (r *RawCards) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append(RawCards(nil), v...)
	case string:
		*r = RawCards(v)
	default:
		return fmt.Errorf("invalid type for cards_drawn: %T", value)
	}
	return nil
}

// EncodeCards 将卡牌列表编码为 cards_drawn 列内容
func EncodeCards(cards DrawnCards) (RawCards, error) {
	if cards == nil {
		cards = DrawnCards{}
	}
	b, err := json.Marshal(cards)
	if err != nil {
		return nil, err
	}
	return RawCards(b), nil
}

// ParseCards 解析 cards_drawn 列。空值和 null 视为空列表；
// 兼容被二次编码为 JSON 字符串的旧数据
func ParseCards(raw RawCards) (DrawnCards, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return DrawnCards{}, nil
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, err
		}
		return ParseCards(RawCards(inner))
	}

	var cards DrawnCards
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = DrawnCards{}
	}
	return cards, nil
}

// Validate 验证记录
func (r *Reading) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	if r.Status != StatusInProgress && r.Status != StatusCompleted {
		return errors.New("invalid reading status")
	}
	if len(r.Cards) > CardCount {
		return fmt.Errorf("maximum %d cards allowed", CardCount)
	}
	return nil
}

// IsInProgress 检查是否进行中
func (r *Reading) IsInProgress() bool {
	return r.Status == StatusInProgress
}

// IsCompleted 检查是否已完成
func (r *Reading) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// IsFull 所有位置是否都已抽牌
func (r *Reading) IsFull() bool {
	return len(r.Cards) >= CardCount
}

// HasInterpretation 是否已生成解读
func (r *Reading) HasInterpretation() bool {
	return r.Interpretation != nil && *r.Interpretation != ""
}

// Clone 深拷贝，会话对外返回的都是副本
func (r *Reading) Clone() *Reading {
	if r == nil {
		return nil
	}
	out := *r
	out.Cards = r.Cards.Clone()
	out.CardsDrawn = append(RawCards(nil), r.CardsDrawn...)
	if r.Interpretation != nil {
		s := *r.Interpretation
		out.Interpretation = &s
	}
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}
