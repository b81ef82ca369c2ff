// Package seeders 初始化数据
package seeders

import (
	"context"
	"fmt"

	"tarot-trader/app/models/card"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StarterCards 初始卡牌目录：22 张大阿卡纳，加上四个小阿卡纳花色各 4 张
var StarterCards = []card.Card{
	{Name: "The Fool", Suit: card.SuitMajorArcana, Meaning: "New beginnings, innocence, spontaneity", CardType: card.TypeMajor},
	{Name: "The Magician", Suit: card.SuitMajorArcana, Meaning: "Manifestation, resourcefulness, power", CardType: card.TypeMajor},
	{Name: "The High Priestess", Suit: card.SuitMajorArcana, Meaning: "Intuition, sacred knowledge, divine feminine", CardType: card.TypeMajor},
	{Name: "The Empress", Suit: card.SuitMajorArcana, Meaning: "Femininity, beauty, nature, abundance", CardType: card.TypeMajor},
	{Name: "The Emperor", Suit: card.SuitMajorArcana, Meaning: "Authority, establishment, structure, father figure", CardType: card.TypeMajor},
	{Name: "The Hierophant", Suit: card.SuitMajorArcana, Meaning: "Spiritual wisdom, religious beliefs, conformity", CardType: card.TypeMajor},
	{Name: "The Lovers", Suit: card.SuitMajorArcana, Meaning: "Love, harmony, relationships, values alignment", CardType: card.TypeMajor},
	{Name: "The Chariot", Suit: card.SuitMajorArcana, Meaning: "Control, will power, success, determination", CardType: card.TypeMajor},
	{Name: "Strength", Suit: card.SuitMajorArcana, Meaning: "Inner strength, bravery, compassion, focus", CardType: card.TypeMajor},
	{Name: "The Hermit", Suit: card.SuitMajorArcana, Meaning: "Soul searching, introspection, inner guidance", CardType: card.TypeMajor},
	{Name: "Wheel of Fortune", Suit: card.SuitMajorArcana, Meaning: "Good luck, karma, life cycles, destiny", CardType: card.TypeMajor},
	{Name: "Justice", Suit: card.SuitMajorArcana, Meaning: "Justice, fairness, truth, cause and effect", CardType: card.TypeMajor},
	{Name: "The Hanged Man", Suit: card.SuitMajorArcana, Meaning: "Suspension, restriction, letting go", CardType: card.TypeMajor},
	{Name: "Death", Suit: card.SuitMajorArcana, Meaning: "Endings, beginnings, change, transformation", CardType: card.TypeMajor},
	{Name: "Temperance", Suit: card.SuitMajorArcana, Meaning: "Balance, moderation, patience, purpose", CardType: card.TypeMajor},
	{Name: "The Devil", Suit: card.SuitMajorArcana, Meaning: "Bondage, addiction, sexuality, materialism", CardType: card.TypeMajor},
	{Name: "The Tower", Suit: card.SuitMajorArcana, Meaning: "Sudden change, upheaval, chaos, revelation", CardType: card.TypeMajor},
	{Name: "The Star", Suit: card.SuitMajorArcana, Meaning: "Hope, faith, purpose, renewal, spirituality", CardType: card.TypeMajor},
	{Name: "The Moon", Suit: card.SuitMajorArcana, Meaning: "Illusion, fear, anxiety, subconscious, intuition", CardType: card.TypeMajor},
	{Name: "The Sun", Suit: card.SuitMajorArcana, Meaning: "Happiness, success, optimism, vitality", CardType: card.TypeMajor},
	{Name: "Judgement", Suit: card.SuitMajorArcana, Meaning: "Judgement, rebirth, inner calling, absolution", CardType: card.TypeMajor},
	{Name: "The World", Suit: card.SuitMajorArcana, Meaning: "Completion, accomplishment, travel", CardType: card.TypeMajor},

	{Name: "Ace of Wands", Suit: card.SuitWands, Meaning: "Inspiration, new opportunities, growth", CardType: card.TypeMinor},
	{Name: "Two of Wands", Suit: card.SuitWands, Meaning: "Future planning, making decisions, leaving comfort zone", CardType: card.TypeMinor},
	{Name: "Three of Wands", Suit: card.SuitWands, Meaning: "Expansion, foresight, overseas opportunities", CardType: card.TypeMinor},
	{Name: "Ten of Wands", Suit: card.SuitWands, Meaning: "Burden, extra responsibility, hard work", CardType: card.TypeMinor},

	{Name: "Ace of Cups", Suit: card.SuitCups, Meaning: "Love, new relationships, compassion, creativity", CardType: card.TypeMinor},
	{Name: "Two of Cups", Suit: card.SuitCups, Meaning: "Unified love, partnership, mutual attraction", CardType: card.TypeMinor},
	{Name: "Three of Cups", Suit: card.SuitCups, Meaning: "Celebration, friendship, creativity, community", CardType: card.TypeMinor},
	{Name: "Ten of Cups", Suit: card.SuitCups, Meaning: "Divine love, blissful relationships, harmony", CardType: card.TypeMinor},

	{Name: "Ace of Swords", Suit: card.SuitSwords, Meaning: "Breakthrough, clarity, sharp mind", CardType: card.TypeMinor},
	{Name: "Two of Swords", Suit: card.SuitSwords, Meaning: "Difficult decisions, weighing options, indecision", CardType: card.TypeMinor},
	{Name: "Three of Swords", Suit: card.SuitSwords, Meaning: "Heartbreak, emotional pain, sorrow", CardType: card.TypeMinor},
	{Name: "Ten of Swords", Suit: card.SuitSwords, Meaning: "Painful endings, deep wounds, betrayal", CardType: card.TypeMinor},

	{Name: "Ace of Pentacles", Suit: card.SuitPentacles, Meaning: "Manifestation, new financial opportunity, prosperity", CardType: card.TypeMinor},
	{Name: "Two of Pentacles", Suit: card.SuitPentacles, Meaning: "Multiple priorities, time management, prioritization", CardType: card.TypeMinor},
	{Name: "Three of Pentacles", Suit: card.SuitPentacles, Meaning: "Collaboration, learning, implementation", CardType: card.TypeMinor},
	{Name: "Ten of Pentacles", Suit: card.SuitPentacles, Meaning: "Wealth, financial security, family", CardType: card.TypeMinor},
}

// SeedCards 卡牌表为空时写入初始卡牌，返回写入数量。已有数据时不做任何修改
func SeedCards(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&card.Card{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tarot cards: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	cards := make([]card.Card, len(StarterCards))
	for i, c := range StarterCards {
		c.ID = uuid.NewString()
		cards[i] = c
	}

	if err := db.WithContext(ctx).CreateInBatches(cards, 100).Error; err != nil {
		return 0, fmt.Errorf("seed tarot cards: %w", err)
	}
	return len(cards), nil
}
