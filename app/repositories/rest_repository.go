package repositories

import (
	"context"
	"encoding/json"
	"time"

	"tarot-trader/app/models"
	"tarot-trader/app/models/card"
	"tarot-trader/app/models/profile"
	"tarot-trader/app/models/reading"
	"tarot-trader/pkg/postgrest"
)

const (
	readingsTable = "readings"
	cardsTable    = "tarot_cards"
	profilesTable = "profiles"
)

// restReading readings 表的 REST 行。cards_drawn 可能是 jsonb 数组，也可能是旧数据中的字符串
type restReading struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	SpreadType     string          `json:"spread_type"`
	Status         reading.Status  `json:"status"`
	CardsDrawn     json.RawMessage `json:"cards_drawn"`
	Interpretation *string         `json:"interpretation"`
	CompletedAt    *time.Time      `json:"completed_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (row restReading) toModel() reading.Reading {
	return reading.Reading{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		SpreadType:     row.SpreadType,
		Status:         row.Status,
		CardsDrawn:     reading.RawCards(row.CardsDrawn),
		Interpretation: row.Interpretation,
		CompletedAt:    row.CompletedAt,
		CommonTimestampsField: models.CommonTimestampsField{
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
	}
}

// cardsJSON 写入时保证 cards_drawn 是合法的 JSON 数组
func cardsJSON(raw reading.RawCards) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return json.RawMessage("[]")
	}
	return json.RawMessage(raw)
}

func ownerFilter(ownerID, id string) map[string]string {
	return map[string]string{
		"id":      "eq." + id,
		"user_id": "eq." + ownerID,
	}
}

// RestReadingRepository 通过 PostgREST 读写阅读记录
type RestReadingRepository struct {
	client *postgrest.Client
}

// NewRestReadingRepository 创建仓库实例
func NewRestReadingRepository(client *postgrest.Client) *RestReadingRepository {
	return &RestReadingRepository{client: client}
}

// CreateReading 创建阅读记录
func (r *RestReadingRepository) CreateReading(ctx context.Context, row *reading.Reading) error {
	if err := row.Validate(); err != nil {
		return err
	}
	return r.client.Insert(ctx, readingsTable, restReading{
		ID:             row.ID,
		UserID:         row.UserID,
		Name:           row.Name,
		SpreadType:     row.SpreadType,
		Status:         row.Status,
		CardsDrawn:     cardsJSON(row.CardsDrawn),
		Interpretation: row.Interpretation,
		CompletedAt:    row.CompletedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, "")
}

// UpdateCards 整体覆盖 cards_drawn
func (r *RestReadingRepository) UpdateCards(ctx context.Context, ownerID, id string, cards reading.RawCards) error {
	return r.update(ctx, ownerID, id, map[string]interface{}{
		"cards_drawn": cardsJSON(cards),
		"updated_at":  time.Now().UTC(),
	})
}

// CompleteReading 标记完成并写入解读
func (r *RestReadingRepository) CompleteReading(ctx context.Context, ownerID, id string, interpretation *string, completedAt time.Time) error {
	return r.update(ctx, ownerID, id, map[string]interface{}{
		"status":         reading.StatusCompleted,
		"interpretation": interpretation,
		"completed_at":   completedAt,
		"updated_at":     completedAt,
	})
}

func (r *RestReadingRepository) update(ctx context.Context, ownerID, id string, values map[string]interface{}) error {
	n, err := r.client.Update(ctx, readingsTable, ownerFilter(ownerID, id), values)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReading 删除阅读记录
func (r *RestReadingRepository) DeleteReading(ctx context.Context, ownerID, id string) error {
	n, err := r.client.Delete(ctx, readingsTable, ownerFilter(ownerID, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReadings 获取用户的全部记录，最新的在前
func (r *RestReadingRepository) ListReadings(ctx context.Context, ownerID string) ([]reading.Reading, error) {
	var rows []restReading
	err := r.client.Select(ctx, readingsTable, map[string]string{
		"select":  "*",
		"user_id": "eq." + ownerID,
		"order":   "created_at.desc",
	}, &rows)
	if err != nil {
		return nil, err
	}

	readings := make([]reading.Reading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, row.toModel())
	}
	return readings, nil
}

// RestCardRepository 通过 PostgREST 读取卡牌目录
type RestCardRepository struct {
	client *postgrest.Client
}

// NewRestCardRepository 创建仓库实例
func NewRestCardRepository(client *postgrest.Client) *RestCardRepository {
	return &RestCardRepository{client: client}
}

// ListCards 按名称返回完整目录
func (r *RestCardRepository) ListCards(ctx context.Context) ([]card.Card, error) {
	var cards []card.Card
	err := r.client.Select(ctx, cardsTable, map[string]string{
		"select": "*",
		"order":  "name.asc",
	}, &cards)
	return cards, err
}

// RestProfileRepository 通过 PostgREST 维护用户资料
type RestProfileRepository struct {
	client *postgrest.Client
}

// NewRestProfileRepository 创建仓库实例
func NewRestProfileRepository(client *postgrest.Client) *RestProfileRepository {
	return &RestProfileRepository{client: client}
}

// FirstOrCreate 插入资料，已存在时忽略
func (r *RestProfileRepository) FirstOrCreate(ctx context.Context, p *profile.Profile) error {
	return r.client.Insert(ctx, profilesTable, map[string]string{
		"id":    p.ID,
		"email": p.Email,
		"name":  p.Name,
	}, "resolution=ignore-duplicates,return=minimal")
}
