package tarot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tarot-trader/app/models/card"
	"tarot-trader/app/models/reading"
	"tarot-trader/app/repositories"
)

var errStoreDown = errors.New("store down")

// memoryStore 内存实现的 CardStore 和 ReadingStore
type memoryStore struct {
	mu       sync.Mutex
	cards    []card.Card
	rows     map[string]reading.Reading
	failNext map[string]error
	delay    time.Duration
	calls    map[string]int
}

func newMemoryStore(cards []card.Card) *memoryStore {
	return &memoryStore{
		cards:    cards,
		rows:     make(map[string]reading.Reading),
		failNext: make(map[string]error),
		calls:    make(map[string]int),
	}
}

func testCards(n int) []card.Card {
	cards := make([]card.Card, n)
	for i := range cards {
		cards[i] = card.Card{
			ID:       fmt.Sprintf("card-%02d", i),
			Name:     fmt.Sprintf("Card %02d", i),
			Suit:     card.SuitMajorArcana,
			Meaning:  fmt.Sprintf("Meaning %02d", i),
			CardType: card.TypeMajor,
		}
	}
	return cards
}

func (m *memoryStore) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[op] = err
}

func (m *memoryStore) setDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

func (m *memoryStore) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *memoryStore) put(r reading.Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ID] = *r.Clone()
}

func (m *memoryStore) get(id string) (reading.Reading, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	return r, ok
}

func (m *memoryStore) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls[op]++
	delay := m.delay
	err := m.failNext[op]
	delete(m.failNext, op)
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *memoryStore) ListCards(ctx context.Context) ([]card.Card, error) {
	if err := m.enter(ctx, "list_cards"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]card.Card(nil), m.cards...), nil
}

func (m *memoryStore) CreateReading(ctx context.Context, r *reading.Reading) error {
	if err := m.enter(ctx, "create"); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	m.put(*r)
	return nil
}

func (m *memoryStore) owned(ownerID, id string) (reading.Reading, error) {
	r, ok := m.rows[id]
	if !ok || r.UserID != ownerID {
		return reading.Reading{}, repositories.ErrNotFound
	}
	return r, nil
}

func (m *memoryStore) UpdateCards(ctx context.Context, ownerID, id string, cards reading.RawCards) error {
	if err := m.enter(ctx, "update_cards"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(ownerID, id)
	if err != nil {
		return err
	}
	r.CardsDrawn = append(reading.RawCards(nil), cards...)
	m.rows[id] = r
	return nil
}

func (m *memoryStore) CompleteReading(ctx context.Context, ownerID, id string, interpretation *string, completedAt time.Time) error {
	if err := m.enter(ctx, "complete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, err := m.owned(ownerID, id)
	if err != nil {
		return err
	}
	r.Status = reading.StatusCompleted
	if interpretation != nil {
		text := *interpretation
		r.Interpretation = &text
	}
	r.CompletedAt = &completedAt
	m.rows[id] = r
	return nil
}

func (m *memoryStore) DeleteReading(ctx context.Context, ownerID, id string) error {
	if err := m.enter(ctx, "delete"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.owned(ownerID, id); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryStore) ListReadings(ctx context.Context, ownerID string) ([]reading.Reading, error) {
	if err := m.enter(ctx, "list"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []reading.Reading
	for _, r := range m.rows {
		if r.UserID != ownerID {
			continue
		}
		row := *r.Clone()
		row.Cards = nil
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
