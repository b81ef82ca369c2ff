package tarot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tarot-trader/app/models/reading"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/metrics"

	"go.uber.org/zap"
)

// Reconcile 由存储中的记录计算会话状态：最新的进行中记录为当前阅读，
// 已完成记录按 created_at 倒序组成历史。cards_drawn 无法解析的记录
// 以空卡牌列表保留，对应的错误在 problems 中返回
func Reconcile(rows []reading.Reading) (current *reading.Reading, history []*reading.Reading, problems []error) {
	sorted := make([]reading.Reading, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	history = make([]*reading.Reading, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for i := range sorted {
		r := sorted[i].Clone()
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}

		cards, err := reading.ParseCards(r.CardsDrawn)
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, r.ID, err))
			cards = reading.DrawnCards{}
		}
		r.Cards = cards

		switch r.Status {
		case reading.StatusInProgress:
			if current == nil {
				current = r
			}
		case reading.StatusCompleted:
			history = append(history, r)
		default:
			problems = append(problems, fmt.Errorf("%w: %s: unknown status %q", ErrMalformedRecord, r.ID, r.Status))
		}
	}
	return current, history, problems
}

// Reload 用存储中的记录替换本地状态。读取失败时本地状态保持不变
func (s *Session) Reload(ctx context.Context) (_ State, err error) {
	defer func(start time.Time) { s.observe(metrics.OpReload, start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return State{}, ErrSessionClosed
	}

	rows, err := withTimeout(ctx, s.opts.StoreTimeout, "list readings", func(ctx context.Context) ([]reading.Reading, error) {
		return s.store.ListReadings(ctx, s.ownerID)
	})
	if s.closed.Load() {
		return State{}, ErrSessionClosed
	}
	if err != nil {
		return State{}, readError("list readings", err)
	}

	current, history, problems := Reconcile(rows)
	for _, problem := range problems {
		logger.Warn("Session", zap.String("owner", s.ownerID), zap.Error(problem))
	}

	s.current = current
	s.history = history

	// 只保留当前阅读的自动完成
	for id := range s.pending {
		if current == nil || current.ID != id {
			s.cancelLocked(id)
		}
	}
	if current != nil && current.IsFull() {
		if s.opts.AutoCompleteDelay == 0 {
			if _, err := s.completeLocked(ctx, current); err != nil {
				logger.Error("Session", zap.String("owner", s.ownerID),
					zap.String("reading", current.ID), zap.Error(err))
			}
		} else {
			s.scheduleLocked(current)
		}
	}

	if s.findLocked(s.viewingID) == nil {
		s.viewingID = ""
		s.viewOpen = false
	}
	return s.stateLocked(), nil
}
