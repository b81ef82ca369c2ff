package tarot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tarot-trader/app/models/reading"
	"tarot-trader/pkg/draw"
	"tarot-trader/pkg/interpret"
	"tarot-trader/pkg/logger"
	"tarot-trader/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultAutoCompleteDelay 第三张牌抽出后到自动完成的延迟
const DefaultAutoCompleteDelay = 500 * time.Millisecond

// Options 会话参数
type Options struct {
	// AutoCompleteDelay 为 0 时在抽出第三张牌的同一次调用内完成
	AutoCompleteDelay time.Duration
	StoreTimeout      time.Duration
	Now               func() time.Time
	Metrics           *metrics.OperationMetrics
}

// State 会话状态快照
type State struct {
	Current  *reading.Reading   `json:"current"`
	History  []*reading.Reading `json:"history"`
	ViewOpen bool               `json:"view_open"`
	Viewing  *reading.Reading   `json:"viewing,omitempty"`
}

type pendingCompletion struct {
	timer   *time.Timer
	token   uint64
	reading *reading.Reading
}

// Session 单个用户的阅读会话。所有变更在 mu 下串行执行，
// 本地状态只在存储写入成功后更新
type Session struct {
	ownerID string
	catalog *Catalog
	engine  *draw.Engine
	store   ReadingStore
	opts    Options

	closed atomic.Bool

	mu        sync.Mutex
	current   *reading.Reading
	history   []*reading.Reading
	viewOpen  bool
	viewingID string
	pending   map[string]*pendingCompletion
	nextToken uint64
}

// NewSession 创建会话，初始状态为空，调用 Reload 从存储加载
func NewSession(ownerID string, catalog *Catalog, engine *draw.Engine, store ReadingStore, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.AutoCompleteDelay < 0 {
		opts.AutoCompleteDelay = 0
	}
	return &Session{
		ownerID: ownerID,
		catalog: catalog,
		engine:  engine,
		store:   store,
		opts:    opts,
		pending: make(map[string]*pendingCompletion),
	}
}

func (s *Session) observe(op metrics.Operation, start time.Time, err error) {
	s.opts.Metrics.Observe(op, time.Since(start), err)
}

// State 返回当前状态的副本
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{
		Current:  s.current.Clone(),
		History:  make([]*reading.Reading, 0, len(s.history)),
		ViewOpen: s.viewOpen,
	}
	for _, r := range s.history {
		st.History = append(st.History, r.Clone())
	}
	if s.viewOpen {
		st.Viewing = s.findLocked(s.viewingID).Clone()
	}
	return st
}

func (s *Session) findLocked(id string) *reading.Reading {
	if id == "" {
		return nil
	}
	if s.current != nil && s.current.ID == id {
		return s.current
	}
	for _, r := range s.history {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// StartNewReading 创建新的进行中阅读并设为当前阅读。
// 之前的进行中阅读保留在存储中，不再是当前阅读
func (s *Session) StartNewReading(ctx context.Context, spreadType, title string) (_ *reading.Reading, err error) {
	defer func(start time.Time) { s.observe(metrics.OpStart, start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	if spreadType == "" {
		spreadType = reading.SpreadThreeCard
	}
	now := s.opts.Now()
	r := &reading.Reading{
		ID:         uuid.NewString(),
		UserID:     s.ownerID,
		Name:       title,
		SpreadType: spreadType,
		Status:     reading.StatusInProgress,
		CardsDrawn: reading.RawCards("[]"),
		Cards:      reading.DrawnCards{},
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	row := r.Clone()
	err = execWithTimeout(ctx, s.opts.StoreTimeout, "create reading", func(ctx context.Context) error {
		return s.store.CreateReading(ctx, row)
	})
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if err != nil {
		return nil, writeError("create reading", err)
	}

	if s.current != nil {
		logger.Info("Session", zap.String("owner", s.ownerID),
			zap.String("replaced", s.current.ID), zap.String("reading", r.ID))
	}
	s.current = r
	s.viewOpen = true
	s.viewingID = r.ID
	return r.Clone(), nil
}

// DrawCard 在 position 上抽一张牌。抽满三张后安排自动完成
func (s *Session) DrawCard(ctx context.Context, position reading.Position) (_ *reading.Reading, err error) {
	defer func(start time.Time) { s.observe(metrics.OpDraw, start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	if !position.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPosition, position)
	}
	cur := s.current
	if cur == nil || !cur.IsInProgress() {
		return nil, ErrNoActiveReading
	}
	if cur.IsFull() {
		return nil, ErrSpreadFull
	}
	if _, taken := cur.Cards.At(position); taken {
		logger.DebugString("Session", "DrawCard", "位置已占用: "+string(position))
		return nil, fmt.Errorf("%w: %s", ErrPositionOccupied, position)
	}

	available, err := s.catalog.ListAvailableCards(ctx, cur.Cards.IDSet())
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, ErrNoCardsAvailable
	}
	result, err := s.engine.DrawOne(available)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCardsAvailable, err)
	}

	next := append(cur.Cards.Clone(), reading.NewDrawnCard(result.Card, result.Reversed, position))
	raw, err := reading.EncodeCards(next)
	if err != nil {
		return nil, fmt.Errorf("%w: encode cards: %w", ErrPersistence, err)
	}

	err = execWithTimeout(ctx, s.opts.StoreTimeout, "update cards", func(ctx context.Context) error {
		return s.store.UpdateCards(ctx, s.ownerID, cur.ID, raw)
	})
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if err != nil {
		return nil, writeError("update cards", err)
	}

	cur.Cards = next
	cur.CardsDrawn = raw
	cur.UpdatedAt = s.opts.Now()
	drawn := cur.Clone()

	if cur.IsFull() {
		if s.opts.AutoCompleteDelay == 0 {
			done, err := s.completeLocked(ctx, cur)
			if err != nil {
				return drawn, err
			}
			return done, nil
		}
		s.scheduleLocked(cur)
	}
	return drawn, nil
}

// CompleteReading 立即完成当前阅读，撤销尚未触发的自动完成
func (s *Session) CompleteReading(ctx context.Context) (_ *reading.Reading, err error) {
	defer func(start time.Time) { s.observe(metrics.OpComplete, start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	cur := s.current
	if cur == nil || !cur.IsInProgress() {
		return nil, ErrNoActiveReading
	}

	done, err := s.completeLocked(ctx, cur)
	if err != nil {
		return nil, err
	}
	s.cancelLocked(cur.ID)
	return done, nil
}

// completeLocked 持久化完成状态，成功后移入历史头部并清空当前阅读。
// 没有解读且三张牌齐全时生成解读
func (s *Session) completeLocked(ctx context.Context, r *reading.Reading) (*reading.Reading, error) {
	var text *string
	if r.HasInterpretation() {
		v := *r.Interpretation
		text = &v
	} else if v, ok := interpret.ForCards(r.Cards); ok {
		text = &v
	}
	completedAt := s.opts.Now()

	err := execWithTimeout(ctx, s.opts.StoreTimeout, "complete reading", func(ctx context.Context) error {
		return s.store.CompleteReading(ctx, s.ownerID, r.ID, text, completedAt)
	})
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	if err != nil {
		return nil, writeError("complete reading", err)
	}

	r.Status = reading.StatusCompleted
	r.Interpretation = text
	r.CompletedAt = &completedAt
	r.UpdatedAt = completedAt

	if s.current != nil && s.current.ID == r.ID {
		s.current = nil
	}
	s.history = prependUnique(s.history, r)
	return r.Clone(), nil
}

// DeleteReading 删除阅读。当前阅读被删除时清空当前阅读并关闭视图
func (s *Session) DeleteReading(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe(metrics.OpDelete, start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrSessionClosed
	}

	err = execWithTimeout(ctx, s.opts.StoreTimeout, "delete reading", func(ctx context.Context) error {
		return s.store.DeleteReading(ctx, s.ownerID, id)
	})
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if err != nil {
		return writeError("delete reading", err)
	}

	s.cancelLocked(id)
	s.history = removeByID(s.history, id)
	if s.current != nil && s.current.ID == id {
		s.current = nil
		s.viewOpen = false
	}
	if s.viewingID == id {
		s.viewingID = ""
		s.viewOpen = false
	}
	return nil
}

// ContinueReading 重新打开当前阅读的视图，没有当前阅读时返回 false
func (s *Session) ContinueReading() (*reading.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() || s.current == nil {
		return nil, false
	}
	s.viewOpen = true
	s.viewingID = s.current.ID
	return s.current.Clone(), true
}

// OpenReading 打开当前阅读或历史中的某条阅读
func (s *Session) OpenReading(id string) (*reading.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}
	r := s.findLocked(id)
	if r == nil {
		return nil, ErrNotFound
	}
	s.viewOpen = true
	s.viewingID = id
	return r.Clone(), nil
}

// CloseView 关闭视图，不影响阅读本身
func (s *Session) CloseView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewOpen = false
	s.viewingID = ""
}

// Close 停止所有定时器，之后的调用都返回 ErrSessionClosed，
// 仍在进行的存储调用结果会被丢弃
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.pending {
		s.cancelLocked(id)
	}
}

// scheduleLocked 安排自动完成。每个阅读同时最多一个定时器
func (s *Session) scheduleLocked(r *reading.Reading) {
	if p, ok := s.pending[r.ID]; ok {
		p.reading = r
		return
	}
	s.nextToken++
	token := s.nextToken
	p := &pendingCompletion{token: token, reading: r}
	p.timer = time.AfterFunc(s.opts.AutoCompleteDelay, func() {
		s.autoComplete(r.ID, token)
	})
	s.pending[r.ID] = p
}

func (s *Session) cancelLocked(id string) {
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

// PendingCompletions 尚未触发的自动完成数量
func (s *Session) PendingCompletions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Session) autoComplete(id string, token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]
	if !ok || p.token != token {
		return
	}
	delete(s.pending, id)
	if s.closed.Load() || !p.reading.IsInProgress() {
		return
	}

	start := time.Now()
	_, err := s.completeLocked(context.Background(), p.reading)
	s.observe(metrics.OpComplete, start, err)
	if err != nil {
		logger.Error("Session", zap.String("owner", s.ownerID),
			zap.String("reading", id), zap.Error(err))
	}
}

func prependUnique(list []*reading.Reading, r *reading.Reading) []*reading.Reading {
	out := make([]*reading.Reading, 0, len(list)+1)
	out = append(out, r)
	for _, item := range list {
		if item.ID != r.ID {
			out = append(out, item)
		}
	}
	return out
}

func removeByID(list []*reading.Reading, id string) []*reading.Reading {
	out := list[:0:0]
	for _, item := range list {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
