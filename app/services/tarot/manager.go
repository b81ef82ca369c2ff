package tarot

import (
	"context"
	"sync"

	"tarot-trader/app/models/profile"
	"tarot-trader/pkg/auth"
	"tarot-trader/pkg/draw"
	"tarot-trader/pkg/logger"

	"go.uber.org/zap"
)

// Manager 按用户维护会话
type Manager struct {
	catalog  *Catalog
	engine   *draw.Engine
	readings ReadingStore
	profiles ProfileStore
	opts     Options

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry 会话在首次加载完成后关闭 ready，加载失败时 err 不为空
type sessionEntry struct {
	session *Session
	ready   chan struct{}
	err     error
}

func (e *sessionEntry) loaded() bool {
	select {
	case <-e.ready:
		return e.err == nil
	default:
		return false
	}
}

// NewManager 创建会话管理器，profiles 可以为 nil
func NewManager(catalog *Catalog, engine *draw.Engine, readings ReadingStore, profiles ProfileStore, opts Options) *Manager {
	return &Manager{
		catalog:  catalog,
		engine:   engine,
		readings: readings,
		profiles: profiles,
		opts:     opts,
		sessions: make(map[string]*sessionEntry),
	}
}

// Catalog 返回共享的卡牌目录
func (m *Manager) Catalog() *Catalog {
	return m.catalog
}

// Identify 返回用户的会话，首次出现时确保资料存在并从存储加载。
// 同一用户的并发调用等待首次加载结束；加载失败时丢弃会话，下次调用重新加载
func (m *Manager) Identify(ctx context.Context, id auth.Identity) (*Session, error) {
	m.mu.Lock()
	if e, ok := m.sessions[id.ID]; ok {
		m.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			return nil, e.err
		}
		return e.session, nil
	}
	e := &sessionEntry{
		session: NewSession(id.ID, m.catalog, m.engine, m.readings, m.opts),
		ready:   make(chan struct{}),
	}
	m.sessions[id.ID] = e
	m.mu.Unlock()

	s := e.session
	if m.profiles != nil {
		p := &profile.Profile{ID: id.ID, Email: id.Email, Name: id.Name}
		err := execWithTimeout(ctx, s.opts.StoreTimeout, "ensure profile", func(ctx context.Context) error {
			return m.profiles.FirstOrCreate(ctx, p)
		})
		if err != nil {
			logger.Warn("Manager", zap.String("owner", id.ID), zap.Error(err))
		}
	}

	if _, err := s.Reload(ctx); err != nil {
		e.err = err
		m.mu.Lock()
		if m.sessions[id.ID] == e {
			delete(m.sessions, id.ID)
		}
		m.mu.Unlock()
		s.Close()
		close(e.ready)
		return nil, err
	}
	close(e.ready)
	return s, nil
}

// Session 返回已加载完成的会话
func (m *Manager) Session(ownerID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[ownerID]
	if !ok || !e.loaded() {
		return nil, false
	}
	return e.session, true
}

// SignOut 关闭并移除用户的会话
func (m *Manager) SignOut(ownerID string) {
	m.mu.Lock()
	e, ok := m.sessions[ownerID]
	delete(m.sessions, ownerID)
	m.mu.Unlock()

	if ok {
		e.session.Close()
	}
}

// Close 关闭所有会话
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*sessionEntry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
}
