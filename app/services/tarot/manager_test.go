package tarot

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"tarot-trader/app/models/profile"
	"tarot-trader/app/models/reading"
	"tarot-trader/pkg/auth"
	"tarot-trader/pkg/draw"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryProfiles struct {
	mu       sync.Mutex
	profiles map[string]profile.Profile
}

func (m *memoryProfiles) FirstOrCreate(_ context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.profiles[p.ID]; ok {
		*p = existing
		return nil
	}
	m.profiles[p.ID] = *p
	return nil
}

func newTestManager(store *memoryStore, profiles ProfileStore) *Manager {
	engine := draw.NewEngine(rand.New(rand.NewSource(1)), 0)
	return NewManager(NewCatalog(store, 0), engine, store, profiles, Options{})
}

func TestManager_IdentifyLoadsSession(t *testing.T) {
	store := newMemoryStore(testCards(10))
	seedRow(store, "open", reading.StatusInProgress, "[]", time.Now())
	profiles := &memoryProfiles{profiles: map[string]profile.Profile{}}
	m := newTestManager(store, profiles)
	defer m.Close()

	s, err := m.Identify(context.Background(), auth.Identity{ID: owner, Email: "a@example.com"})
	require.NoError(t, err)
	require.NotNil(t, s.State().Current)
	assert.Equal(t, "open", s.State().Current.ID)
	assert.Equal(t, "a@example.com", profiles.profiles[owner].Email)

	again, err := m.Identify(context.Background(), auth.Identity{ID: owner})
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 1, store.callCount("list"))

	found, ok := m.Session(owner)
	assert.True(t, ok)
	assert.Same(t, s, found)
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	store := newMemoryStore(testCards(10))
	m := newTestManager(store, nil)
	defer m.Close()
	ctx := context.Background()

	a, err := m.Identify(ctx, auth.Identity{ID: "a"})
	require.NoError(t, err)
	b, err := m.Identify(ctx, auth.Identity{ID: "b"})
	require.NoError(t, err)

	r, err := a.StartNewReading(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, b.State().Current)
	assert.ErrorIs(t, b.DeleteReading(ctx, r.ID), ErrNotFound)
}

func TestManager_IdentifyReportsReloadFailure(t *testing.T) {
	store := newMemoryStore(testCards(10))
	store.failOn("list", errStoreDown)
	m := newTestManager(store, nil)
	defer m.Close()

	s, err := m.Identify(context.Background(), auth.Identity{ID: owner})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, s)
	_, ok := m.Session(owner)
	assert.False(t, ok)

	s, err = m.Identify(context.Background(), auth.Identity{ID: owner})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestManager_SignOutClosesSession(t *testing.T) {
	store := newMemoryStore(testCards(10))
	m := newTestManager(store, nil)
	ctx := context.Background()

	s, err := m.Identify(ctx, auth.Identity{ID: owner})
	require.NoError(t, err)
	m.SignOut(owner)

	_, ok := m.Session(owner)
	assert.False(t, ok)
	_, err = s.StartNewReading(ctx, "", "")
	assert.ErrorIs(t, err, ErrSessionClosed)

	fresh, err := m.Identify(ctx, auth.Identity{ID: owner})
	require.NoError(t, err)
	assert.NotSame(t, s, fresh)
	m.Close()
}

// gatedProfiles 阻塞 FirstOrCreate 直到 release 被关闭
type gatedProfiles struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedProfiles() *gatedProfiles {
	return &gatedProfiles{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedProfiles) FirstOrCreate(ctx context.Context, _ *profile.Profile) error {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type identifyResult struct {
	session *Session
	err     error
}

func identifyAsync(m *Manager, id string) <-chan identifyResult {
	out := make(chan identifyResult, 1)
	go func() {
		s, err := m.Identify(context.Background(), auth.Identity{ID: id})
		out <- identifyResult{s, err}
	}()
	return out
}

func TestManager_ConcurrentIdentifyWaitsForFirstLoad(t *testing.T) {
	store := newMemoryStore(testCards(10))
	seedRow(store, "open", reading.StatusInProgress, "[]", time.Now())
	profiles := newGatedProfiles()
	m := newTestManager(store, profiles)
	defer m.Close()

	first := identifyAsync(m, owner)
	<-profiles.entered
	second := identifyAsync(m, owner)

	select {
	case <-second:
		t.Fatal("second Identify returned before the first load finished")
	case <-time.After(50 * time.Millisecond):
	}
	_, ok := m.Session(owner)
	assert.False(t, ok)

	close(profiles.release)
	a, b := <-first, <-second
	require.NoError(t, a.err)
	require.NoError(t, b.err)
	assert.Same(t, a.session, b.session)
	assert.Equal(t, 1, store.callCount("list"))

	r, err := b.session.DrawCard(context.Background(), reading.PositionPast)
	require.NoError(t, err)
	assert.Equal(t, "open", r.ID)
}

func TestManager_ConcurrentIdentifySharesLoadFailure(t *testing.T) {
	store := newMemoryStore(testCards(10))
	store.failOn("list", errStoreDown)
	profiles := newGatedProfiles()
	m := newTestManager(store, profiles)
	defer m.Close()

	first := identifyAsync(m, owner)
	<-profiles.entered
	second := identifyAsync(m, owner)
	// 等第二次调用进入等待
	time.Sleep(50 * time.Millisecond)
	close(profiles.release)

	a, b := <-first, <-second
	assert.ErrorIs(t, a.err, ErrStoreUnavailable)
	assert.ErrorIs(t, b.err, ErrStoreUnavailable)
	assert.NotErrorIs(t, b.err, ErrSessionClosed)
	assert.Nil(t, b.session)

	s, err := m.Identify(context.Background(), auth.Identity{ID: owner})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
