package draw

import (
	"math/rand"
	"testing"

	"tarot-trader/app/models/card"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog(n int) []card.Card {
	cards := make([]card.Card, n)
	for i := range cards {
		cards[i] = card.Card{ID: string(rune('a' + i)), Name: "Card " + string(rune('A'+i))}
	}
	return cards
}

func TestDrawOne_EmptyCatalog(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(1)), DefaultReversalProbability)

	_, err := engine.DrawOne(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestDrawOne_NeverReversedAtZero(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(7)), 0)
	cards := catalog(10)

	for i := 0; i < 500; i++ {
		result, err := engine.DrawOne(cards)
		require.NoError(t, err)
		assert.False(t, result.Reversed)
	}
}

func TestDrawOne_AlwaysReversedAtOne(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(7)), 1)
	cards := catalog(10)

	for i := 0; i < 500; i++ {
		result, err := engine.DrawOne(cards)
		require.NoError(t, err)
		assert.True(t, result.Reversed)
	}
}

func TestDrawOne_DeterministicWithSeed(t *testing.T) {
	cards := catalog(20)
	first := NewEngine(rand.New(rand.NewSource(42)), DefaultReversalProbability)
	second := NewEngine(rand.New(rand.NewSource(42)), DefaultReversalProbability)

	for i := 0; i < 50; i++ {
		a, err := first.DrawOne(cards)
		require.NoError(t, err)
		b, err := second.DrawOne(cards)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDrawOne_CoversWholeCatalog(t *testing.T) {
	engine := NewEngine(rand.New(rand.NewSource(3)), DefaultReversalProbability)
	cards := catalog(5)
	seen := make(map[string]int)

	for i := 0; i < 2000; i++ {
		result, err := engine.DrawOne(cards)
		require.NoError(t, err)
		seen[result.Card.ID]++
	}

	assert.Len(t, seen, len(cards))
	for id, n := range seen {
		assert.Greater(t, n, 250, "card %s drawn too rarely", id)
	}
}

func TestNewEngine_ClampsProbability(t *testing.T) {
	assert.Equal(t, 0.0, NewEngine(nil, -1).ReversalProbability())
	assert.Equal(t, 1.0, NewEngine(nil, 3).ReversalProbability())
	assert.Equal(t, 0.3, NewEngine(nil, 0.3).ReversalProbability())
}
