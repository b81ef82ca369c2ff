package interpret

import (
	"strings"
	"testing"

	"tarot-trader/app/models/reading"

	"github.com/stretchr/testify/assert"
)

func sample() (reading.DrawnCard, reading.DrawnCard, reading.DrawnCard) {
	past := reading.DrawnCard{ID: "1", Name: "The Fool", Meaning: "New beginnings, innocence, spontaneity", Position: reading.PositionPast}
	present := reading.DrawnCard{ID: "2", Name: "Three of Swords", Meaning: "Heartbreak, emotional pain, sorrow", Reversed: true, Position: reading.PositionPresent}
	future := reading.DrawnCard{ID: "3", Name: "The Star", Meaning: "Hope, faith, purpose, renewal, spirituality", Position: reading.PositionFuture}
	return past, present, future
}

func TestSynthesize_MentionsEveryCard(t *testing.T) {
	past, present, future := sample()

	text := Synthesize(past, present, future)

	assert.Contains(t, text, "**Past (The Fool)**: New beginnings, innocence, spontaneity This foundation has shaped your current path.")
	assert.Contains(t, text, "**Present (Three of Swords - Reversed)**: Heartbreak, emotional pain, sorrow Currently, you may be experiencing blockages")
	assert.Contains(t, text, "**Future (The Star)**:")
	assert.Contains(t, text, "a journey from the fool through three of swords toward the star.")
}

func TestSynthesize_Deterministic(t *testing.T) {
	past, present, future := sample()

	assert.Equal(t, Synthesize(past, present, future), Synthesize(past, present, future))
}

func TestSynthesize_ReversedClauseOnlyWhenReversed(t *testing.T) {
	past, present, future := sample()
	present.Reversed = false

	text := Synthesize(past, present, future)

	assert.NotContains(t, text, "Reversed")
	assert.Contains(t, text, "This is where you find yourself now")
}

func TestForCards_UsesPositionsNotDrawOrder(t *testing.T) {
	past, present, future := sample()

	text, ok := ForCards(reading.DrawnCards{future, past, present})

	assert.True(t, ok)
	assert.Equal(t, Synthesize(past, present, future), text)
}

func TestForCards_RequiresAllPositions(t *testing.T) {
	past, present, _ := sample()

	_, ok := ForCards(reading.DrawnCards{past, present})
	assert.False(t, ok)

	dup := present
	dup.Position = reading.PositionPast
	_, ok = ForCards(reading.DrawnCards{past, present, dup})
	assert.False(t, ok)
}

func TestSynthesize_NonEmpty(t *testing.T) {
	text := Synthesize(reading.DrawnCard{}, reading.DrawnCard{}, reading.DrawnCard{})
	assert.NotEmpty(t, strings.TrimSpace(text))
}
