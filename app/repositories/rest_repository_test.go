package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tarot-trader/app/models/reading"
	"tarot-trader/pkg/postgrest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRestClient(t *testing.T, handler http.HandlerFunc) *postgrest.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := postgrest.New(srv.URL, "key", time.Second)
	require.NoError(t, err)
	return client
}

func TestRestReadingRepository_ListReadings(t *testing.T) {
	client := newRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/readings", r.URL.Path)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`[
			{"id":"r2","user_id":"u1","status":"in_progress","cards_drawn":[{"id":"c1","name":"The Sun","position":"past"}],"created_at":"2024-01-02T00:00:00Z"},
			{"id":"r1","user_id":"u1","status":"completed","cards_drawn":"[]","created_at":"2024-01-01T00:00:00Z"}
		]`))
	})

	rows, err := NewRestReadingRepository(client).ListReadings(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	cards, err := reading.ParseCards(rows[0].CardsDrawn)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "The Sun", cards[0].Name)

	cards, err = reading.ParseCards(rows[1].CardsDrawn)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestRestReadingRepository_UpdateCardsNotFound(t *testing.T) {
	client := newRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.r1", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.JSONEq(t, `[]`, string(payload["cards_drawn"]))

		_, _ = w.Write([]byte(`[]`))
	})

	err := NewRestReadingRepository(client).UpdateCards(context.Background(), "u1", "r1", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestReadingRepository_CreateAndDelete(t *testing.T) {
	var created map[string]interface{}
	client := newRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &created))
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			_, _ = w.Write([]byte(`[{"id":"r1"}]`))
		}
	})
	repo := NewRestReadingRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.CreateReading(ctx, newReading("r1", "u1", time.Now())))
	assert.Equal(t, "r1", created["id"])
	assert.Equal(t, "in_progress", created["status"])
	assert.Equal(t, []interface{}{}, created["cards_drawn"])

	require.NoError(t, repo.DeleteReading(ctx, "u1", "r1"))
}

func TestRestCardRepository_ListCards(t *testing.T) {
	client := newRestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tarot_cards", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"1","name":"Ace of Cups","suit":"Cups","meaning":"m","card_type":"minor"}]`))
	})

	cards, err := NewRestCardRepository(client).ListCards(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Ace of Cups", cards[0].Name)
}
