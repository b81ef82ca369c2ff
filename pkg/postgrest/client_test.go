package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresURL(t *testing.T) {
	_, err := New("", "key", time.Second)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSelect_SendsFiltersAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/readings", r.URL.Path)
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		assert.Equal(t, "key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", "key", time.Second)
	require.NoError(t, err)

	var rows []struct {
		ID string `json:"id"`
	}
	require.NoError(t, c.Select(context.Background(), "readings", map[string]string{"user_id": "eq.u1"}, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[1].ID)
}

func TestUpdateAndDelete_CountRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		switch r.Method {
		case http.MethodPatch:
			body, _ := io.ReadAll(r.Body)
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "completed", payload["status"])
			_, _ = w.Write([]byte(`[{"id":"a"}]`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", time.Second)
	require.NoError(t, err)

	n, err := c.Update(context.Background(), "readings", map[string]string{"id": "eq.a"}, map[string]string{"status": "completed"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = c.Delete(context.Background(), "readings", map[string]string{"id": "eq.missing"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCheck_MarksUnhealthyAfterRepeatedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "", time.Second)
	require.NoError(t, err)

	for i := 0; i < unhealthyThreshold; i++ {
		err = c.Insert(context.Background(), "readings", map[string]string{"id": "a"}, "")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	}
	assert.Error(t, c.HealthCheck())
}
