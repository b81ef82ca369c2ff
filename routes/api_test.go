package routes

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	v1 "tarot-trader/app/http/controllers/api/v1"
	"tarot-trader/app/repositories"
	service "tarot-trader/app/services/tarot"
	"tarot-trader/pkg/auth"
	"tarot-trader/pkg/config"
	"tarot-trader/pkg/database"
	"tarot-trader/pkg/database/migrations"
	"tarot-trader/pkg/database/seeders"
	"tarot-trader/pkg/draw"
	"tarot-trader/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type apiReading struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	Interpretation *string `json:"interpretation"`
	Cards          []struct {
		ID       string `json:"id"`
		Position string `json:"position"`
	} `json:"cards"`
}

type testServer struct {
	router *gin.Engine
	jwt    *auth.JWT
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Set("app.env", "testing")

	db, sqlDB, err := database.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db, migrations.RegisterTables()))
	_, err = seeders.SeedCards(context.Background(), db)
	require.NoError(t, err)

	m := metrics.NewOperationMetrics()
	manager := service.NewManager(
		service.NewCatalog(repositories.NewCardRepository(db), time.Second),
		draw.NewEngine(rand.New(rand.NewSource(3)), draw.DefaultReversalProbability),
		repositories.NewReadingRepository(db),
		repositories.NewProfileRepository(db),
		service.Options{StoreTimeout: time.Second, AutoCompleteDelay: time.Minute},
	)
	t.Cleanup(manager.Close)

	jwt := auth.NewJWT("test-secret", time.Hour)
	router := gin.New()
	RegisterAPIRoutes(router, Dependencies{
		Manager: manager,
		JWT:     jwt,
		Metrics: m,
		HealthChecks: map[string]v1.HealthCheck{
			"database": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		},
	})
	return &testServer{router: router, jwt: jwt}
}

func (ts *testServer) do(t *testing.T, user, method, path, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		token, err := ts.jwt.Issue(auth.Identity{ID: user, Email: user + "@example.com"})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestReadingFlow(t *testing.T) {
	ts := newTestServer(t)

	code, env := ts.do(t, "u1", http.MethodPost, "/v1/readings", `{"title":"Morning"}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	started := decode[apiReading](t, env.Data)
	assert.Equal(t, "in_progress", started.Status)

	for _, pos := range []string{"past", "present"} {
		code, env = ts.do(t, "u1", http.MethodPost, "/v1/readings/current/draws", `{"position":"`+pos+`"}`)
		require.Equal(t, http.StatusOK, code, env.Message)
	}

	code, env = ts.do(t, "u1", http.MethodPost, "/v1/readings/current/draws", `{"position":"past"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = ts.do(t, "u1", http.MethodPost, "/v1/readings/current/draws", `{"position":"north"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = ts.do(t, "u1", http.MethodPost, "/v1/readings/current/draws", `{"position":"future"}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	done := decode[apiReading](t, env.Data)
	assert.Len(t, done.Cards, 3)

	code, env = ts.do(t, "u1", http.MethodPost, "/v1/readings/current/complete", "")
	require.Equal(t, http.StatusOK, code, env.Message)
	done = decode[apiReading](t, env.Data)
	assert.Equal(t, "completed", done.Status)
	require.NotNil(t, done.Interpretation)

	code, _ = ts.do(t, "u1", http.MethodGet, "/v1/readings/current", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = ts.do(t, "u1", http.MethodPost, "/v1/readings/reload", "")
	require.Equal(t, http.StatusOK, code)
	state := decode[struct {
		Current *apiReading  `json:"current"`
		History []apiReading `json:"history"`
	}](t, env.Data)
	assert.Nil(t, state.Current)
	require.Len(t, state.History, 1)
	assert.Equal(t, started.ID, state.History[0].ID)

	code, _ = ts.do(t, "u1", http.MethodGet, "/v1/readings/"+started.ID, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, "u2", http.MethodDelete, "/v1/readings/"+started.ID, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, "u1", http.MethodDelete, "/v1/readings/"+started.ID, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = ts.do(t, "u1", http.MethodGet, "/v1/readings/"+started.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestContinueAndSignOut(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, "u1", http.MethodPost, "/v1/readings/current/continue", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ts.do(t, "u1", http.MethodPost, "/v1/readings", "")
	require.Equal(t, http.StatusCreated, code)

	code, _ = ts.do(t, "u1", http.MethodPost, "/v1/readings/view/close", "")
	require.Equal(t, http.StatusOK, code)

	code, env := ts.do(t, "u1", http.MethodPost, "/v1/readings/current/continue", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "in_progress", decode[apiReading](t, env.Data).Status)

	code, _ = ts.do(t, "u1", http.MethodDelete, "/v1/session", "")
	require.Equal(t, http.StatusOK, code)

	// 重新登录后从存储恢复进行中的阅读
	code, env = ts.do(t, "u1", http.MethodGet, "/v1/readings/current", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "in_progress", decode[apiReading](t, env.Data).Status)
}

func TestRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	code, _ := ts.do(t, "", http.MethodGet, "/v1/readings", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = ts.do(t, "u1", http.MethodPost, "/v1/readings/current/draws", `{"position":"past"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCardsAndHealth(t *testing.T) {
	ts := newTestServer(t)

	code, env := ts.do(t, "", http.MethodGet, "/v1/cards", "")
	require.Equal(t, http.StatusOK, code)
	cards := decode[struct {
		Total int `json:"total"`
	}](t, env.Data)
	assert.Equal(t, len(seeders.StarterCards), cards.Total)

	code, env = ts.do(t, "", http.MethodGet, "/v1/health", "")
	require.Equal(t, http.StatusOK, code)
	health := decode[struct {
		Dependencies map[string]string `json:"dependencies"`
	}](t, env.Data)
	assert.Equal(t, "ok", health.Dependencies["database"])
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	code, env := ts.do(t, "u1", http.MethodPost, "/v1/readings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", env.Status)
}
