package limiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimit(t *testing.T) {
	cases := map[string]float64{
		"5-S":    5,
		"60-M":   1,
		"3600-H": 1,
		"8640-D": 0.1,
	}
	for formatted, want := range cases {
		r, err := ParseLimit(formatted)
		require.NoError(t, err, formatted)
		assert.InDelta(t, want, r.PerSecond, 1e-9, formatted)
	}
}

func TestParseLimit_Invalid(t *testing.T) {
	for _, formatted := range []string{"", "abc", "10-X", "x-S"} {
		_, err := ParseLimit(formatted)
		assert.Error(t, err, formatted)
	}
}

func TestParseLimit_KeepsPeriod(t *testing.T) {
	r, err := ParseLimit("300-M")
	require.NoError(t, err)
	assert.Equal(t, int64(300), r.Limit)
	assert.Equal(t, time.Minute, r.Period)
}

func TestCheckRate_WithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/v1/cards", nil)

	_, err := CheckRate(c, "k", "10-S")
	assert.ErrorIs(t, err, ErrRedisDisabled)
}

func TestGetKeyUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/v1/readings", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "10.0.0.1", GetKeyUser(c))

	c.Set("user_id", "u-1")
	assert.Equal(t, "user:u-1", GetKeyUser(c))
}

func TestRouteToKeyString(t *testing.T) {
	assert.Equal(t, "-v1-readings-_id", routeToKeyString("/v1/readings/:id"))
}
