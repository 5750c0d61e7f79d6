package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/dashboard/model"
	"storefront-checkout/internal/domains/dashboard/service"
)

type stubStats struct {
	got service.StatsQuery
	hit bool
	err error
}

func (s *stubStats) Stats(_ context.Context, q service.StatsQuery) (*model.Stats, bool, error) {
	s.got = q
	if s.err != nil {
		return nil, false, s.err
	}
	return &model.Stats{Period: q.Period}, s.hit, nil
}

func newRouter(stats StatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stats", NewDashboardHandler(stats, time.UTC).GetStats)
	return r
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestGetStats(t *testing.T) {
	stub := &stubStats{hit: true}
	r := newRouter(stub)

	w := get(r, "/stats?period=week&from=2026-03-01&to=2026-03-31")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, model.PeriodWeek, stub.got.Period)
	assert.True(t, stub.got.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, stub.got.To.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))

	var body struct {
		Meta struct {
			CacheHit *bool `json:"cache_hit"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Meta.CacheHit)
	assert.True(t, *body.Meta.CacheHit)
}

func TestGetStats_DefaultPeriod(t *testing.T) {
	stub := &stubStats{}
	w := get(newRouter(stub), "/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.PeriodMonth, stub.got.Period)
	assert.True(t, stub.got.From.IsZero())
}

func TestGetStats_BadInput(t *testing.T) {
	r := newRouter(&stubStats{})

	assert.Equal(t, http.StatusBadRequest, get(r, "/stats?period=decade").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats?from=01-03-2026").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats?to=yesterday").Code)

	r = newRouter(&stubStats{err: model.ErrInvalidRange})
	assert.Equal(t, http.StatusBadRequest, get(r, "/stats?from=2026-03-01").Code)

	r = newRouter(&stubStats{err: errors.New("list orders: 502")})
	assert.Equal(t, http.StatusBadGateway, get(r, "/stats").Code)
}
