package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRegistry_CheckAll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{
			name: "no checkers",
			want: StatusUp,
		},
		{
			name: "all up",
			checkers: []Checker{
				NewPostgresChecker(pingerFunc(func(context.Context) error { return nil })),
				NewConfigChecker("onepay", func() error { return nil }),
			},
			want: StatusUp,
		},
		{
			name: "one down",
			checkers: []Checker{
				NewPostgresChecker(pingerFunc(func(context.Context) error { return errors.New("refused") })),
				NewConfigChecker("onepay", func() error { return nil }),
			},
			want: StatusDown,
		},
		{
			name:     "kafka without brokers",
			checkers: []Checker{NewKafkaChecker(nil)},
			want:     StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			res := NewRegistry(tt.checkers...).CheckAll(context.Background())

			// then
			assert.Equal(t, tt.want, res.Status)
			assert.Len(t, res.Checks, len(tt.checkers))
		})
	}
}

func TestReadinessHandler_Returns503WhenDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	registry := NewRegistry(NewConfigChecker("onepay", func() error { return errors.New("hash secret missing") }))
	engine := gin.New()
	engine.GET("/ready", ReadinessHandler(registry, DefaultTimeout))

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/ready", nil)
	require.NoError(t, err)

	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "hash secret missing")
}

func TestLivenessHandler_NamesService(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/live", LivenessHandler())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"up","service":"tourpay"}`, w.Body.String())
}

func TestReadinessHandler_NotCached(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/ready", ReadinessHandler(NewRegistry(NewConfigChecker("onepay", func() error { return nil })), DefaultTimeout))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"up","checks":[{"name":"onepay","status":"up"}]}`, w.Body.String())
}
