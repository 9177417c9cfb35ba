package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestCount(t *testing.T, route string) float64 {
	t.Helper()

	families, err := Registry.Gather()
	require.NoError(t, err)

	var total float64
	for _, family := range families {
		if family.GetName() != Namespace+"_http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "handler" && label.GetValue() == route {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(GinMiddleware("/middleware-test/health"))
	engine.GET("/middleware-test/tours/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/middleware-test/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve := func(path string) int {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	t.Run("records the route template, not the raw path", func(t *testing.T) {
		before := requestCount(t, "/middleware-test/tours/:id")

		assert.Equal(t, http.StatusOK, serve("/middleware-test/tours/cu-chi"))
		assert.Equal(t, http.StatusOK, serve("/middleware-test/tours/mekong"))

		assert.Equal(t, before+2, requestCount(t, "/middleware-test/tours/:id"))
		assert.Zero(t, requestCount(t, "/middleware-test/tours/cu-chi"))
	})

	t.Run("skipped routes are served but not recorded", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve("/middleware-test/health"))

		assert.Zero(t, requestCount(t, "/middleware-test/health"))
	})

	t.Run("unknown paths share one label", func(t *testing.T) {
		before := requestCount(t, UnmatchedRoute)

		assert.Equal(t, http.StatusNotFound, serve("/wp-login.php"))

		assert.Equal(t, before+1, requestCount(t, UnmatchedRoute))
		assert.Zero(t, requestCount(t, "/wp-login.php"))
	})
}
