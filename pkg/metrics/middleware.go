package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UnmatchedRoute labels requests no route matched, so scanners hitting random
// paths cannot grow the label set.
const UnmatchedRoute = "unmatched"

// GinMiddleware records latency and count per route template. Routes in skip
// (health polling, scrapes) are served but not recorded.
func GinMiddleware(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, route := range skip {
		skipped[route] = struct{}{}
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if _, ok := skipped[route]; ok {
			c.Next()
			return
		}
		start := time.Now()

		c.Next()

		if route == "" {
			route = UnmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(route, c.Request.Method, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, status).Inc()
	}
}
