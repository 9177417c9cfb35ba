package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Service is reported by the liveness endpoint.
const Service = "tourpay"

// LivenessHandler answers 200 while the process can serve HTTP at all.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": StatusUp, "service": Service})
	}
}

// ReadinessHandler runs every registered check within timeout. Any down
// dependency turns the answer into 503 so the load balancer stops routing
// checkouts and callbacks here.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)

		c.Header("Cache-Control", "no-store")
		if response.Status == StatusDown {
			for _, check := range response.Checks {
				if check.Status == StatusDown {
					slog.Warn("Readiness check failed", "component", check.Name, "reason", check.Message)
				}
			}
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		c.JSON(http.StatusOK, response)
	}
}
