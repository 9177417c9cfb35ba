package app

import (
	"TourPay/pkg/logger"
	"TourPay/pkg/metrics"
	"fmt"

	"github.com/gin-gonic/gin"
)

// NewGinEngine builds the engine. Only trustedProxies may set the client IP
// through X-Forwarded-For; with none, the peer address is used.
func NewGinEngine(trustedProxies []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	engine.Use(
		logger.CorrelationMiddleware(),
		metrics.GinMiddleware("/health/live", "/health/ready", "/metrics"),
		logger.GinBodyLogger(),
		gin.Recovery(),
	)
	return engine, nil
}
