package rest

import (
	"TourPay/internal/controller/rest/handlers"
	"TourPay/pkg/health"
	"TourPay/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	checkout       handlers.CheckoutHandler
	callback       handlers.CallbackHandler
	tour           handlers.TourHandler
	healthRegistry *health.Registry
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	{
		api.POST("/checkout", r.checkout.Checkout)
		api.GET("/ipn", r.callback.Return)
		api.GET("/callback", r.callback.Notify)
		api.POST("/callback", r.callback.Notify)
		api.GET("/tours", r.tour.List)
	}
}

func NewRouter(
	checkout handlers.CheckoutHandler,
	callback handlers.CallbackHandler,
	tour handlers.TourHandler,
	healthRegistry *health.Registry,
) *Router {
	return &Router{
		checkout:       checkout,
		callback:       callback,
		tour:           tour,
		healthRegistry: healthRegistry,
	}
}
