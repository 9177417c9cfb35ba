package rest

import (
	"TourPay/internal/controller/rest/handlers"

	"github.com/gin-gonic/gin"
)

// InternalRouter serves operator reads. Orders carry customer contact
// details, so the group sits behind OperatorAuth.
type InternalRouter struct {
	order handlers.OrderHandler
	token string
}

func NewInternalRouter(order handlers.OrderHandler, operatorToken string) *InternalRouter {
	return &InternalRouter{
		order: order,
		token: operatorToken,
	}
}

func (r *InternalRouter) SetUp(engine *gin.Engine) {
	internalGroup := engine.Group("/internal", OperatorAuth(r.token))
	{
		internalGroup.GET("/orders/:order_id", r.order.Get)
		internalGroup.GET("/orders/:order_id/events", r.order.GetEvents)
	}
}
