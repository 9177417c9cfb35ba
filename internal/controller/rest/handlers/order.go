package handlers

import (
	"TourPay/internal/controller/apperror"
	"TourPay/internal/domain/gateway"
	"TourPay/internal/domain/order"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(s *order.Service) OrderHandler {
	return OrderHandler{service: s}
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID := c.Param("order_id")
	if !gateway.ValidOrderID(orderID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order_id"})
		return
	}

	res, err := h.service.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		readFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) GetEvents(c *gin.Context) {
	orderID := c.Param("order_id")
	if !gateway.ValidOrderID(orderID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order_id"})
		return
	}

	var query order.CallbackEventQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	res, err := h.service.GetCallbackEvents(c.Request.Context(), orderID, query)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		readFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func readFailed(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "Order read failed", "error", err)
	if errors.Is(err, apperror.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Order store unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}
