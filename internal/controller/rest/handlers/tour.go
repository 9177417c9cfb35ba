package handlers

import (
	"TourPay/internal/domain/tour"
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TourLister interface {
	ListTours(ctx context.Context) ([]tour.Tour, error)
}

type TourHandler struct {
	tours TourLister
}

func NewTourHandler(l TourLister) TourHandler {
	return TourHandler{tours: l}
}

func (h *TourHandler) List(c *gin.Context) {
	tours, err := h.tours.ListTours(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to fetch tours", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tours"})
		return
	}
	c.JSON(http.StatusOK, tours)
}
