package handlers

import (
	"TourPay/internal/controller/apperror"
	"TourPay/internal/domain/checkout"
	"TourPay/internal/domain/order"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Initiator interface {
	Initiate(ctx context.Context, req checkout.Request) (checkout.Result, error)
}

type CheckoutHandler struct {
	initiator Initiator
}

func NewCheckoutHandler(i Initiator) CheckoutHandler {
	return CheckoutHandler{initiator: i}
}

type customerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CheckoutRequest is the booking form payload. Any amount the client sends
// is ignored.
type CheckoutRequest struct {
	TourID       string          `json:"tourId"`
	Adults       int             `json:"adults"`
	Children     int             `json:"children"`
	Infants      int             `json:"infants"`
	CustomerInfo customerInfo    `json:"customerInfo"`
	Date         string          `json:"date"`
	ReturnDate   string          `json:"returnDate"`
	Guests       json.RawMessage `json:"guests"`
}

func (r CheckoutRequest) toDomain(clientIP string) checkout.Request {
	return checkout.Request{
		TourID:   r.TourID,
		Adults:   r.Adults,
		Children: r.Children,
		Infants:  r.Infants,
		Customer: order.Customer{
			FirstName: r.CustomerInfo.FirstName,
			LastName:  r.CustomerInfo.LastName,
			Email:     r.CustomerInfo.Email,
			Phone:     r.CustomerInfo.Phone,
		},
		TravelDate: r.Date,
		ReturnDate: r.ReturnDate,
		Guests:     r.Guests,
		ClientIP:   clientIP,
	}
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var body CheckoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	res, err := h.initiator.Initiate(c.Request.Context(), body.toDomain(ClientIP(c)))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidTour):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Tour ID"})
		case errors.Is(err, checkout.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Amount"})
		case errors.Is(err, apperror.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperror.ErrConfiguration):
			slog.ErrorContext(c.Request.Context(), "Checkout rejected: gateway not configured", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment Gateway Configuration Error"})
		default:
			slog.ErrorContext(c.Request.Context(), "Checkout failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

// ClientIP is the address gin resolves against the engine's trusted
// proxies, falling back to loopback.
func ClientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "127.0.0.1"
}
