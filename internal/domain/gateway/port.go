package gateway

import (
	"context"
	"errors"
	"regexp"
)

//go:generate mockgen -source port.go -destination mock_port.go -package gateway

var (
	// ErrConfiguration means the merchant credentials are missing or unusable.
	ErrConfiguration = errors.New("payment gateway configuration error")
	// ErrInvalidRequest means the payment request breaks a wire-format rule.
	ErrInvalidRequest = errors.New("invalid payment request")
)

var orderIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,40}$`)

// ValidOrderID reports whether id is usable as a merchant transaction
// reference.
func ValidOrderID(id string) bool {
	return orderIDPattern.MatchString(id)
}

// Provider is the hosted payment page gateway.
type Provider interface {
	// CheckConfig reports ErrConfiguration when the gateway cannot sign.
	CheckConfig() error
	// PaymentURL returns the signed redirect URL for the hosted payment page.
	PaymentURL(ctx context.Context, req PaymentRequest) (string, error)
	// ParseCallback verifies and decodes a gateway notification. The
	// returned Callback is always populated from the raw params; Verified is
	// false when the signature does not match or cannot be checked.
	ParseCallback(params map[string]string) (Callback, error)
}

type PaymentRequest struct {
	OrderID       string
	Amount        int64 // major currency units
	OrderInfo     string
	ReturnURL     string
	ClientIP      string
	CustomerEmail string
	CustomerPhone string
}

// Response codes the state machine distinguishes.
const (
	ResponseCodeSuccess   = "0"
	ResponseCodeCancelled = "99"
)

type Callback struct {
	OrderID       string
	ResponseCode  string
	Amount        int64 // major currency units, derived from the minor-unit wire value
	TransactionNo string
	Message       string
	OrderInfo     string
	CustomerEmail string
	CustomerPhone string
	SecureHash    string
	Verified      bool
}

// GatewayRef is the reference stored on the order: the gateway's own
// transaction number, or the merchant reference echoed back.
func (c Callback) GatewayRef() string {
	if c.TransactionNo != "" {
		return c.TransactionNo
	}
	return c.OrderID
}
