package callback

import (
	"TourPay/internal/domain/order"
	"context"
)

// Receipt is what the customer (and the operator copy) is told once an
// order is durably paid.
type Receipt struct {
	Order    order.Order
	TourName string
	// Fallback is set when the order row was reconstructed from the
	// gateway notification because no pending order was found.
	Fallback bool
}

// ReceiptSender delivers the post-payment side effect. Implementations
// must respect ctx cancellation.
type ReceiptSender interface {
	Name() string
	SendReceipt(ctx context.Context, r Receipt) error
}
