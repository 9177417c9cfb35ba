package callback

import (
	"context"
	"log/slog"
)

// LogSender only logs the receipt. Used in development.
type LogSender struct{}

func (LogSender) Name() string { return "log" }

func (LogSender) SendReceipt(ctx context.Context, r Receipt) error {
	slog.InfoContext(ctx, "Booking receipt",
		"order_id", r.Order.ID,
		"tour", r.TourName,
		"email", r.Order.Customer.Email,
		"amount", r.Order.Amount,
		"currency", r.Order.Currency,
		"gateway_ref", r.Order.GatewayRef,
		"fallback", r.Fallback,
	)
	return ctx.Err()
}
