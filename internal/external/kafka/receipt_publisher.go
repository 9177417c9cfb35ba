package kafka

import (
	"TourPay/internal/domain/callback"
	"TourPay/internal/messaging"
	"context"
	"fmt"
	"time"
)

var _ callback.ReceiptSender = (*ReceiptPublisher)(nil)

// ReceiptMessage is the payload of a booking.receipt envelope.
type ReceiptMessage struct {
	OrderID       string     `json:"order_id"`
	TourID        string     `json:"tour_id,omitempty"`
	TourName      string     `json:"tour_name,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Adults        int        `json:"adults"`
	Children      int        `json:"children"`
	Infants       int        `json:"infants"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	GatewayRef    string     `json:"gateway_ref,omitempty"`
	TravelDate    *time.Time `json:"travel_date,omitempty"`
	Fallback      bool       `json:"fallback"`
	PaidAt        time.Time  `json:"paid_at"`
}

func NewReceiptMessage(r callback.Receipt) ReceiptMessage {
	o := r.Order
	return ReceiptMessage{
		OrderID:       o.ID,
		TourID:        o.TourID,
		TourName:      r.TourName,
		CustomerName:  o.Customer.FullName(),
		CustomerEmail: o.Customer.Email,
		CustomerPhone: o.Customer.Phone,
		Adults:        o.Party.Adults,
		Children:      o.Party.Children,
		Infants:       o.Party.Infants,
		Amount:        o.Amount,
		Currency:      o.Currency,
		Status:        string(o.Status),
		GatewayRef:    o.GatewayRef,
		TravelDate:    o.TravelDate,
		Fallback:      r.Fallback,
		PaidAt:        o.UpdatedAt,
	}
}

// ReceiptPublisher hands receipts to a downstream mailer over a topic.
type ReceiptPublisher struct {
	publisher messaging.Publisher
}

func NewReceiptPublisher(p messaging.Publisher) *ReceiptPublisher {
	return &ReceiptPublisher{publisher: p}
}

func (p *ReceiptPublisher) Name() string {
	return "kafka"
}

func (p *ReceiptPublisher) SendReceipt(ctx context.Context, r callback.Receipt) error {
	env, err := messaging.NewEnvelope(r.Order.ID, messaging.TypeBookingReceipt, NewReceiptMessage(r))
	if err != nil {
		return fmt.Errorf("receipt envelope: %w", err)
	}
	if err := p.publisher.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish receipt for order %s: %w", r.Order.ID, err)
	}
	return nil
}
