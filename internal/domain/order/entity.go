package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

type Order struct {
	ID           string          `json:"order_id"`
	TourID       string          `json:"tour_id"`
	Customer     Customer        `json:"customer"`
	Party        Party           `json:"party"`
	Amount       int64           `json:"amount"`
	Currency     string          `json:"currency"`
	Status       Status          `json:"status"`
	GatewayRef   string          `json:"gateway_ref,omitempty"`
	OrderInfo    string          `json:"order_info,omitempty"`
	GuestDetails json.RawMessage `json:"guest_details,omitempty"`
	TravelDate   *time.Time      `json:"travel_date,omitempty"`
	ReturnDate   *time.Time      `json:"return_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

type Party struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p Party) Size() int {
	return p.Adults + p.Children + p.Infants
}

type Status string

const (
	StatusPending      Status = "pending"
	StatusPaid         Status = "paid"
	StatusFailed       Status = "failed"
	StatusCancelled    Status = "cancelled"
	StatusPaidFallback Status = "paid_fallback"
)

var AvailableStatuses = []Status{StatusPending, StatusPaid, StatusFailed, StatusCancelled, StatusPaidFallback}

// CanBeUpdatedTo encodes the payment state machine: only a pending order
// moves, and it moves exactly once.
func (s Status) CanBeUpdatedTo(newStatus Status) bool {
	switch s {
	case StatusPending:
		return slices.Contains([]Status{StatusPaid, StatusFailed, StatusCancelled}, newStatus)
	default:
		return false
	}
}

// CheckTransition returns ErrInvalidStatus unless s may move to newStatus.
func (s Status) CheckTransition(newStatus Status) error {
	if !s.CanBeUpdatedTo(newStatus) {
		return fmt.Errorf("%w: %s -> %q", ErrInvalidStatus, s, newStatus)
	}
	return nil
}

func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// IsPaid is true for both the regular and the reconstructed paid state.
func (s Status) IsPaid() bool {
	return s == StatusPaid || s == StatusPaidFallback
}

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", errors.New("invalid order status")
}
