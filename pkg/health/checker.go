package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds one readiness pass over every dependency.
const DefaultTimeout = 5 * time.Second

// Status of one dependency the booking flow relies on.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is what a Checker reports. Message is served on /health/ready, so it
// never carries credentials.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func up() Result {
	return Result{Status: StatusUp}
}

func down(reason string) Result {
	return Result{Status: StatusDown, Message: reason}
}

// Checker reports on the order store, the receipt broker or the gateway
// configuration.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}
