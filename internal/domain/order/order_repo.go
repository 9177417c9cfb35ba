package order

import "context"

//go:generate mockgen -source order_repo.go -destination mock_order_repo.go -package order

// Repo is the order store. Implementations must make UpdateStatusIfPending
// atomic: of any number of concurrent calls for one id, at most one
// observes the pending row and reports true.
type Repo interface {
	// Create inserts a new order. Returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, o Order) error
	// FindByID returns ErrNotFound if no such order exists.
	FindByID(ctx context.Context, id string) (Order, error)
	// UpdateStatusIfPending moves a pending order to status and records
	// gatewayRef. It returns the updated order and true, or a zero Order and
	// false without error when the order is missing or no longer pending.
	// A status pending cannot move to returns ErrInvalidStatus.
	UpdateStatusIfPending(ctx context.Context, id string, status Status, gatewayRef string) (Order, bool, error)
}
