package order_repo

import (
	"TourPay/internal/domain/order"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryOrderRepo keeps orders in process memory. Used for local runs and
// tests; contents are lost on restart.
type MemoryOrderRepo struct {
	mu     sync.Mutex
	orders map[string]order.Order
	now    func() time.Time
}

func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{orders: make(map[string]order.Order), now: time.Now}
}

func (r *MemoryOrderRepo) Create(ctx context.Context, o order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; ok {
		return order.ErrAlreadyExists
	}
	r.orders[o.ID] = clone(o)
	return nil
}

func (r *MemoryOrderRepo) FindByID(ctx context.Context, id string) (order.Order, error) {
	if err := ctx.Err(); err != nil {
		return order.Order{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return clone(o), nil
}

func (r *MemoryOrderRepo) UpdateStatusIfPending(ctx context.Context, id string, status order.Status, gatewayRef string) (order.Order, bool, error) {
	if err := order.StatusPending.CheckTransition(status); err != nil {
		return order.Order{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return order.Order{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.Status != order.StatusPending {
		return order.Order{}, false, nil
	}
	o.Status = status
	o.GatewayRef = gatewayRef
	o.UpdatedAt = r.now().UTC()
	r.orders[id] = o
	return clone(o), true, nil
}

func clone(o order.Order) order.Order {
	o.GuestDetails = slices.Clone(o.GuestDetails)
	if o.TravelDate != nil {
		d := *o.TravelDate
		o.TravelDate = &d
	}
	if o.ReturnDate != nil {
		d := *o.ReturnDate
		o.ReturnDate = &d
	}
	return o
}
