package order_eventsink

import (
	"TourPay/internal/domain/order"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryCallbackEventRepo is the in-process audit trail used with the
// memory storage mode.
type MemoryCallbackEventRepo struct {
	mu     sync.RWMutex
	events []order.CallbackEvent
}

var _ order.EventSink = (*MemoryCallbackEventRepo)(nil)

func NewMemoryCallbackEventRepo() *MemoryCallbackEventRepo {
	return &MemoryCallbackEventRepo{}
}

func (r *MemoryCallbackEventRepo) CreateCallbackEvent(ctx context.Context, event order.NewCallbackEvent) (*order.CallbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := order.CallbackEvent{EventID: uuid.New().String(), NewCallbackEvent: event}
	e.Params = slices.Clone(event.Params)

	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()

	return &e, nil
}

func (r *MemoryCallbackEventRepo) GetCallbackEvents(ctx context.Context, query order.CallbackEventQuery) (order.CallbackEventPage, error) {
	if err := ctx.Err(); err != nil {
		return order.CallbackEventPage{}, err
	}
	if query.Limit <= 0 {
		query.Limit = order.DefaultEventsLimit
	}

	var cursor *Cursor
	if query.Cursor != "" {
		c, err := DecodeCursor(query.Cursor)
		if err != nil {
			return order.CallbackEventPage{}, fmt.Errorf("%w: decode cursor: %w", order.ErrInvalidQuery, err)
		}
		cursor = &c
	}

	r.mu.RLock()
	matched := make([]order.CallbackEvent, 0, len(r.events))
	for _, e := range r.events {
		if matches(e, query, cursor) {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b order.CallbackEvent) int {
		c := compareKey(a, b)
		if !query.SortAsc {
			c = -c
		}
		return c
	})

	if len(matched) > query.Limit+1 {
		matched = matched[:query.Limit+1]
	}
	return NewPage(matched, query.Limit), nil
}

func compareKey(a, b order.CallbackEvent) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.EventID < b.EventID:
		return -1
	case a.EventID > b.EventID:
		return 1
	}
	return 0
}

func matches(e order.CallbackEvent, q order.CallbackEventQuery, cursor *Cursor) bool {
	if len(q.OrderIDs) > 0 && !slices.Contains(q.OrderIDs, e.OrderID) {
		return false
	}
	if len(q.Sources) > 0 && !slices.Contains(q.Sources, e.Source) {
		return false
	}
	if q.TimeFrom != nil && e.CreatedAt.Before(*q.TimeFrom) {
		return false
	}
	if q.TimeTo != nil && !e.CreatedAt.Before(*q.TimeTo) {
		return false
	}
	if cursor != nil {
		pos := order.CallbackEvent{EventID: cursor.EventID}
		pos.CreatedAt = cursor.CreatedAt
		c := compareKey(e, pos)
		if q.SortAsc && c <= 0 || !q.SortAsc && c >= 0 {
			return false
		}
	}
	return true
}
