package order

import (
	"context"
	"encoding/json"
	"time"
)

//go:generate mockgen -source event_sink.go -destination mock_event_sink.go -package order

// EventSink is the append-only audit trail of gateway notifications.
type EventSink interface {
	CreateCallbackEvent(ctx context.Context, event NewCallbackEvent) (*CallbackEvent, error)
	GetCallbackEvents(ctx context.Context, query CallbackEventQuery) (CallbackEventPage, error)
}

type CallbackEvent struct {
	EventID string `json:"event_id"`
	NewCallbackEvent
}

type NewCallbackEvent struct {
	OrderID      string          `json:"order_id"`
	Source       CallbackSource  `json:"source"`
	ResponseCode string          `json:"response_code"`
	Verified     bool            `json:"verified"`
	Outcome      string          `json:"outcome"`
	Transitioned bool            `json:"transitioned"`
	Params       json.RawMessage `json:"params"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CallbackSource string

const (
	// CallbackSourceReturn is the customer's browser coming back from the hosted page.
	CallbackSourceReturn CallbackSource = "return"
	// CallbackSourceIPN is the gateway's server-to-server notification.
	CallbackSourceIPN CallbackSource = "ipn"
)

type CallbackEventPage struct {
	Items      []CallbackEvent `json:"items"`
	NextCursor string          `json:"next_cursor"`
	HasMore    bool            `json:"has_more"`
}

type CallbackEventQuery struct {
	OrderIDs []string         `json:"order_ids" form:"order_ids,omitempty"`
	Sources  []CallbackSource `json:"sources" form:"sources,omitempty"`

	TimeFrom *time.Time `json:"time_from,omitempty" form:"time_from,omitempty"`
	TimeTo   *time.Time `json:"time_to,omitempty" form:"time_to,omitempty"`

	Limit   int    `json:"limit" form:"limit"`
	Cursor  string `json:"cursor" form:"cursor"`
	SortAsc bool   `json:"sort_asc" form:"sort_asc"`
}

const (
	DefaultEventsLimit = 10
	MaxEventsLimit     = 100
)

// Normalize clamps the page size. Returns ErrInvalidQuery for a negative
// limit or an inverted time range.
func (q *CallbackEventQuery) Normalize() error {
	if q.Limit < 0 {
		return ErrInvalidQuery
	}
	if q.Limit == 0 {
		q.Limit = DefaultEventsLimit
	}
	if q.Limit > MaxEventsLimit {
		q.Limit = MaxEventsLimit
	}
	if q.TimeFrom != nil && q.TimeTo != nil && q.TimeFrom.After(*q.TimeTo) {
		return ErrInvalidQuery
	}
	return nil
}
