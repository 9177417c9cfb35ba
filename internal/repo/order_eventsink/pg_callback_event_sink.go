package order_eventsink

import (
	"TourPay/internal/domain/order"
	"TourPay/pkg/postgres"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var eventColumns = []string{"id", "order_id", "source", "response_code", "verified", "outcome", "transitioned", "params", "created_at"}

// PgCallbackEventRepo appends gateway notifications to callback_events.
type PgCallbackEventRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ order.EventSink = (*PgCallbackEventRepo)(nil)

func NewPgCallbackEventRepo(db postgres.Executor, builder squirrel.StatementBuilderType) *PgCallbackEventRepo {
	return &PgCallbackEventRepo{
		db:      db,
		builder: builder,
	}
}

func (r *PgCallbackEventRepo) CreateCallbackEvent(ctx context.Context, event order.NewCallbackEvent) (*order.CallbackEvent, error) {
	id := uuid.New().String()

	params := []byte(event.Params)
	if len(params) == 0 {
		params = []byte("{}")
	}

	query, args, err := r.builder.Insert("callback_events").
		Columns(eventColumns...).
		Values(id, event.OrderID, string(event.Source), event.ResponseCode, event.Verified,
			event.Outcome, event.Transitioned, params, event.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert query: %w", err)
	}

	if _, err = r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create callback event: %w", err)
	}

	return &order.CallbackEvent{
		EventID:          id,
		NewCallbackEvent: event,
	}, nil
}

func (r *PgCallbackEventRepo) GetCallbackEvents(ctx context.Context, query order.CallbackEventQuery) (order.CallbackEventPage, error) {
	if query.Limit <= 0 {
		query.Limit = order.DefaultEventsLimit
	}
	if query.Limit > order.MaxEventsLimit {
		query.Limit = order.MaxEventsLimit
	}

	sqlQuery, args, err := r.buildPageQuery(query)
	if err != nil {
		return order.CallbackEventPage{}, fmt.Errorf("build callback event query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return order.CallbackEventPage{}, fmt.Errorf("query callback events: %w", err)
	}
	defer rows.Close()

	items, err := parseEventRows(rows)
	if err != nil {
		return order.CallbackEventPage{}, fmt.Errorf("parse callback events: %w", err)
	}

	return NewPage(items, query.Limit), nil
}

// NewPage trims the look-ahead item fetched to detect a following page and
// builds the cursor from the last returned item.
func NewPage(items []order.CallbackEvent, limit int) order.CallbackEventPage {
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	if items == nil {
		items = []order.CallbackEvent{}
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = EncodeCursor(Cursor{EventID: last.EventID, CreatedAt: last.CreatedAt})
	}

	return order.CallbackEventPage{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
}

// Cursor is the keyset position (created_at, id) of the last item served.
type Cursor struct {
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeCursor(s string) (Cursor, error) {
	var c Cursor
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return c, err
	}
	return c, json.Unmarshal(b, &c)
}

// SELECT ... FROM callback_events
// WHERE order_id IN @OrderIDs AND source IN @Sources
//
//	AND created_at >= @TimeFrom AND created_at < @TimeTo
//	AND (created_at, id) < (@cursor.CreatedAt, @cursor.EventID)
//
// ORDER BY created_at DESC/ASC, id DESC/ASC
// LIMIT @Limit+1
func (r *PgCallbackEventRepo) buildPageQuery(q order.CallbackEventQuery) (string, []interface{}, error) {
	b := r.builder.Select(eventColumns...).
		From("callback_events")

	if len(q.OrderIDs) > 0 {
		b = b.Where(squirrel.Eq{"order_id": q.OrderIDs})
	}

	if len(q.Sources) > 0 {
		sources := make([]string, len(q.Sources))
		for i, s := range q.Sources {
			sources[i] = string(s)
		}
		b = b.Where(squirrel.Eq{"source": sources})
	}

	if q.TimeFrom != nil {
		b = b.Where("created_at >= ?", q.TimeFrom.UTC())
	}

	if q.TimeTo != nil {
		b = b.Where("created_at < ?", q.TimeTo.UTC())
	}

	if q.Cursor != "" {
		cursor, err := DecodeCursor(q.Cursor)
		if err != nil {
			return "", nil, fmt.Errorf("%w: decode cursor: %w", order.ErrInvalidQuery, err)
		}

		if q.SortAsc {
			b = b.Where("(created_at, id) > (?, ?)", cursor.CreatedAt.UTC(), cursor.EventID)
		} else {
			b = b.Where("(created_at, id) < (?, ?)", cursor.CreatedAt.UTC(), cursor.EventID)
		}
	}

	if q.SortAsc {
		b = b.OrderBy("created_at ASC", "id ASC")
	} else {
		b = b.OrderBy("created_at DESC", "id DESC")
	}

	b = b.Limit(uint64(q.Limit + 1))

	return b.ToSql()
}

func parseEventRows(rows pgx.Rows) ([]order.CallbackEvent, error) {
	var events []order.CallbackEvent
	for rows.Next() {
		var e order.CallbackEvent
		var rawSource string
		var params []byte
		err := rows.Scan(&e.EventID, &e.OrderID, &rawSource, &e.ResponseCode, &e.Verified,
			&e.Outcome, &e.Transitioned, &params, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan callback event row: %w", err)
		}

		e.Source = order.CallbackSource(rawSource)
		e.Params = params
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate callback event rows: %w", err)
	}

	return events, nil
}
