package opensearch

import (
	"TourPay/internal/domain/order"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go"
)

var _ order.EventSink = (*CallbackSink)(nil)

// CallbackSink writes the callback audit trail to an OpenSearch index.
type CallbackSink struct {
	client *opensearch.Client
	index  string
}

func NewCallbackSink(ctx context.Context, urls []string, index string) (*CallbackSink, error) {
	if len(urls) == 0 {
		return nil, errors.New("no OpenSearch addresses configured")
	}
	if index == "" {
		return nil, errors.New("no OpenSearch index configured")
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses: urls,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 10,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch client: %w", err)
	}

	sink := &CallbackSink{client: client, index: index}
	if err := sink.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return sink, nil
}

func (s *CallbackSink) ensureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("indices.exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"event_id":      map[string]any{"type": "keyword"},
				"order_id":      map[string]any{"type": "keyword"},
				"source":        map[string]any{"type": "keyword"},
				"response_code": map[string]any{"type": "keyword"},
				"verified":      map[string]any{"type": "boolean"},
				"outcome":       map[string]any{"type": "keyword"},
				"transitioned":  map[string]any{"type": "boolean"},
				"created_at":    map[string]any{"type": "date"},
				"params":        map[string]any{"type": "object", "enabled": false},
			},
		},
		"settings": map[string]any{
			"number_of_replicas": 0,
		},
	}
	buf, _ := json.Marshal(body)
	cr, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithBody(bytes.NewReader(buf)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("indices.create: %w", err)
	}
	defer cr.Body.Close()
	if cr.IsError() {
		return fmt.Errorf("indices.create error: %s", cr.String())
	}
	return nil
}

type callbackDoc struct {
	EventID      string               `json:"event_id"`
	OrderID      string               `json:"order_id"`
	Source       order.CallbackSource `json:"source"`
	ResponseCode string               `json:"response_code"`
	Verified     bool                 `json:"verified"`
	Outcome      string               `json:"outcome"`
	Transitioned bool                 `json:"transitioned"`
	Params       json.RawMessage      `json:"params,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func (d callbackDoc) toDomain() order.CallbackEvent {
	return order.CallbackEvent{
		EventID: d.EventID,
		NewCallbackEvent: order.NewCallbackEvent{
			OrderID:      d.OrderID,
			Source:       d.Source,
			ResponseCode: d.ResponseCode,
			Verified:     d.Verified,
			Outcome:      d.Outcome,
			Transitioned: d.Transitioned,
			Params:       d.Params,
			CreatedAt:    d.CreatedAt,
		},
	}
}

func (s *CallbackSink) CreateCallbackEvent(ctx context.Context, ev order.NewCallbackEvent) (*order.CallbackEvent, error) {
	eventID := uuid.NewString()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	doc := callbackDoc{
		EventID:      eventID,
		OrderID:      ev.OrderID,
		Source:       ev.Source,
		ResponseCode: ev.ResponseCode,
		Verified:     ev.Verified,
		Outcome:      ev.Outcome,
		Transitioned: ev.Transitioned,
		Params:       ev.Params,
		CreatedAt:    ev.CreatedAt.UTC(),
	}
	payload, _ := json.Marshal(doc)

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(payload),
		s.client.Index.WithDocumentID(eventID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("index error: %s", res.String())
	}

	return &order.CallbackEvent{EventID: eventID, NewCallbackEvent: ev}, nil
}

// searchCursor is the search_after position: created_at in epoch millis
// and event_id.
type searchCursor struct {
	CreatedAt int64  `json:"created_at"`
	EventID   string `json:"event_id"`
}

func encodeCursor(c searchCursor) string {
	b, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(b)
}

func decodeCursor(s string) (searchCursor, error) {
	var c searchCursor
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return c, err
	}
	return c, json.Unmarshal(b, &c)
}

func (s *CallbackSink) GetCallbackEvents(ctx context.Context, query order.CallbackEventQuery) (order.CallbackEventPage, error) {
	if query.Limit <= 0 {
		query.Limit = order.DefaultEventsLimit
	}

	body, err := buildSearchBody(query)
	if err != nil {
		return order.CallbackEventPage{}, err
	}
	raw, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(raw)),
	)
	if err != nil {
		return order.CallbackEventPage{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return order.CallbackEventPage{}, fmt.Errorf("search error: %s", res.String())
	}

	var sr struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return order.CallbackEventPage{}, fmt.Errorf("decode search: %w", err)
	}

	items := make([]order.CallbackEvent, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		var doc callbackDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return order.CallbackEventPage{}, fmt.Errorf("decode hit: %w", err)
		}
		if doc.EventID == "" {
			doc.EventID = h.ID
		}
		items = append(items, doc.toDomain())
	}

	hasMore := len(items) > query.Limit
	if hasMore {
		items = items[:query.Limit]
	}
	var next string
	if hasMore {
		last := items[len(items)-1]
		next = encodeCursor(searchCursor{CreatedAt: last.CreatedAt.UnixMilli(), EventID: last.EventID})
	}

	return order.CallbackEventPage{Items: items, NextCursor: next, HasMore: hasMore}, nil
}

func buildSearchBody(q order.CallbackEventQuery) (map[string]any, error) {
	filters := make([]map[string]any, 0, 3)
	if len(q.OrderIDs) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"order_id": q.OrderIDs}})
	}
	if len(q.Sources) > 0 {
		vals := make([]string, 0, len(q.Sources))
		for _, src := range q.Sources {
			vals = append(vals, string(src))
		}
		filters = append(filters, map[string]any{"terms": map[string]any{"source": vals}})
	}
	if q.TimeFrom != nil || q.TimeTo != nil {
		rng := map[string]any{}
		if q.TimeFrom != nil {
			rng["gte"] = q.TimeFrom.UTC().Format(time.RFC3339Nano)
		}
		if q.TimeTo != nil {
			rng["lt"] = q.TimeTo.UTC().Format(time.RFC3339Nano)
		}
		filters = append(filters, map[string]any{"range": map[string]any{"created_at": rng}})
	}

	dir := "desc"
	if q.SortAsc {
		dir = "asc"
	}

	body := map[string]any{
		"size": q.Limit + 1,
		"query": map[string]any{
			"bool": map[string]any{"filter": filters},
		},
		"sort": []map[string]any{
			{"created_at": map[string]any{"order": dir}},
			{"event_id": map[string]any{"order": dir}},
		},
	}

	if q.Cursor != "" {
		c, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: decode cursor: %w", order.ErrInvalidQuery, err)
		}
		body["search_after"] = []any{c.CreatedAt, c.EventID}
	}
	return body, nil
}
