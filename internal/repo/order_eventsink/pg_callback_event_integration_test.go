//go:build integration
// +build integration

package order_eventsink_test

import (
	"TourPay/internal/domain/order"
	"TourPay/internal/repo/order_eventsink"
	"TourPay/internal/testinfra"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgCallbackEventRepo_Integration(t *testing.T) {
	ctx := context.Background()

	pg, err := testinfra.NewPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { pg.Cleanup(ctx) })
	require.NoError(t, pg.Truncate(ctx))

	repo := order_eventsink.NewPgCallbackEventRepo(pg.Pool.Pool, pg.Pool.Builder)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := range 5 {
		source := order.CallbackSourceIPN
		if i%2 == 1 {
			source = order.CallbackSourceReturn
		}
		_, err := repo.CreateCallbackEvent(ctx, order.NewCallbackEvent{
			OrderID:      "ORD-1",
			Source:       source,
			ResponseCode: "0",
			Verified:     true,
			Outcome:      "ack",
			Params:       json.RawMessage(`{"vpc_MerchTxnRef":"ORD-1"}`),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err = repo.CreateCallbackEvent(ctx, order.NewCallbackEvent{
		OrderID: "ORD-2", Source: order.CallbackSourceIPN, Outcome: "invalid_signature", CreatedAt: base,
	})
	require.NoError(t, err)

	t.Run("pages through one order", func(t *testing.T) {
		query := order.CallbackEventQuery{OrderIDs: []string{"ORD-1"}, Limit: 2, SortAsc: true}

		var seen []time.Time
		for {
			page, err := repo.GetCallbackEvents(ctx, query)
			require.NoError(t, err)
			for _, ev := range page.Items {
				assert.Equal(t, "ORD-1", ev.OrderID)
				seen = append(seen, ev.CreatedAt)
			}
			if !page.HasMore {
				break
			}
			query.Cursor = page.NextCursor
		}

		require.Len(t, seen, 5)
		for i := 1; i < len(seen); i++ {
			assert.True(t, seen[i].After(seen[i-1]))
		}
	})

	t.Run("filters by source", func(t *testing.T) {
		page, err := repo.GetCallbackEvents(ctx, order.CallbackEventQuery{
			OrderIDs: []string{"ORD-1"},
			Sources:  []order.CallbackSource{order.CallbackSourceReturn},
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.False(t, page.HasMore)
	})
}
