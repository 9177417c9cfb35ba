package callback_test

import (
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/order"
	"TourPay/internal/external/onepay"
	order_repo "TourPay/internal/repo/order"
	"TourPay/internal/repo/order_eventsink"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "A3EFDFABA8653DF2342E8DAC29B51AF0"

type countingSender struct {
	n atomic.Int32
}

func (s *countingSender) Name() string { return "counting" }

func (s *countingSender) SendReceipt(context.Context, callback.Receipt) error {
	s.n.Add(1)
	return nil
}

func signedParams(t *testing.T, ref, code string) map[string]string {
	t.Helper()

	params := onepay.Params{
		"vpc_MerchTxnRef":     ref,
		"vpc_TxnResponseCode": code,
		"vpc_Amount":          "150000000",
		"vpc_TransactionNo":   "991122",
		"vpc_Message":         "Approved",
	}
	sig, err := onepay.Sign(params, secret)
	require.NoError(t, err)
	params[onepay.FieldSecureHash] = sig
	return params
}

func newReconciler(orders order.Repo, events order.EventSink, sender callback.ReceiptSender) *callback.Reconciler {
	gw := onepay.NewGateway(onepay.Config{
		Merchant:   "TESTONEPAY",
		AccessCode: "6BEB2546",
		HashSecret: secret,
		BaseURL:    "https://mtf.onepay.vn/paygate/vpcpay.op",
	})
	return callback.NewReconciler(gw, orders, events, sender, nil, callback.Config{
		StoreTimeout:   time.Second,
		ReceiptTimeout: time.Second,
	})
}

func TestReconcile_ConcurrentDuplicatesSendOneReceipt(t *testing.T) {
	ctx := context.Background()
	orders := order_repo.NewMemoryOrderRepo()
	events := order_eventsink.NewMemoryCallbackEventRepo()
	sender := &countingSender{}

	require.NoError(t, orders.Create(ctx, order.Order{
		ID:       "ORD-1",
		Amount:   1_500_000,
		Currency: "VND",
		Status:   order.StatusPending,
	}))

	r := newReconciler(orders, events, sender)
	params := signedParams(t, "ORD-1", "0")

	const callers = 32
	outcomes := make([]callback.Outcome, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			source := order.CallbackSourceIPN
			if i%2 == 0 {
				source = order.CallbackSourceReturn
			}
			outcomes[i] = r.Reconcile(ctx, callback.Notification{Params: params, Source: source})
		}()
	}
	wg.Wait()
	r.Wait()

	transitions := 0
	for _, out := range outcomes {
		assert.True(t, out.Acknowledged)
		assert.Equal(t, order.StatusPaid, out.Status)
		if out.Transitioned {
			transitions++
		}
	}
	assert.Equal(t, 1, transitions)
	assert.EqualValues(t, 1, sender.n.Load())

	stored, err := orders.FindByID(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status)
	assert.Equal(t, "991122", stored.GatewayRef)

	page, err := events.GetCallbackEvents(ctx, order.CallbackEventQuery{
		OrderIDs: []string{"ORD-1"},
		Limit:    order.MaxEventsLimit,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, callers)
}

func TestReconcile_ConcurrentFallbackInsertsOnce(t *testing.T) {
	ctx := context.Background()
	orders := order_repo.NewMemoryOrderRepo()
	sender := &countingSender{}
	r := newReconciler(orders, nil, sender)
	params := signedParams(t, "ORD-404", "0")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := r.Reconcile(ctx, callback.Notification{Params: params, Source: order.CallbackSourceIPN})
			assert.True(t, out.Acknowledged)
			assert.Equal(t, order.StatusPaidFallback, out.Status)
		}()
	}
	wg.Wait()
	r.Wait()

	assert.EqualValues(t, 1, sender.n.Load())
	stored, err := orders.FindByID(ctx, "ORD-404")
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), stored.Amount)
}

func TestReconcile_TerminalStatusNeverChanges(t *testing.T) {
	ctx := context.Background()
	orders := order_repo.NewMemoryOrderRepo()
	sender := &countingSender{}
	r := newReconciler(orders, nil, sender)

	require.NoError(t, orders.Create(ctx, order.Order{ID: "ORD-2", Status: order.StatusPending}))

	first := r.Reconcile(ctx, callback.Notification{Params: signedParams(t, "ORD-2", "99")})
	assert.Equal(t, order.StatusCancelled, first.Status)
	assert.True(t, first.Transitioned)

	late := r.Reconcile(ctx, callback.Notification{Params: signedParams(t, "ORD-2", "0")})
	r.Wait()

	assert.False(t, late.Acknowledged)
	assert.False(t, late.Transitioned)
	assert.Equal(t, order.StatusCancelled, late.Status)
	assert.Equal(t, callback.ReasonPaymentFailed, late.Reason)
	assert.Zero(t, sender.n.Load())
}

func TestReconcile_TamperedAmountIsRejected(t *testing.T) {
	ctx := context.Background()
	orders := order_repo.NewMemoryOrderRepo()
	r := newReconciler(orders, nil, &countingSender{})

	require.NoError(t, orders.Create(ctx, order.Order{ID: "ORD-3", Status: order.StatusPending}))

	params := signedParams(t, "ORD-3", "0")
	params["vpc_Amount"] = "100"

	out := r.Reconcile(ctx, callback.Notification{Params: params, Source: order.CallbackSourceReturn})
	r.Wait()

	assert.False(t, out.Verified)
	assert.False(t, out.Acknowledged)
	assert.Equal(t, callback.ReasonInvalidSignature, out.Reason)
	assert.Equal(t, order.StatusFailed, out.Status)
}
