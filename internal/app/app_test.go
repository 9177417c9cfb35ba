package app

import (
	"TourPay/config"
	"TourPay/internal/controller/rest/handlers"
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/order"
	"TourPay/internal/external/onepay"
	"TourPay/pkg/health"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret        = "A3EFDFABA8653DF2342E8DAC29B51AF0"
	testOperatorToken = "ops-token"
)

type capturingSender struct {
	mu       sync.Mutex
	receipts []callback.Receipt
}

func (s *capturingSender) Name() string { return "capture" }

func (s *capturingSender) SendReceipt(_ context.Context, r callback.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *capturingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.receipts)
}

func testAppConfig() config.Config {
	return config.Config{
		Storage:       config.StorageMemory,
		AuditSink:     config.StorageMemory,
		ReceiptMode:   config.ReceiptLog,
		PublicBaseURL:  "https://tours.example.com",
		OperatorToken:  testOperatorToken,
		TrustedProxies: []string{"10.0.0.0/8"},
		SuccessPath:    "/booking/success",
		FailedPath:    "/booking/failed",
		OnePay: config.OnePay{
			Merchant:   "TESTONEPAY",
			AccessCode: "6BEB2546",
			HashSecret: testSecret,
			URL:        "https://mtf.onepay.vn/paygate/vpcpay.op",
		},
		StoreTimeout:      time.Second,
		ReceiptTimeout:    time.Second,
		TourCacheTTL:      time.Minute,
		TourCacheMaxStale: time.Hour,
	}
}

type testApp struct {
	engine     *gin.Engine
	reconciler *callback.Reconciler
	sender     *capturingSender
}

func newTestApp(t *testing.T, cfg config.Config) testApp {
	t.Helper()

	checks := health.NewRegistry()
	st, err := newStores(context.Background(), cfg, checks)
	require.NoError(t, err)
	t.Cleanup(st.close)

	gw := onepay.NewGateway(onepay.Config{
		Merchant:   cfg.OnePay.Merchant,
		AccessCode: cfg.OnePay.AccessCode,
		HashSecret: cfg.OnePay.HashSecret,
		BaseURL:    cfg.OnePay.URL,
	})
	checks.Register(health.NewConfigChecker("onepay", gw.CheckConfig))

	sender := &capturingSender{}
	engine, reconciler, err := newEngine(cfg, st, gw, sender, checks)
	require.NoError(t, err)
	return testApp{engine: engine, reconciler: reconciler, sender: sender}
}

func (a testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a testApp) operatorGet(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+testOperatorToken)
	return a.do(req)
}

func (a testApp) checkout(t *testing.T) (string, onepay.Params) {
	t.Helper()

	body := `{"tourId":"sunset-cruise","adults":2,"children":1,
		"customerInfo":{"firstName":"Lan","lastName":"Nguyễn","email":"lan@example.com","phone":"090 123 4567"},
		"date":"2026-05-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := a.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		OrderID    string `json:"orderId"`
		PaymentURL string `json:"paymentUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	u, err := url.Parse(res.PaymentURL)
	require.NoError(t, err)
	return res.OrderID, onepay.ParamsFromValues(u.Query())
}

// gatewayReply mimics the gateway echoing the request back with a result.
func gatewayReply(t *testing.T, params onepay.Params, code string) url.Values {
	t.Helper()

	reply := params.Clone()
	reply["vpc_TxnResponseCode"] = code
	reply["vpc_TransactionNo"] = "991122"
	delete(reply, onepay.FieldSecureHash)
	sig, err := onepay.Sign(reply, testSecret)
	require.NoError(t, err)
	reply[onepay.FieldSecureHash] = sig

	values := url.Values{}
	for k, v := range reply {
		values.Set(k, v)
	}
	return values
}

func TestApp_CheckoutThenPaidCallbacks(t *testing.T) {
	a := newTestApp(t, testAppConfig())

	orderID, params := a.checkout(t)
	assert.Equal(t, orderID, params["vpc_MerchTxnRef"])
	assert.Equal(t, "255000000", params["vpc_Amount"])
	assert.Equal(t, "https://tours.example.com/api/ipn", params["vpc_ReturnURL"])

	reply := gatewayReply(t, params, "0")

	// server-to-server notification, then the browser return, then a retry
	form := httptest.NewRequest(http.MethodPost, "/api/callback", strings.NewReader(reply.Encode()))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := a.do(form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handlers.AckSuccess, w.Body.String())

	w = a.do(httptest.NewRequest(http.MethodGet, "/api/ipn?"+reply.Encode(), nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://tours.example.com/booking/success?orderId="+orderID, w.Header().Get("Location"))

	w = a.do(httptest.NewRequest(http.MethodGet, "/api/callback?"+reply.Encode(), nil))
	assert.Equal(t, handlers.AckSuccess, w.Body.String())

	a.reconciler.Wait()
	assert.Equal(t, 1, a.sender.count())

	w = a.operatorGet("/internal/orders/" + orderID)
	require.Equal(t, http.StatusOK, w.Code)
	var o order.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Equal(t, order.StatusPaid, o.Status)
	assert.Equal(t, "991122", o.GatewayRef)
	assert.Equal(t, int64(2_550_000), o.Amount)

	w = a.operatorGet("/internal/orders/" + orderID + "/events?sort_asc=true")
	require.Equal(t, http.StatusOK, w.Code)
	var page order.CallbackEventPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 3)
}

func TestApp_TamperedCallbackFailsOrder(t *testing.T) {
	a := newTestApp(t, testAppConfig())

	orderID, params := a.checkout(t)
	reply := gatewayReply(t, params, "0")
	reply.Set("vpc_Amount", "100")

	w := a.do(httptest.NewRequest(http.MethodGet, "/api/ipn?"+reply.Encode(), nil))
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/booking/failed", loc.Path)
	assert.Equal(t, "invalid_signature", loc.Query().Get("reason"))

	w = a.do(httptest.NewRequest(http.MethodGet, "/api/callback?"+gatewayReply(t, params, "0").Encode(), nil))
	assert.Equal(t, handlers.AckFail, w.Body.String())

	a.reconciler.Wait()
	assert.Zero(t, a.sender.count())

	w = a.operatorGet("/internal/orders/" + orderID)
	assert.Contains(t, w.Body.String(), `"status":"failed"`)
}

func TestApp_UnconfiguredGateway(t *testing.T) {
	cfg := testAppConfig()
	cfg.OnePay.HashSecret = ""
	a := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout",
		strings.NewReader(`{"tourId":"sunset-cruise","adults":1,"customerInfo":{"email":"lan@example.com"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := a.do(req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = a.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestApp_ToursHealthAndMetrics(t *testing.T) {
	a := newTestApp(t, testAppConfig())

	w := a.do(httptest.NewRequest(http.MethodGet, "/api/tours", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var tours []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tours))
	assert.Len(t, tours, 3)

	assert.Equal(t, http.StatusOK, a.do(httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)
	assert.Equal(t, http.StatusOK, a.do(httptest.NewRequest(http.MethodGet, "/health/ready", nil)).Code)
	assert.Equal(t, http.StatusOK, a.do(httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestNewReceiptSender(t *testing.T) {
	cfg := testAppConfig()

	sender, closeFn := newReceiptSender(cfg, health.NewRegistry())
	defer closeFn()
	assert.Equal(t, "log", sender.Name())

	cfg.ReceiptMode = config.ReceiptResend
	cfg.ResendAPIKey = "re_test"
	sender, closeFn = newReceiptSender(cfg, health.NewRegistry())
	defer closeFn()
	assert.Equal(t, "resend", sender.Name())

	cfg.ReceiptMode = config.ReceiptKafka
	cfg.KafkaBrokers = []string{"127.0.0.1:9092"}
	checks := health.NewRegistry()
	sender, closeFn = newReceiptSender(cfg, checks)
	defer closeFn()
	assert.Equal(t, "kafka", sender.Name())
}

func TestApp_OrderReadsNeedOperatorToken(t *testing.T) {
	a := newTestApp(t, testAppConfig())
	orderID, _ := a.checkout(t)

	w := a.do(httptest.NewRequest(http.MethodGet, "/internal/orders/"+orderID, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "lan@example.com")

	w = a.do(httptest.NewRequest(http.MethodGet, "/internal/orders/"+orderID+"/events", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/internal/orders/"+orderID, nil)
	req.Header.Set("Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, a.do(req).Code)

	// the order id travels in the success redirect, so no public route may serve it
	w = a.do(httptest.NewRequest(http.MethodGet, "/orders/"+orderID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.operatorGet("/internal/orders/" + orderID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lan@example.com")
}

func TestApp_OrderReadsLockedWithoutToken(t *testing.T) {
	cfg := testAppConfig()
	cfg.OperatorToken = ""
	a := newTestApp(t, cfg)
	orderID, _ := a.checkout(t)

	req := httptest.NewRequest(http.MethodGet, "/internal/orders/"+orderID, nil)
	req.Header.Set("Authorization", "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, a.do(req).Code)
}

func TestApp_TicketNoIgnoresUntrustedForwardedFor(t *testing.T) {
	a := newTestApp(t, testAppConfig())

	ticketNo := func(remoteAddr, xff string) string {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"tourId":"sunset-cruise","adults":2,"children":1,
			"customerInfo":{"firstName":"Lan","lastName":"Nguyen","email":"lan@example.com","phone":"0901234567"},
			"date":"2026-05-01"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		req.RemoteAddr = remoteAddr
		w := a.do(req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res struct {
			PaymentURL string `json:"paymentUrl"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		u, err := url.Parse(res.PaymentURL)
		require.NoError(t, err)
		return u.Query().Get("vpc_TicketNo")
	}

	assert.Equal(t, "192.0.2.1", ticketNo("192.0.2.1:4321", "198.51.100.66"))
	assert.Equal(t, "198.51.100.4", ticketNo("10.1.2.3:4321", "198.51.100.4"))
}
