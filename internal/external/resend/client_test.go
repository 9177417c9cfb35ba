package resend

import (
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/order"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidReceipt() callback.Receipt {
	travel := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return callback.Receipt{
		Order: order.Order{
			ID:         "ORD-1",
			TourID:     "sunset-cruise",
			Customer:   order.Customer{FirstName: "Lan", LastName: "Nguyen", Email: "lan@example.com"},
			Party:      order.Party{Adults: 2, Children: 1},
			Amount:     1500000,
			Currency:   "VND",
			Status:     order.StatusPaid,
			GatewayRef: "TXN-9",
			TravelDate: &travel,
		},
		TourName: "Sunset <Cruise>",
	}
}

func TestClient_SendReceipt(t *testing.T) {
	var (
		got    sendReq
		auth   string
		idem   string
		method string
		path   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		auth = r.Header.Get("Authorization")
		idem = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "re_test", "bookings@example.com", "ops@example.com", nil)
	assert.Equal(t, "resend", c.Name())

	require.NoError(t, c.SendReceipt(context.Background(), paidReceipt()))

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/emails", path)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "receipt/ORD-1", idem)
	assert.Equal(t, "bookings@example.com", got.From)
	assert.Equal(t, []string{"lan@example.com"}, got.To)
	assert.Equal(t, []string{"ops@example.com"}, got.Bcc)
	assert.Equal(t, "Booking Confirmed - ORD-1", got.Subject)
	assert.Contains(t, got.HTML, "1.500.000 VND")
	assert.Contains(t, got.HTML, "Sunset &lt;Cruise&gt;")
}

func TestClient_SendReceipt_OperatorOnly(t *testing.T) {
	var got sendReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	rec := paidReceipt()
	rec.Order.Customer.Email = ""

	c := New(srv.URL, "re_test", "bookings@example.com", "ops@example.com", nil)
	require.NoError(t, c.SendReceipt(context.Background(), rec))
	assert.Equal(t, []string{"ops@example.com"}, got.To)
	assert.Empty(t, got.Bcc)
}

func TestClient_SendReceipt_NoRecipient(t *testing.T) {
	rec := paidReceipt()
	rec.Order.Customer.Email = ""

	c := New("http://127.0.0.1:1", "re_test", "bookings@example.com", "", nil)
	err := c.SendReceipt(context.Background(), rec)
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestClient_SendReceipt_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "re_test", "bad", "", nil)
	err := c.SendReceipt(context.Background(), paidReceipt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "invalid from")
}

func TestClient_SendReceipt_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := New(srv.URL, "re_test", "bookings@example.com", "", nil)
	err := c.SendReceipt(ctx, paidReceipt())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
