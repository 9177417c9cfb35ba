package kafka

import (
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/order"
	"TourPay/internal/messaging"
	"TourPay/pkg/correlation"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, topic: "receipts"}

	ctx := correlation.WithID(context.Background(), "corr-1")
	env, err := messaging.NewEnvelope("ORD-1", messaging.TypeBookingReceipt, map[string]string{"a": "b"})
	require.NoError(t, err)

	require.NoError(t, p.Publish(ctx, env))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "ORD-1", string(msg.Key))
	assert.Equal(t, "corr-1", header(msg, correlation.KafkaHeaderName))
	assert.Equal(t, messaging.TypeBookingReceipt, header(msg, "type"))

	var got messaging.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, env.EventID, got.EventID)
	assert.Equal(t, "corr-1", got.CorrelationID)
}

func TestPublisher_PublishWithoutCorrelation(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, topic: "receipts"}

	env, err := messaging.NewEnvelope("ORD-1", messaging.TypeBookingReceipt, nil)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), env))
	require.Len(t, w.msgs, 1)
	assert.Empty(t, header(w.msgs[0], correlation.KafkaHeaderName))
}

func TestPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Publisher{writer: w, topic: "receipts"}

	env, err := messaging.NewEnvelope("ORD-1", messaging.TypeBookingReceipt, nil)
	require.NoError(t, err)

	assert.EqualError(t, p.Publish(context.Background(), env), "broker down")
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

type capturePublisher struct {
	envs []messaging.Envelope
	err  error
}

func (c *capturePublisher) Publish(_ context.Context, env messaging.Envelope) error {
	c.envs = append(c.envs, env)
	return c.err
}

func (c *capturePublisher) Close() error { return nil }

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
			UpdatedAt:  time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		},
		TourName: "Sunset Cruise",
	}
}

func TestReceiptPublisher_SendReceipt(t *testing.T) {
	pub := &capturePublisher{}
	rp := NewReceiptPublisher(pub)

	assert.Equal(t, "kafka", rp.Name())
	require.NoError(t, rp.SendReceipt(context.Background(), paidReceipt()))
	require.Len(t, pub.envs, 1)

	env := pub.envs[0]
	assert.Equal(t, "ORD-1", env.Key)
	assert.Equal(t, messaging.TypeBookingReceipt, env.Type)

	var msg ReceiptMessage
	require.NoError(t, json.Unmarshal(env.Payload, &msg))
	assert.Equal(t, "Sunset Cruise", msg.TourName)
	assert.Equal(t, "Lan Nguyen", msg.CustomerName)
	assert.Equal(t, int64(1500000), msg.Amount)
	assert.Equal(t, 2, msg.Adults)
	assert.Equal(t, "paid", msg.Status)
	assert.False(t, msg.Fallback)
}

func TestReceiptPublisher_PublishError(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	rp := NewReceiptPublisher(pub)

	err := rp.SendReceipt(context.Background(), paidReceipt())
	assert.ErrorContains(t, err, "ORD-1")
	assert.ErrorContains(t, err, "broker down")
}
