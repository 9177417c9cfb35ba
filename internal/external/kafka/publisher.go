package kafka

import (
	"TourPay/internal/messaging"
	"TourPay/pkg/correlation"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

var _ messaging.Publisher = (*Publisher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements messaging.Publisher using Kafka.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher creates a new Kafka publisher.
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{
		writer: writer,
		topic:  topic,
	}
}

// Publish sends an envelope keyed by env.Key, so all messages for one
// order land on the same partition.
func (p *Publisher) Publish(ctx context.Context, env messaging.Envelope) error {
	if env.CorrelationID == "" {
		env.CorrelationID = correlation.FromContext(ctx)
	}

	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(env.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(env.Type)},
		},
	}
	if env.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{
			Key:   correlation.KafkaHeaderName,
			Value: []byte(env.CorrelationID),
		})
	}

	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish message",
			"topic", p.topic, "key", env.Key, "error", err)
		return err
	}

	slog.DebugContext(ctx, "Message published",
		"topic", p.topic, "key", env.Key, "event_id", env.EventID)
	return nil
}

// Close closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
