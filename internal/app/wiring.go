package app

import (
	"TourPay/config"
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/order"
	"TourPay/internal/domain/tour"
	"TourPay/internal/external/kafka"
	"TourPay/internal/external/opensearch"
	"TourPay/internal/external/resend"
	order_repo "TourPay/internal/repo/order"
	"TourPay/internal/repo/order_eventsink"
	tour_repo "TourPay/internal/repo/tour"
	"TourPay/pkg/health"
	"TourPay/pkg/postgres"
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// stores holds the adapters chosen by config, plus what to close on exit.
type stores struct {
	orders  order.Repo
	events  order.EventSink
	tours   tour.Source
	pg      *postgres.Postgres
	closers []func()
}

func (s *stores) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func newStores(ctx context.Context, cfg config.Config, checks *health.Registry) (*stores, error) {
	s := &stores{}

	switch cfg.Storage {
	case config.StoragePostgres:
		if err := ApplyMigrations(cfg.PgURL, MigrationFS); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		pg, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s.pg = pg
		s.closers = append(s.closers, pg.Close)
		s.orders = order_repo.NewPgOrderRepo(pg)
		s.tours = tour_repo.NewPgTourRepo(pg)
		checks.Register(health.NewPostgresChecker(pg.Pool))
	default:
		slog.Warn("Using in-memory storage; orders are lost on restart")
		s.orders = order_repo.NewMemoryOrderRepo()
		s.tours = tour_repo.NewStaticTourRepo(tour_repo.DefaultCatalog()...)
	}

	switch cfg.AuditSink {
	case config.StoragePostgres:
		s.events = order_eventsink.NewPgCallbackEventRepo(s.pg.Pool, s.pg.Builder)
	case config.AuditOpenSearch:
		sink, err := opensearch.NewCallbackSink(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexCallbacks)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("opensearch: %w", err)
		}
		s.events = sink
	default:
		s.events = order_eventsink.NewMemoryCallbackEventRepo()
	}

	return s, nil
}

// newReceiptSender returns the sender for cfg.ReceiptMode and a close func.
func newReceiptSender(cfg config.Config, checks *health.Registry) (callback.ReceiptSender, func()) {
	switch cfg.ReceiptMode {
	case config.ReceiptResend:
		c := resend.New(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.ReceiptFrom, cfg.AdminEmail,
			&http.Client{Timeout: cfg.HTTPResendClientTimeout})
		return c, func() {}
	case config.ReceiptKafka:
		slog.Info("Receipts published to Kafka",
			"brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReceiptsTopic)
		pub := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaReceiptsTopic)
		checks.Register(health.NewKafkaChecker(cfg.KafkaBrokers))
		return kafka.NewReceiptPublisher(pub), func() {
			if err := pub.Close(); err != nil {
				slog.Error("Failed to close receipt publisher", "error", err)
			}
		}
	default:
		return callback.LogSender{}, func() {}
	}
}
