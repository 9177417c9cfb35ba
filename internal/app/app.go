package app

import (
	"TourPay/config"
	"TourPay/internal/controller/rest"
	"TourPay/internal/controller/rest/handlers"
	"TourPay/internal/domain/callback"
	"TourPay/internal/domain/checkout"
	"TourPay/internal/domain/gateway"
	"TourPay/internal/domain/order"
	"TourPay/internal/domain/tour"
	"TourPay/internal/external/onepay"
	"TourPay/pkg/health"
	"TourPay/pkg/logger"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func Run(cfg config.Config) error {
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: cfg.LogFormat == "console"})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return RunContext(ctx, cfg)
}

// RunContext serves until ctx is cancelled, then drains in-flight receipts.
func RunContext(ctx context.Context, cfg config.Config) error {
	checks := health.NewRegistry()

	st, err := newStores(ctx, cfg, checks)
	if err != nil {
		return fmt.Errorf("app - RunContext - newStores: %w", err)
	}
	defer st.close()

	gw := onepay.NewGateway(onepay.Config{
		Merchant:   cfg.OnePay.Merchant,
		AccessCode: cfg.OnePay.AccessCode,
		HashSecret: cfg.OnePay.HashSecret,
		BaseURL:    cfg.OnePay.URL,
		Locale:     cfg.OnePay.Locale,
		Currency:   cfg.OnePay.Currency,
		Version:    cfg.OnePay.Version,
	})
	if err := gw.CheckConfig(); err != nil {
		slog.Warn("Payment gateway is not configured; checkout will fail until it is", "error", err)
	}
	checks.Register(health.NewConfigChecker("onepay", gw.CheckConfig))

	receipts, closeReceipts := newReceiptSender(cfg, checks)
	defer closeReceipts()

	engine, reconciler, err := newEngine(cfg, st, gw, receipts, checks)
	if err != nil {
		return fmt.Errorf("app - RunContext - newEngine: %w", err)
	}
	if cfg.OperatorToken == "" {
		slog.Warn("OPERATOR_TOKEN is not set; /internal order reads are locked")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server started", "port", cfg.Port, "storage", cfg.Storage, "receipts", receipts.Name())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		drainReceipts(shutdownCtx, reconciler)
		return nil
	})

	err = g.Wait()
	slog.Info("Stopped")
	return err
}

// newEngine wires the domain services onto a gin engine.
func newEngine(cfg config.Config, st *stores, gw gateway.Provider, receipts callback.ReceiptSender, checks *health.Registry) (*gin.Engine, *callback.Reconciler, error) {
	catalog := tour.NewCache(st.tours, cfg.TourCacheTTL, cfg.TourCacheMaxStale)

	initiator := checkout.NewInitiator(st.tours, st.orders, gw, checkout.Config{
		ReturnURL:    cfg.ReturnURL(),
		StoreTimeout: cfg.StoreTimeout,
	})
	reconciler := callback.NewReconciler(gw, st.orders, st.events, receipts, catalog, callback.Config{
		StoreTimeout:   cfg.StoreTimeout,
		ReceiptTimeout: cfg.ReceiptTimeout,
	})
	orderService := order.NewService(st.orders, st.events, cfg.StoreTimeout)

	router := rest.NewRouter(
		handlers.NewCheckoutHandler(initiator),
		handlers.NewCallbackHandler(reconciler, cfg.SuccessURL(), cfg.FailedURL()),
		handlers.NewTourHandler(catalog),
		checks,
	)
	internalRouter := rest.NewInternalRouter(handlers.NewOrderHandler(orderService), cfg.OperatorToken)

	engine, err := NewGinEngine(cfg.TrustedProxies)
	if err != nil {
		return nil, nil, err
	}
	router.SetUp(engine)
	internalRouter.SetUp(engine)
	return engine, reconciler, nil
}

// drainReceipts waits for in-flight receipts until ctx expires.
func drainReceipts(ctx context.Context, r *callback.Reconciler) {
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("Shutdown timeout reached with receipts still in flight")
	}
}
