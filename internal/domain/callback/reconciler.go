package callback

import (
	"TourPay/internal/controller/apperror"
	"TourPay/internal/domain/gateway"
	"TourPay/internal/domain/order"
	"TourPay/internal/domain/tour"
	"TourPay/pkg/correlation"
	"TourPay/pkg/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const (
	defaultStoreTimeout   = 5 * time.Second
	defaultReceiptTimeout = 15 * time.Second
	fallbackCurrency      = "VND"
)

type Reason string

const (
	ReasonNone             Reason = ""
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonPaymentFailed    Reason = "payment_failed"
	ReasonCancelled        Reason = "cancelled"
	ReasonInvalidRequest   Reason = "invalid_request"
	ReasonStoreUnavailable Reason = "store_unavailable"
)

type Notification struct {
	Params map[string]string
	Source order.CallbackSource
}

type Outcome struct {
	OrderID      string
	ResponseCode string
	Verified     bool
	// Status is the order's status after processing, empty if unknown.
	Status       order.Status
	Transitioned bool
	// Acknowledged is true only for a verified success notification whose
	// order is durably paid.
	Acknowledged bool
	Reason       Reason
}

type Config struct {
	StoreTimeout   time.Duration
	ReceiptTimeout time.Duration
}

// Reconciler applies gateway notifications to orders. Any number of
// duplicate or concurrent notifications for one order produce at most one
// state transition and at most one receipt.
type Reconciler struct {
	gateway  gateway.Provider
	orders   order.Repo
	events   order.EventSink
	receipts ReceiptSender
	tours    tour.Source
	cfg      Config
	now      func() time.Time

	inflight sync.WaitGroup
}

// NewReconciler wires the reconciler. events and tours may be nil.
func NewReconciler(gw gateway.Provider, orders order.Repo, events order.EventSink, receipts ReceiptSender, tours tour.Source, cfg Config) *Reconciler {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	if cfg.ReceiptTimeout <= 0 {
		cfg.ReceiptTimeout = defaultReceiptTimeout
	}
	return &Reconciler{
		gateway:  gw,
		orders:   orders,
		events:   events,
		receipts: receipts,
		tours:    tours,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Wait blocks until every receipt dispatched so far has finished.
func (r *Reconciler) Wait() {
	r.inflight.Wait()
}

func targetStatus(verified bool, code string) (order.Status, Reason) {
	switch {
	case !verified:
		return order.StatusFailed, ReasonInvalidSignature
	case code == gateway.ResponseCodeSuccess:
		return order.StatusPaid, ReasonNone
	case code == gateway.ResponseCodeCancelled:
		return order.StatusCancelled, ReasonCancelled
	default:
		return order.StatusFailed, ReasonPaymentFailed
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, n Notification) (out Outcome) {
	cb, err := r.gateway.ParseCallback(n.Params)
	if err != nil {
		slog.ErrorContext(ctx, "Callback signature could not be checked", "error", err)
		cb.Verified = false
	}

	out = Outcome{OrderID: cb.OrderID, ResponseCode: cb.ResponseCode, Verified: cb.Verified}
	defer func() {
		r.record(ctx, n, out)
	}()

	if !gateway.ValidOrderID(cb.OrderID) {
		slog.WarnContext(ctx, "Callback without a usable merchant reference",
			"source", n.Source, "verified", cb.Verified)
		out.Reason = ReasonInvalidRequest
		return out
	}
	ctx = correlation.WithOrderID(ctx, cb.OrderID)

	if !cb.Verified {
		slog.WarnContext(ctx, "Callback signature mismatch", "source", n.Source, "response_code", cb.ResponseCode)
	}

	target, reason := targetStatus(cb.Verified, cb.ResponseCode)
	out.Reason = reason

	updated, ok, err := r.updateIfPending(ctx, cb.OrderID, target, cb.GatewayRef())
	if err != nil {
		slog.ErrorContext(ctx, "Order store unavailable while reconciling", "error", err)
		out.Reason = ReasonStoreUnavailable
		return out
	}

	switch {
	case ok:
		out.Status = updated.Status
		out.Transitioned = true
		metrics.OrderTransitionsTotal.WithLabelValues(string(updated.Status)).Inc()
		slog.InfoContext(ctx, "Order status updated", "status", updated.Status, "source", n.Source)
		if updated.Status == order.StatusPaid {
			r.dispatchReceipt(ctx, Receipt{Order: updated})
		}

	case target == order.StatusPaid:
		status, transitioned, err := r.paidWithoutPending(ctx, cb)
		if err != nil {
			slog.ErrorContext(ctx, "Order store unavailable while recording fallback payment", "error", err)
			out.Reason = ReasonStoreUnavailable
			return out
		}
		out.Status = status
		out.Transitioned = transitioned

	default:
		existing, err := r.find(ctx, cb.OrderID)
		switch {
		case err == nil:
			out.Status = existing.Status
			if existing.Status.IsTerminal() {
				slog.InfoContext(ctx, "Callback for settled order left it unchanged",
					"status", existing.Status, "target", target)
			}
		case !errors.Is(err, order.ErrNotFound):
			slog.WarnContext(ctx, "Could not load order for callback", "error", err)
		}
	}

	out.Acknowledged = cb.Verified && cb.ResponseCode == gateway.ResponseCodeSuccess && out.Status.IsPaid()
	if out.Acknowledged {
		out.Reason = ReasonNone
	} else if out.Reason == ReasonNone {
		// success notification for an order that had already failed or been cancelled
		out.Reason = ReasonPaymentFailed
	}
	return out
}

// paidWithoutPending handles a verified success for an order that is not
// pending: either a duplicate, or a payment the store never saw.
func (r *Reconciler) paidWithoutPending(ctx context.Context, cb gateway.Callback) (order.Status, bool, error) {
	existing, err := r.find(ctx, cb.OrderID)
	if err == nil {
		slog.InfoContext(ctx, "Duplicate success notification", "status", existing.Status)
		return existing.Status, false, nil
	}
	if !errors.Is(err, order.ErrNotFound) {
		return "", false, err
	}

	now := r.now().UTC()
	fallback := order.Order{
		ID: cb.OrderID,
		Customer: order.Customer{
			Email: cb.CustomerEmail,
			Phone: cb.CustomerPhone,
		},
		Amount:     cb.Amount,
		Currency:   fallbackCurrency,
		Status:     order.StatusPaidFallback,
		GatewayRef: cb.GatewayRef(),
		OrderInfo:  cb.OrderInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := r.create(ctx, fallback); err != nil {
		if errors.Is(err, order.ErrAlreadyExists) {
			existing, err := r.find(ctx, cb.OrderID)
			if err != nil {
				return "", false, err
			}
			return existing.Status, false, nil
		}
		return "", false, err
	}

	slog.WarnContext(ctx, "Paid notification for unknown order, stored fallback record", "amount", cb.Amount)
	metrics.OrderTransitionsTotal.WithLabelValues(string(order.StatusPaidFallback)).Inc()
	r.dispatchReceipt(ctx, Receipt{Order: fallback, Fallback: true})
	return order.StatusPaidFallback, true, nil
}

func (r *Reconciler) updateIfPending(ctx context.Context, id string, status order.Status, ref string) (order.Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()

	o, ok, err := r.orders.UpdateStatusIfPending(ctx, id, status, ref)
	if err != nil {
		return order.Order{}, false, fmt.Errorf("%w: %w", apperror.ErrStoreUnavailable, err)
	}
	return o, ok, nil
}

func (r *Reconciler) find(ctx context.Context, id string) (order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()

	o, err := r.orders.FindByID(ctx, id)
	if err != nil && !errors.Is(err, order.ErrNotFound) {
		return order.Order{}, fmt.Errorf("%w: %w", apperror.ErrStoreUnavailable, err)
	}
	return o, err
}

func (r *Reconciler) create(ctx context.Context, o order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()

	err := r.orders.Create(ctx, o)
	if err != nil && !errors.Is(err, order.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", apperror.ErrStoreUnavailable, err)
	}
	return err
}

// dispatchReceipt runs the side effect detached from the request. It
// never feeds back into order state.
func (r *Reconciler) dispatchReceipt(ctx context.Context, rec Receipt) {
	if r.receipts == nil {
		return
	}

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.ReceiptTimeout)
		defer cancel()

		rec.TourName = r.tourName(ctx, rec.Order.TourID)

		sender := r.receipts.Name()
		start := time.Now()
		err := r.receipts.SendReceipt(ctx, rec)
		metrics.ReceiptDuration.WithLabelValues(sender).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ReceiptsTotal.WithLabelValues(sender, "error").Inc()
			slog.ErrorContext(ctx, "Receipt delivery failed",
				"sender", sender, "error", fmt.Errorf("%w: %w", apperror.ErrSideEffect, err))
			return
		}
		metrics.ReceiptsTotal.WithLabelValues(sender, "ok").Inc()
		slog.InfoContext(ctx, "Receipt delivered", "sender", sender, "fallback", rec.Fallback)
	}()
}

func (r *Reconciler) tourName(ctx context.Context, tourID string) string {
	if tourID == "" {
		return ""
	}
	if r.tours == nil {
		return tourID
	}
	t, err := r.tours.GetTour(ctx, tourID)
	if err != nil {
		slog.WarnContext(ctx, "Tour name lookup failed for receipt", "tour_id", tourID, "error", err)
		return tourID
	}
	return t.Name
}

func (r *Reconciler) record(ctx context.Context, n Notification, out Outcome) {
	outcome := "ack"
	if !out.Acknowledged {
		outcome = string(out.Reason)
	}
	metrics.CallbacksTotal.WithLabelValues(string(n.Source), strconv.FormatBool(out.Verified), outcome).Inc()

	if r.events == nil {
		return
	}

	raw, err := json.Marshal(n.Params)
	if err != nil {
		slog.WarnContext(ctx, "Could not encode callback params for audit", "error", err)
		raw = []byte("{}")
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()

	_, err = r.events.CreateCallbackEvent(ctx, order.NewCallbackEvent{
		OrderID:      out.OrderID,
		Source:       n.Source,
		ResponseCode: out.ResponseCode,
		Verified:     out.Verified,
		Outcome:      outcome,
		Transitioned: out.Transitioned,
		Params:       raw,
		CreatedAt:    r.now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "Callback audit write failed", "error", err)
	}
}
