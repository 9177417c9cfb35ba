package checkout

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
	"net/mail"
	"time"
)

const (
	dateLayout       = "2006-01-02"
	maxPerCategory   = 50
	defaultCurrency  = "VND"
	defaultStoreWait = 5 * time.Second
)

type Request struct {
	TourID     string
	Adults     int
	Children   int
	Infants    int
	Customer   order.Customer
	TravelDate string
	ReturnDate string
	Guests     json.RawMessage
	ClientIP   string
}

type Result struct {
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"paymentUrl"`
}

type Config struct {
	// ReturnURL is where the gateway sends the customer's browser back.
	ReturnURL    string
	StoreTimeout time.Duration
}

// Initiator turns a booking request into a pending order and a signed
// gateway redirect.
type Initiator struct {
	tours   tour.Source
	orders  order.Repo
	gateway gateway.Provider
	cfg     Config
	now     func() time.Time
}

func NewInitiator(tours tour.Source, orders order.Repo, gw gateway.Provider, cfg Config) *Initiator {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreWait
	}
	return &Initiator{tours: tours, orders: orders, gateway: gw, cfg: cfg, now: time.Now}
}

type parsedDates struct {
	travel *time.Time
	ret    *time.Time
}

func (r Request) validate() (parsedDates, error) {
	var d parsedDates
	if r.TourID == "" {
		return d, fmt.Errorf("%w: tour id is required", ErrInvalidRequest)
	}
	for name, n := range map[string]int{"adults": r.Adults, "children": r.Children, "infants": r.Infants} {
		if n < 0 || n > maxPerCategory {
			return d, fmt.Errorf("%w: %s must be between 0 and %d", ErrInvalidRequest, name, maxPerCategory)
		}
	}
	if r.Customer.Email != "" {
		if _, err := mail.ParseAddress(r.Customer.Email); err != nil {
			return d, fmt.Errorf("%w: invalid email", ErrInvalidRequest)
		}
	}
	if len(r.Guests) > 0 && !json.Valid(r.Guests) {
		return d, fmt.Errorf("%w: guests must be valid JSON", ErrInvalidRequest)
	}

	if r.TravelDate != "" {
		t, err := time.Parse(dateLayout, r.TravelDate)
		if err != nil {
			return d, fmt.Errorf("%w: invalid travel date", ErrInvalidRequest)
		}
		d.travel = &t
	}
	if r.ReturnDate != "" {
		t, err := time.Parse(dateLayout, r.ReturnDate)
		if err != nil {
			return d, fmt.Errorf("%w: invalid return date", ErrInvalidRequest)
		}
		if d.travel != nil && t.Before(*d.travel) {
			return d, fmt.Errorf("%w: return date before travel date", ErrInvalidRequest)
		}
		d.ret = &t
	}
	return d, nil
}

// Initiate validates and prices the booking, builds the signed payment URL,
// persists the pending order and only then returns the URL. Nothing is
// returned or stored when any earlier step fails.
func (s *Initiator) Initiate(ctx context.Context, req Request) (res Result, err error) {
	defer func() {
		metrics.CheckoutsTotal.WithLabelValues(checkoutResult(err)).Inc()
	}()

	dates, err := req.validate()
	if err != nil {
		return Result{}, err
	}

	t, err := s.lookupTour(ctx, req.TourID)
	if err != nil {
		return Result{}, err
	}

	amount := t.Price(req.Adults, req.Children, req.Infants)
	if amount <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	if err := s.gateway.CheckConfig(); err != nil {
		slog.ErrorContext(ctx, "Payment gateway is not configured", "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	now := s.now().UTC()
	orderID := SanitizeMerchTxnRef(NewMerchTxnRef(now))
	if !gateway.ValidOrderID(orderID) {
		return Result{}, fmt.Errorf("generated reference %q is not valid", orderID)
	}
	ctx = correlation.WithOrderID(ctx, orderID)

	customer := order.Customer{
		FirstName: req.Customer.FirstName,
		LastName:  req.Customer.LastName,
		Email:     SanitizeEmail(req.Customer.Email),
		Phone:     SanitizePhone(req.Customer.Phone),
	}
	orderInfo := SanitizeOrderInfo(fmt.Sprintf("Booking %s %s", t.Name, customer.Email))

	o := order.Order{
		ID:           orderID,
		TourID:       t.ID,
		Customer:     customer,
		Party:        order.Party{Adults: req.Adults, Children: req.Children, Infants: req.Infants},
		Amount:       amount,
		Currency:     defaultCurrency,
		Status:       order.StatusPending,
		OrderInfo:    orderInfo,
		GuestDetails: req.Guests,
		TravelDate:   dates.travel,
		ReturnDate:   dates.ret,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	paymentURL, err := s.gateway.PaymentURL(ctx, gateway.PaymentRequest{
		OrderID:       orderID,
		Amount:        amount,
		OrderInfo:     orderInfo,
		ReturnURL:     s.cfg.ReturnURL,
		ClientIP:      req.ClientIP,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
	})
	if err != nil {
		if errors.Is(err, gateway.ErrConfiguration) {
			return Result{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		return Result{}, fmt.Errorf("build payment url: %w", err)
	}

	// The URL is only handed out once the pending order is durable.
	if err := s.persist(ctx, o); err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "Checkout initiated",
		"tour_id", t.ID, "amount", amount, "party_size", o.Party.Size())

	return Result{OrderID: orderID, PaymentURL: paymentURL}, nil
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrInvalidTour):
		return "invalid_tour"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, apperror.ErrStoreUnavailable):
		return "store"
	default:
		return "error"
	}
}

func (s *Initiator) lookupTour(ctx context.Context, id string) (tour.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	t, err := s.tours.GetTour(ctx, id)
	if err != nil {
		if errors.Is(err, tour.ErrNotFound) {
			return tour.Tour{}, fmt.Errorf("%w: %s", ErrInvalidTour, id)
		}
		return tour.Tour{}, fmt.Errorf("%w: load tour: %w", apperror.ErrStoreUnavailable, err)
	}
	return t, nil
}

func (s *Initiator) persist(ctx context.Context, o order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	if err := s.orders.Create(ctx, o); err != nil {
		return fmt.Errorf("%w: create order: %w", apperror.ErrStoreUnavailable, err)
	}
	return nil
}
