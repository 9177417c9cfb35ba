package order

import (
	"TourPay/internal/controller/apperror"
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultStoreTimeout = 5 * time.Second

// Service serves operator reads over orders and their callback history.
// Every store call is bounded by storeTimeout.
type Service struct {
	repo         Repo
	events       EventSink
	storeTimeout time.Duration
}

func NewService(repo Repo, events EventSink, storeTimeout time.Duration) *Service {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &Service{repo: repo, events: events, storeTimeout: storeTimeout}
}

func (s *Service) GetOrderByID(ctx context.Context, id string) (Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, fmt.Errorf("get order: %w", err)
		}
		return Order{}, fmt.Errorf("%w: get order: %w", apperror.ErrStoreUnavailable, err)
	}
	return o, nil
}

func (s *Service) GetCallbackEvents(ctx context.Context, orderID string, query CallbackEventQuery) (CallbackEventPage, error) {
	if err := query.Normalize(); err != nil {
		return CallbackEventPage{}, err
	}
	query.OrderIDs = []string{orderID}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	page, err := s.events.GetCallbackEvents(ctx, query)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			return CallbackEventPage{}, fmt.Errorf("get callback events for order %s: %w", orderID, err)
		}
		return CallbackEventPage{}, fmt.Errorf("%w: get callback events for order %s: %w", apperror.ErrStoreUnavailable, orderID, err)
	}
	return page, nil
}
