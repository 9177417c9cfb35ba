package order

import (
	"TourPay/internal/controller/apperror"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrAlreadyExists = errors.New("order already exists")
	ErrInvalidStatus = fmt.Errorf("%w: invalid status transition", apperror.ErrValidation)

	ErrInvalidQuery = fmt.Errorf("%w: invalid callback events query", apperror.ErrValidation)
)
