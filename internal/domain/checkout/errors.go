package checkout

import (
	"TourPay/internal/controller/apperror"
	"fmt"
)

var (
	ErrInvalidRequest = fmt.Errorf("%w: invalid checkout request", apperror.ErrValidation)
	ErrInvalidTour    = fmt.Errorf("%w: invalid tour id", apperror.ErrValidation)
	ErrInvalidAmount  = fmt.Errorf("%w: invalid amount", apperror.ErrValidation)
	ErrConfiguration  = fmt.Errorf("%w: payment gateway configuration error", apperror.ErrConfiguration)
)
