package apperror

import "errors"

// Cross-cutting error kinds. Domain sentinels wrap one of these so handlers
// can pick a status code with errors.Is without knowing every domain error.
var (
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrVerification     = errors.New("signature verification failed")
	ErrStoreUnavailable = errors.New("order store unavailable")
	ErrSideEffect       = errors.New("side effect failed")
)
