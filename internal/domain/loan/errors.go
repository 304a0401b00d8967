package loan

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrLimitExceeded     = errors.New("loan amount exceeds limit")
	ErrExceedsDue        = errors.New("repayment exceeds total due")
	ErrForbidden         = errors.New("access denied")
)
