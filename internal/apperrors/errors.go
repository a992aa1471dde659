package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a write lost a race against a concurrent update on the
// same entity (e.g. a stale accrual checkpoint) and may be retried by the caller.
var ErrConflict = errors.New("conflicting concurrent update")

// ErrInsufficientFunds indicates a withdrawal larger than the available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// AppError wraps an underlying error with a status code and a human-readable
// message for the outer layers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
