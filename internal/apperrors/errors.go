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

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the operation lost a race and should be retried by the caller.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrBalanceExceeded is the sentinel for payments that would push a student's
// paid total over their target. Handlers match it with errors.Is; the typed
// BalanceExceededError carries the remaining amount for display.
var ErrBalanceExceeded = errors.New("amount exceeds remaining balance")

// BalanceExceededError reports how much of the target is still payable.
// Remaining is zero when the target is zero or already fully collected.
type BalanceExceededError struct {
	Remaining int64
}

func (e *BalanceExceededError) Error() string {
	return fmt.Sprintf("amount exceeds remaining balance of %d", e.Remaining)
}

func (e *BalanceExceededError) Unwrap() error {
	return ErrBalanceExceeded
}

// NewBalanceExceededError builds the typed rejection for the paid <= target invariant.
func NewBalanceExceededError(remaining int64) error {
	return &BalanceExceededError{Remaining: remaining}
}

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logging.
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

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
