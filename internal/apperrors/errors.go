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

// ErrConflict indicates that the requested operation conflicts with the current resource state.
var ErrConflict = errors.New("resource state conflict")

// ErrImbalancedEntry indicates that a candidate journal entry's debits do not equal its credits.
var ErrImbalancedEntry = errors.New("journal entry debits do not equal credits")

// ErrAlreadyProcessed indicates that the source transaction was already posted to the ledger.
// Callers should treat this as a no-op, not a failure.
var ErrAlreadyProcessed = errors.New("source transaction already posted to ledger")

// ErrNegativeStock indicates that a stock operation would drive physical stock below zero.
var ErrNegativeStock = errors.New("operation would result in negative stock")

// ErrConcurrency indicates lock or serialization contention; the whole posting was rolled
// back and may be retried.
var ErrConcurrency = errors.New("concurrent modification detected")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with an HTTP-ish status code and a message.
// Repositories use it for infrastructure failures that have no sentinel of their own.
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

// NewNotFoundError creates an AppError that matches ErrNotFound via errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
