package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification. Callers may retry the operation.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure in a dependency.
var ErrInternal = errors.New("internal error")

// ErrInvalidState indicates an illegal state transition, e.g. posting an entry that is not a draft.
var ErrInvalidState = errors.New("invalid state transition")

// ErrReconciliationDiscrepancy is returned when a reconciliation cannot be completed
// because the statement and book balances disagree.
var ErrReconciliationDiscrepancy = errors.New("reconciliation discrepancy")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
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

// NewAppError creates an AppError. When err is nil the sentinel matching the code is wrapped
// so that errors.Is keeps working for callers.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil {
		err = sentinelForCode(code)
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError wrapping ErrNotFound for the given entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s %s not found", entity, id),
		Err:     ErrNotFound,
	}
}

// NewValidationError returns an AppError wrapping ErrValidation.
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrValidation,
	}
}

// IsRetryable reports whether err represents a transient concurrency conflict.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

func sentinelForCode(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusConflict:
		return ErrConflict
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusUnprocessableEntity:
		return ErrInvalidState
	default:
		return ErrInternal
	}
}
