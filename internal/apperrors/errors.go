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

// ErrImmutable indicates a mutation was attempted on a posted cash memo.
var ErrImmutable = errors.New("cash memo is posted and can no longer be changed")

// ErrInvalidStateTransition indicates a lifecycle transition that is not allowed
// from the current state (posting a missing or already posted memo).
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrConflict indicates the stored version no longer matches the version the caller worked on.
var ErrConflict = errors.New("conflicting modification")

// ErrUpstream indicates a collaborator (database, cache, broker) failed or was unreachable.
var ErrUpstream = errors.New("upstream failure")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and a message alongside the wrapped cause.
// Repositories use it to wrap driver errors without leaking driver types to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Upstream wraps a collaborator failure so callers can match it with errors.Is(err, ErrUpstream)
// while still reaching the original cause.
func Upstream(message string, err error) error {
	return NewAppError(502, message, errors.Join(ErrUpstream, err))
}
