package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that an operation is not legal in the entity's current state.
var ErrConflict = errors.New("state conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure that should not be exposed in detail.
var ErrInternal = errors.New("internal error")

// StateError reports an illegal state transition with the current and required states,
// so callers can tell "not allowed right now" apart from "nothing to operate on".
type StateError struct {
	Entity   string
	Current  string
	Required string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s is %s, expected %s", e.Entity, e.Current, e.Required)
}

// Unwrap makes errors.Is(err, ErrConflict) true for every StateError.
func (e *StateError) Unwrap() error {
	return ErrConflict
}

// NewStateError builds a StateError for an entity whose current state forbids the operation.
func NewStateError(entity, current, required string) *StateError {
	return &StateError{Entity: entity, Current: current, Required: required}
}

// AppError carries an HTTP-ish status code alongside the underlying cause.
// Used mainly by persistence adapters for unexpected failures.
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

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
