package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP statuses.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error is a failure whose Message is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func authError(msg string) error {
	return &Error{Kind: ErrAuth, Message: msg}
}

func notFoundError(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func conflictError(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}
