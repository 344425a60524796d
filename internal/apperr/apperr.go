// Package apperr defines the error kinds returned by the marketplace services.
//
// Services return values built with New; the HTTP layer maps the kind to a
// status code with errors.Is and shows the message to the caller. Errors that
// carry no kind are internal and are never shown verbatim.
package apperr

import "errors"

// Error kinds.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrValidation         = errors.New("validation failed")
)

// Error is a kinded error with a caller-facing message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error of the given kind.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// NotFound is shorthand for New(ErrNotFound, what+" not found").
func NotFound(what string) error {
	return New(ErrNotFound, what+" not found")
}

// Forbidden is shorthand for New(ErrForbidden, message).
func Forbidden(message string) error {
	return New(ErrForbidden, message)
}

// Validation is shorthand for New(ErrValidation, message).
func Validation(message string) error {
	return New(ErrValidation, message)
}

// InvalidOperation is shorthand for New(ErrInvalidOperation, message).
func InvalidOperation(message string) error {
	return New(ErrInvalidOperation, message)
}

// IsKinded reports whether err carries one of the known kinds.
func IsKinded(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
