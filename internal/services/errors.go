package services

import (
	"errors"
	"fmt"

	"github.com/campusboard/server/internal/store"
)

// Error kinds. Every error a service returns wraps exactly one of these.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrUnavailable    = errors.New("service unavailable")
	ErrUpstream       = errors.New("upstream failure")
	ErrInternal       = errors.New("internal error")
)

// Error carries a message that is safe to show to the user.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Message returns the user-facing text for err. Errors that did not come
// from a service get a generic message so internals never leak.
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "An unexpected error occurred."
}

// mapRepoError translates store errors into service errors.
func mapRepoError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return wrapError(ErrNotFound, notFoundMessage, err)
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return wrapError(ErrInternal, "An unexpected error occurred.", err)
}
