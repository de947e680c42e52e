// Package apperrors defines the error taxonomy shared by all handlers.
// Every failure a client can see is one of these kinds; anything else is
// classified Internal and only logged server-side.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvalidState
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, never shown to clients
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuthentication:
		return fiber.StatusUnauthorized
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindInvalidState:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(msg string) *Error     { return &Error{Kind: KindValidation, Message: msg} }
func Authentication(msg string) *Error { return &Error{Kind: KindAuthentication, Message: msg} }
func Authorization(msg string) *Error  { return &Error{Kind: KindAuthorization, Message: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error       { return &Error{Kind: KindConflict, Message: msg} }
func InvalidState(msg string) *Error   { return &Error{Kind: KindInvalidState, Message: msg} }

// Internal wraps an unexpected error behind a stable client message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Something went wrong!", Err: err}
}

// As extracts an *Error from err, or wraps err as Internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
