// Package apperr defines the closed set of error kinds the lifecycle
// services return. Handlers map kinds to HTTP status codes at the boundary;
// nothing below the handler layer ever inspects an error message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindInvalidState
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_error"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Msg  string
	// CurrentState carries the entity's state on invalid-transition errors
	// so the client can tell "not yet" from "never".
	CurrentState string
}

func (e *Error) Error() string {
	if e.CurrentState != "" {
		return fmt.Sprintf("%s: %s (current state %s)", e.Kind, e.Msg, e.CurrentState)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Msg: entity + " not found"}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

func InvalidState(msg, current string) *Error {
	return &Error{Kind: KindInvalidState, Msg: msg, CurrentState: current}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// KindOf returns the taxonomy kind of err, or KindUnknown for any error
// outside the taxonomy (treated as an internal failure by handlers).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus is the single place taxonomy kinds become transport codes.
// Duplicates surface as 400 to match the public API contract; idempotent
// operations never reach this mapping because they return the existing record.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindInvalidState, KindConflict, KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
