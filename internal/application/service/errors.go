package service

import (
	"errors"
	"fmt"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
)

// Kind classifies business errors so the transport layer can map them
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindConflict            Kind = "CONFLICT"
	KindInvalidState        Kind = "INVALID_STATE"
	KindMissingField        Kind = "MISSING_FIELD"
	KindInsufficientPayment Kind = "INSUFFICIENT_PAYMENT"
	KindEmptyAccount        Kind = "EMPTY_ACCOUNT"
	KindInvalidInput        Kind = "INVALID_INPUT"
)

// Error is a synchronous, non-retryable business error carrying enough context
// to render a user-facing message
type Error struct {
	Kind   Kind
	Entity string
	ID     string
	State  string
	Msg    string
	Err    error
}

// Sentinels for errors.Is; they match any Error of the same kind
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrConflict            = &Error{Kind: KindConflict}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrMissingField        = &Error{Kind: KindMissingField}
	ErrInsufficientPayment = &Error{Kind: KindInsufficientPayment}
	ErrEmptyAccount        = &Error{Kind: KindEmptyAccount}
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
)

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Entity != "" {
		msg = fmt.Sprintf("%s: %s %s", msg, e.Entity, e.ID)
	}
	if e.State != "" {
		msg = fmt.Sprintf("%s (status %s)", msg, e.State)
	}
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of a business error, or "" for anything else
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func notFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Msg: "not found"}
}

func invalidState(entity, id, state, msg string) error {
	return &Error{Kind: KindInvalidState, Entity: entity, ID: id, State: state, Msg: msg}
}

func missingField(entity, id, msg string) error {
	return &Error{Kind: KindMissingField, Entity: entity, ID: id, Msg: msg}
}

// staleOrConflict translates store write errors into business conflicts
func staleOrConflict(entity, id string, err error) error {
	switch {
	case errors.Is(err, port.ErrStaleWrite):
		return &Error{Kind: KindConflict, Entity: entity, ID: id, Msg: "modified concurrently, retry", Err: err}
	case errors.Is(err, port.ErrDuplicate):
		return &Error{Kind: KindConflict, Entity: entity, ID: id, Msg: "already exists", Err: err}
	default:
		return err
	}
}

func invalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}
