package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
	ErrBadRequest       = errors.New("bad request")
	ErrInternal         = errors.New("internal error")
)

// Error carries a kind, a message safe to show to clients and the
// underlying cause, if any.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// PublicMessage returns the part of err that may be sent to a client.
func PublicMessage(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "internal server error"
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func invalidReference(format string, args ...any) error {
	return newError(ErrInvalidReference, format, args...)
}

func badRequest(format string, args ...any) error {
	return newError(ErrBadRequest, format, args...)
}

// storeError classifies an error returned by gorm. Record-not-found and
// constraint errors keep their meaning; everything else is internal.
func storeError(err error, format string, args ...any) error {
	e := newError(ErrInternal, format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		e.Kind = ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		e.Kind = ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		e.Kind = ErrInvalidReference
	default:
		e.Cause = err
	}
	return e
}
