// Package apperr defines the error kinds shared by the repository, service and handler layers.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("duplicate")
	ErrSelfReference = errors.New("self reference")
	ErrAuth          = errors.New("authentication failed")
	ErrForbidden     = errors.New("forbidden")
	ErrInternal      = errors.New("internal error")
)

// Error carries a human readable message and unwraps to its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Duplicate(format string, args ...any) error {
	return newError(ErrDuplicate, format, args...)
}

func SelfReference(format string, args ...any) error {
	return newError(ErrSelfReference, format, args...)
}

func Auth(format string, args ...any) error {
	return newError(ErrAuth, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func Internal(format string, args ...any) error {
	return newError(ErrInternal, format, args...)
}

var kinds = []error{ErrValidation, ErrNotFound, ErrDuplicate, ErrSelfReference, ErrAuth, ErrForbidden, ErrInternal}

// Kind returns the kind err belongs to. Errors without a kind are internal.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// KindName returns a short machine readable name for the kind of err.
func KindName(err error) string {
	switch Kind(err) {
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrDuplicate:
		return "duplicate"
	case ErrSelfReference:
		return "self_reference"
	case ErrAuth:
		return "auth"
	case ErrForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}
