package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API error carrying the envelope code and HTTP status.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error with the same code, so clones and wraps of
// ErrValidation still satisfy errors.Is(err, ErrValidation).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "no such route or directory entry")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "admin role required")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "bearer token required")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "invalid search parameters")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "search service error")
)

// ErrCacheMiss is returned by cache backends when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// IsCacheMiss reports whether err means the key was simply not cached.
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// Storage wraps a directory storage failure as an internal error naming the
// collection. Errors that are already *Error pass through unchanged.
func Storage(err error, collection string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, "failed to load "+collection)
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
