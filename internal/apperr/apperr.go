// Package apperr defines the error taxonomy shared by services and handlers.
// Services return these; handlers map them to HTTP statuses without inspecting
// message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Validation: missing or malformed caller input (400).
	Validation Kind = iota
	// NotFound: no matching record (404).
	NotFound
	// Conflict: a state precondition was violated (409).
	Conflict
	// Store: the underlying data-store call failed (500).
	Store
	// Consistency: a multi-step write partially completed (500, but the
	// wording must make the partial state visible to operators).
	Consistency
)

type Error struct {
	Kind   Kind
	Msg    string
	Detail any
	Err    error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// WithDetail attaches structured detail (e.g. field violations).
func (e *Error) WithDetail(d any) *Error {
	e.Detail = d
	return e
}

// Status maps an error to an HTTP status code. Unknown errors are treated as
// store failures.
func Status(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// As extracts the typed error, if present.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
