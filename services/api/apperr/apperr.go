// Package apperr defines the closed set of failure kinds the reporting
// endpoints surface to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for translation at the HTTP boundary.
type Kind string

const (
	// KindNotFound means the data source is absent or holds no rows.
	KindNotFound Kind = "not-found"
	// KindProcessing covers every other load or compute failure.
	KindProcessing Kind = "processing"
)

// Error carries a kind and the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, ErrNotFound)
// works for any NotFound error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrProcessing = &Error{Kind: KindProcessing}
)

// NotFound wraps err (may be nil) as a NotFound failure.
func NotFound(msg string, err error) error {
	return &Error{Kind: KindNotFound, Msg: msg, Err: err}
}

// Processing wraps err (may be nil) as a Processing failure.
func Processing(msg string, err error) error {
	return &Error{Kind: KindProcessing, Msg: msg, Err: err}
}

// Processingf formats a Processing failure without a cause.
func Processingf(format string, args ...any) error {
	return &Error{Kind: KindProcessing, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err. Errors that were never classified are
// processing failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProcessing
}
