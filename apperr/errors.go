package apperr

import (
	"fmt"
)

// Kind represents the category of a pipeline error.
type Kind string

const (
	KindFetch       Kind = "FETCH_ERROR"
	KindValidation  Kind = "VALIDATION_ERROR"
	KindParse       Kind = "PARSE_ERROR"
	KindPersistence Kind = "PERSISTENCE_ERROR"
)

// Sentinels for errors.Is checks. Any *Error of the same Kind matches.
var (
	ErrFetch       = &Error{Kind: KindFetch}
	ErrValidation  = &Error{Kind: KindValidation}
	ErrParse       = &Error{Kind: KindParse}
	ErrPersistence = &Error{Kind: KindPersistence}
)

// Error is an application error with its kind, the failing operation and
// an optional cause.
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Fetch creates a transport-level error. status is 0 when no response arrived.
func Fetch(op string, status int, cause error) *Error {
	msg := "request failed"
	if status != 0 {
		msg = "unexpected response"
	}
	return &Error{Kind: KindFetch, Op: op, Message: msg, StatusCode: status, Cause: cause}
}

// Validation creates an error for input rejected before any side effect.
func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Parse creates an error for a malformed provider payload.
func Parse(op, message string, cause error) *Error {
	return &Error{Kind: KindParse, Op: op, Message: message, Cause: cause}
}

// Persistence creates an error for a failed unit of work.
func Persistence(op string, cause error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Message: "transaction rolled back", Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
