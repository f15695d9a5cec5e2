// Package errors carries the coded errors memgraph shows to users.
//
// Every failure that reaches a person (a CLI message, the viewer's error
// panel, a JSON error from the demo server) is an [*Error] with a [Code].
// The code decides how the failure is presented; the message is what the
// user reads; the cause keeps the low-level detail for logs.
//
//	err := errors.NewFetchError(cause, "GET %s", url)
//	errors.IsFetchError(err)   // true
//	errors.UserMessage(err)    // "GET http://..."
//	errors.HTTPStatus(err)     // 502
//
// Graph data problems that are dropped rather than reported (self-loops,
// dangling edges) are described by [Issue] instead.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"  // bad flag, query or request value
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"  // snapshot unusable as a whole
	ErrCodeInvalidFormat Code = "INVALID_FORMAT" // unknown output or file format
	ErrCodeInvalidConfig Code = "INVALID_CONFIG" // config file or layout parameters
	ErrCodeNodeNotFound  Code = "NODE_NOT_FOUND"
	ErrCodeFetch         Code = "FETCH_FAILED"
	ErrCodeUnsupported   Code = "UNSUPPORTED"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error that keeps cause in its chain.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err's chain holds an *Error with code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message without code or cause. Uncoded errors are
// returned as they print.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// NewFetchError wraps a failed graph request. Fetch failures put the view
// into its error state; nothing retries them.
func NewFetchError(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeFetch, cause, format, args...)
}

// IsFetchError reports whether err is a fetch failure.
func IsFetchError(err error) bool {
	return Is(err, ErrCodeFetch)
}

// HTTPStatus maps err to the status the graph endpoint answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeNodeNotFound:
		return http.StatusNotFound
	case ErrCodeFetch:
		return http.StatusBadGateway
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
