// Package errors provides error classification for the sync core.
//
// The outbox drain policy (continue past a corrupt local payload, halt the
// queue on a remote failure) is decided from these codes, never from error
// message text.
package errors

import "fmt"

// ErrorCode identifies a failure class.
type ErrorCode string

const (
	// ErrValidation marks missing required identifiers (owner id, token,
	// product id). Callers treat it as "nothing to do", not a fault.
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// ErrDecode marks corrupt locally-stored data, e.g. an outbox payload
	// that no longer parses as JSON.
	ErrDecode ErrorCode = "DECODE_ERROR"

	// ErrAuth marks a missing/expired bearer token rejected by the remote.
	ErrAuth ErrorCode = "AUTH_FAILED"

	// ErrNetwork marks a transport-level failure reaching the remote.
	ErrNetwork ErrorCode = "NETWORK_ERROR"

	// ErrServer marks a non-2xx response from the remote.
	ErrServer ErrorCode = "SERVER_ERROR"

	// ErrDatabase marks a local store failure.
	ErrDatabase ErrorCode = "DATABASE_ERROR"
)

// AppError is an error with a failure class, an optional HTTP status and an
// optional server-provided detail message.
type AppError struct {
	Code   ErrorCode
	Status int    // HTTP status for ErrServer/ErrAuth, zero otherwise
	Detail string // server-provided detail message, if any
	Err    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("[%s] %s", e.Code, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %v", e.Code, e.Err)
	default:
		return string(e.Code)
	}
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a detail message.
func New(code ErrorCode, detail string) *AppError {
	return &AppError{Code: code, Detail: detail}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, err error) *AppError {
	return &AppError{Code: code, Err: err}
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// CodeOf returns the error's code, or ErrNetwork for untyped errors: an
// unclassified failure during a remote call is treated as transport-level so
// the drain halts rather than burning through the queue.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrNetwork
}

// Message extracts the text recorded on a failed outbox row: the
// server-provided detail if present, otherwise the transport error message,
// otherwise a generic string.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		if appErr.Detail != "" {
			return appErr.Detail
		}
		if appErr.Err != nil {
			return appErr.Err.Error()
		}
		return string(appErr.Code)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "request failed"
}
