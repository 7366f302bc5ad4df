// Package domainerrors defines the typed error values services return across
// module boundaries. Handlers translate codes to HTTP statuses; messages are
// stable and safe to surface to clients (internal errors omit them).
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies an error category. Codes are part of the API contract:
// clients branch on them (for example "expired" vs "invalid_state" at the
// gate), so they must stay stable.
type Code string

const (
	CodeBadRequest    Code = "bad_request"
	CodeUnauthorized  Code = "unauthorized"
	CodeForbidden     Code = "forbidden"
	CodeNotFound      Code = "not_found"
	CodeExpired       Code = "expired"
	CodeRateLimited   Code = "rate_limited"
	CodeInvalidState  Code = "invalid_state"
	CodeConfiguration Code = "configuration_error"
	CodeDependency    Code = "dependency_failed"
	CodeInternal      Code = "internal_error"
)

// Error carries a code, a client-safe message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a domain error with the given code and client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause is kept
// for logs and errors.Is checks but never serialized to clients.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for untyped
// errors so nothing leaks an unclassified failure to a client.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its transport status. Kept here, next to the
// codes, so the mapping cannot drift between handlers.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeExpired, CodeInvalidState:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
