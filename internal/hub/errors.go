package hub

import (
	"errors"
	"fmt"
)

// Error codes carried over the wire and matched by clients.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeNoActiveSession = "noActiveSession"
	CodeNotFound        = "notFound"
	CodeForbidden       = "forbidden"
	CodeInvalidArgument = "invalidArgument"
)

// Error is a hub domain error. Errors with the same code compare equal under
// errors.Is, so wrapped and decoded errors match the sentinels below.
type Error struct {
	Code    string `json:"errorType"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("hub: %s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for the hub contract.
var (
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated, Message: "sign-in required"}
	ErrNoActiveSession = &Error{Code: CodeNoActiveSession, Message: "no active game session"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrForbidden       = &Error{Code: CodeForbidden, Message: "forbidden"}
)

// Errorf builds a coded error with a formatted message.
func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsUnauthenticated returns true if the caller must sign in first.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsNoActiveSession returns true if the call needs an open game session.
func IsNoActiveSession(err error) bool {
	return errors.Is(err, ErrNoActiveSession)
}

// IsNotFound returns true if the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden returns true if the caller lacks the required role.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsInvalidArgument returns true for malformed or out-of-range requests.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, &Error{Code: CodeInvalidArgument})
}
