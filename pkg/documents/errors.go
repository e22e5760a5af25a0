package documents

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel failures callers branch on. ErrUnauthorized is the one error class
// with a global side effect: callers are expected to drop the session and
// send the user back to sign-in.
var (
	ErrNotFound     = errors.New("documents: not found")
	ErrUnauthorized = errors.New("documents: unauthorized")
)

// StatusError carries a non-2xx upstream status that is neither a 401 nor a
// 404. The upstream code is preserved so user-facing messaging can include it.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("documents: upstream status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("documents: upstream status %d: %s", e.Code, http.StatusText(e.Code))
}

// StatusCode reports the upstream HTTP status.
func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// statusToError maps an upstream status plus optional error message into the
// gateway's typed failures.
func statusToError(code int, message string) error {
	switch code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{Code: code, Message: message}
	}
}
