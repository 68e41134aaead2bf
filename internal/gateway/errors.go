package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Gateway errors.
var (
	// ErrNoToken is returned for an authenticated call when no access token
	// is stored. No request is sent.
	ErrNoToken = errors.New("no access token")

	// ErrTransport wraps network failures (connection refused, reset, DNS).
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse wraps a 2xx response whose body is not the
	// expected JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a non-2xx response from the backend. Message is the
// server-supplied message, empty when the body had none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsUnavailable reports whether err means the backend could not serve the
// request at all: a transport failure, a 5xx, or an unreadable body.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrMalformedResponse) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError
}

// Message returns the server-supplied message carried by err, or fallback
// when there is none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
