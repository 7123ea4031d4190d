package grokipedia

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dgallion1/grokmcp/internal/truncate"
)

// maxErrorBody caps how much of an error response is kept, in characters.
const maxErrorBody = 1024

var (
	// ErrBadRequest is returned when the upstream rejects the request parameters.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound is returned when the upstream reports an unknown resource.
	ErrNotFound = errors.New("not found")
)

// NetworkError wraps a transport failure: the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is any other failure reported by the upstream.
type APIError struct {
	Op         string
	StatusCode int // 0 when the response could not be decoded
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode >= 500
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// statusError classifies a non-2xx response.
func statusError(op string, status int, body []byte) error {
	msg := truncate.Prefix(string(body), maxErrorBody)
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return &APIError{Op: op, StatusCode: status, Message: msg}
}
