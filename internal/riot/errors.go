package riot

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is a transport-level failure (DNS, refused connection, timeout).
// URL has the api_key already redacted.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("riot request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx response from the API
type UpstreamError struct {
	Status int
	Body   string
	URL    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("riot api status %d: %s", e.Status, e.Body)
}

// MalformedResponseError is a body that could not be decoded or lacks a required field
type MalformedResponseError struct {
	What string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response (%s): %v", e.What, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.What)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Malformed builds a MalformedResponseError for a missing field
func Malformed(format string, args ...any) error {
	return &MalformedResponseError{What: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is an upstream 404 (unknown summoner, match, etc.)
func IsNotFound(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Status == http.StatusNotFound
}
