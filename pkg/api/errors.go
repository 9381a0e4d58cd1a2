package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when an endpoint answers 401 or 403.
// This typically means the bearer token is invalid or expired. Never
// retried.
var ErrUnauthorized = errors.New("unauthorized")

// NetworkError covers transport failures and unexpected response
// statuses. The fetcher retries these a bounded number of times before
// surfacing one.
type NetworkError struct {
	URL        string
	StatusCode int // zero when the request never produced a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError marks a response body that is not the JSON the endpoint
// promised. Never retried.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// maxErrorBody bounds how much of a response body gets quoted in a
// NetworkError message.
const maxErrorBody = 200

// clipBody shortens a response body for quoting in an error message.
func clipBody(body string) string {
	if len(body) <= maxErrorBody {
		return body
	}
	return body[:maxErrorBody-3] + "..."
}
