package provider

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the request-count window limiter trips.
// No request is sent in that case. Callers detect it with errors.Is.
var ErrRateLimited = errors.New("rate limit exceeded, wait before making more requests")

// RequestError wraps a failed provider call with the endpoint that failed.
// Transport failures, non-2xx responses and provider-reported error fields
// all surface as a RequestError.
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("provider request %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
