package screener

import (
	"fmt"
)

// APIError is a non-2xx answer from the ranking service. Message is the
// service's own text when it sent one, otherwise a generic text naming the
// status code.
type APIError struct {
	StatusCode int
	Message    string
	Structured bool
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError means the service could not be reached or the response
// could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach the ranking service: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a 2xx answer whose body is not a candidate list.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ranking service returned a malformed response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("ranking service returned a malformed response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
