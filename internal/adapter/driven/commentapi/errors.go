package commentapi

import (
	"fmt"
	"net/http"
)

// TransportError reports that a request never produced an HTTP response
// (DNS, connection refused, timeout, canceled context).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response. Message is the service's error
// field when present, otherwise the trimmed body.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// IsClientError reports whether the service rejected the request itself (4xx).
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// DecodeError reports a 2xx response whose body was not a JSON comment array.
type DecodeError struct {
	Method string
	URL    string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decoding response: %v", e.Method, e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Rejection returns the service's message when it rejected the request (4xx)
// and said why.
func (e *StatusError) Rejection() (string, bool) {
	if !e.IsClientError() || e.Message == "" {
		return "", false
	}
	return e.Message, true
}
