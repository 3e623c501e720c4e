// Package errors provides an API for errors across the application.
package errors

import "strings"

type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

// IsConnectionError reports whether an error from a remote mail server
// looks like a connectivity problem rather than a protocol rejection.
func IsConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout")
}
