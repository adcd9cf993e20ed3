package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any Failure with a 401 status.
// Use errors.Is(err, ErrUnauthorized) to check for rejected credentials.
var ErrUnauthorized = errors.New("auth: authentication failed (401 Unauthorized)")

// Failure reports a rejection from the remote endpoint.
type Failure struct {
	// Message is the human-readable reason.
	Message string

	// StatusCode is the HTTP status returned by the endpoint.
	StatusCode int

	// Body is the raw response body.
	Body string
}

// NewFailure creates a Failure.
func NewFailure(msg string, status int, body string) *Failure {
	return &Failure{
		Message:    msg,
		StatusCode: status,
		Body:       body,
	}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%d %s: %s", f.StatusCode, f.Message, f.Body)
}

// Is reports whether target is ErrUnauthorized and the status is 401.
func (f *Failure) Is(target error) bool {
	return target == ErrUnauthorized && f.StatusCode == http.StatusUnauthorized
}

// IsFailure returns true if the error is a Failure.
func IsFailure(err error) bool {
	var f *Failure
	return errors.As(err, &f)
}

// AsFailure returns the Failure wrapped in err, if any.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
