package client

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by HTTPClient matches exactly one of
// these with errors.Is.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrRateLimited   = errors.New("rate limited")
	ErrServer        = errors.New("server error")
	ErrUnavailable   = errors.New("server unavailable")
	ErrBusiness      = errors.New("business failure")
	ErrRequestFailed = errors.New("request failed")
	ErrDecode        = errors.New("malformed response")
)

// Error is a classified call failure. Message is the user-facing text and
// is what Error returns.
type Error struct {
	Kind    error
	Status  int // HTTP status, 0 when no response was received
	Code    int // envelope code of a business failure
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Detail renders the kind and status for logs.
func (e *Error) Detail() string {
	if e.Status == 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%v (status %d): %s", e.Kind, e.Status, e.Message)
}

// kindForStatus maps a non-2xx HTTP status onto a failure kind.
func kindForStatus(status int) error {
	switch {
	case status == 401:
		return ErrUnauthorized
	case status == 403:
		return ErrForbidden
	case status == 404:
		return ErrNotFound
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	}
	return ErrRequestFailed
}
