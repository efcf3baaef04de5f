package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the request never produced an HTTP response:
	// connection refused, DNS failure, timeout.
	ErrUnavailable = errors.New("api unavailable")

	// ErrUnauthorized is returned for every 401, after the unauthorized
	// policy has run. Callers must not retry the request.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is a non-401 endpoint rejection, carrying the HTTP status and
// the server's message so callers can surface it verbatim.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Code, e.Message)
}
