// Package common holds constants and error types shared by the client and
// the server. Callers match sentinel errors with errors.Is and inspect
// ValidationError with errors.As.
package common

import "fmt"

// MinPasswordLength applies on both sides: the client rejects short
// passwords before any network call, the server rejects them on signup.
const MinPasswordLength = 6

// ValidationError is a client-side input rejection. It blocks the action it
// guards and never reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
