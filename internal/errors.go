package internal

import "fmt"

// ValidationError reports a caller input that failed a shape or membership
// check. It is always raised before any network call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// APIRequestError is returned whenever the Riot API answers with a non-200
// status. The numeric status is carried as a field so callers can branch on
// 404 vs 429 themselves; this layer does not distinguish them.
type APIRequestError struct {
	StatusCode int
	Message    string
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("Riot API request failed (Status %d): %s", e.StatusCode, e.Message)
}
