package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound indicates a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates required fields are missing or malformed. It is
// raised before any network call and never propagates past the handler.
type ErrValidation struct {
	Fields []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// ErrInvalidStateTransition indicates an illegal wizard or status transition
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrSubmissionInFlight indicates a checkout submission is already running
// for the session; the caller must wait for it to settle before retrying.
type ErrSubmissionInFlight struct{}

func (e *ErrSubmissionInFlight) Error() string {
	return "checkout submission already in flight"
}
