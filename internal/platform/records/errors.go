package records

import (
	"errors"
	"fmt"
)

// Failures coming back from the records API are mapped onto this taxonomy so
// callers branch with errors.Is / errors.As instead of inspecting status
// codes or payload strings.

// ErrNotFound reports an operation against a stale or deleted record id.
var ErrNotFound = errors.New("record not found")

// ErrSessionExpired reports a rejected credential. It is surfaced distinctly
// so the console can redirect to re-authentication instead of showing a
// generic error.
var ErrSessionExpired = errors.New("session expired")

// ConflictError is a store-side collision, e.g. an employee already booked
// when collision_allow is off. Message carries the store's human-readable
// reason.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// ValidationError is a store-side input rejection, e.g. "end before start".
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}
