// Package booking implements the appointment lifecycle: create, reschedule,
// cancel and delete, with scoped bulk operations over recurring series.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/recurrence"
)

// Status is one actor's standing on a booking. The patient side and the
// employee side each run their own small state machine: Pending → Confirmed,
// any → Cancelled, any → Rescheduled. Cancelled and Rescheduled are terminal.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusRescheduled
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusConfirmed:
		return s == StatusPending
	case StatusCancelled, StatusRescheduled:
		return true
	default:
		return false
	}
}

// ParseStatus validates a wire status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRescheduled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

// Booking is a scheduled appointment between a subject (patient) and a
// resource (employee). Owned by the records API; the engine computes
// transitions and re-derives state from responses.
type Booking struct {
	ID         uuid.UUID
	SubjectID  uuid.UUID
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	ServiceID  *uuid.UUID

	StatusSubject  Status
	StatusResource Status

	Recurrence *recurrence.Rule
	Attended   bool
}

// EffectiveStatus collapses the two per-actor machines into the single
// display status the console shows. Either side cancelling or rescheduling
// dominates; Confirmed requires both sides.
func (b *Booking) EffectiveStatus() Status {
	switch {
	case b.StatusSubject == StatusCancelled || b.StatusResource == StatusCancelled:
		return StatusCancelled
	case b.StatusSubject == StatusRescheduled || b.StatusResource == StatusRescheduled:
		return StatusRescheduled
	case b.StatusSubject == StatusConfirmed && b.StatusResource == StatusConfirmed:
		return StatusConfirmed
	default:
		return StatusPending
	}
}

// Cancelled reports whether either actor has cancelled.
func (b *Booking) Cancelled() bool {
	return b.StatusSubject == StatusCancelled || b.StatusResource == StatusCancelled
}

// Superseded reports whether the booking has been replaced by a reschedule
// and is retained for history only.
func (b *Booking) Superseded() bool {
	return b.StatusSubject == StatusRescheduled || b.StatusResource == StatusRescheduled
}

// Candidate is the input to Create.
type Candidate struct {
	SubjectID  uuid.UUID
	ResourceID uuid.UUID
	Start      time.Time
	End        time.Time
	ServiceID  *uuid.UUID
	Recurrence *recurrence.Rule

	// CollisionAllow is a clinic policy flag passed through to the store;
	// overlap arbitration between bookings happens server-side.
	CollisionAllow bool
}

// Validate checks input shape before any network call.
func (c *Candidate) Validate() error {
	if c.SubjectID == uuid.Nil {
		return fmt.Errorf("subject_id is required")
	}
	if c.ResourceID == uuid.Nil {
		return fmt.Errorf("resource_id is required")
	}
	if c.Start.IsZero() || c.End.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if !c.End.After(c.Start) {
		return fmt.Errorf("end must be after start")
	}
	return c.Recurrence.Validate()
}

// CancelScope selects the breadth of a cancel over a recurring series.
type CancelScope string

const (
	CancelThisOnly      CancelScope = "this_only"
	CancelThisAndFuture CancelScope = "this_and_future"
	CancelAll           CancelScope = "all"
	CancelUntilDate     CancelScope = "until_date"
)

// ParseCancelScope validates a wire scope value.
func ParseCancelScope(s string) (CancelScope, error) {
	switch CancelScope(s) {
	case CancelThisOnly, CancelThisAndFuture, CancelAll, CancelUntilDate:
		return CancelScope(s), nil
	default:
		return "", fmt.Errorf("unknown cancel scope %q", s)
	}
}

// DeleteScope selects the breadth of a hard delete.
type DeleteScope string

const (
	DeleteSingleOccurrence DeleteScope = "single_occurrence"
	DeleteEntireRecurrence DeleteScope = "entire_recurrence"
)

// ParseDeleteScope validates a wire scope value.
func ParseDeleteScope(s string) (DeleteScope, error) {
	switch DeleteScope(s) {
	case DeleteSingleOccurrence, DeleteEntireRecurrence:
		return DeleteScope(s), nil
	default:
		return "", fmt.Errorf("unknown delete scope %q", s)
	}
}

// SeriesOverrides optionally replaces parts of the template when copying a
// recurring series. Nil fields keep the template's values.
type SeriesOverrides struct {
	Weekdays   []time.Weekday
	Duration   *time.Duration
	ServiceID  *uuid.UUID
	Sessions   *int // replaces the end-date bound with a session count
	SubjectID  *uuid.UUID
	ResourceID *uuid.UUID
}

// ErrCannotDeleteAttended refuses hard deletion of a booking that has a
// linked visit; attendance history must survive.
var ErrCannotDeleteAttended = errors.New("cannot delete an attended booking")
