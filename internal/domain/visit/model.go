// Package visit holds attendance records: a visit is proof that a patient
// actually showed up, either against a booking or as a walk-in.
package visit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Visit is a record of actual attendance. BookingID links it to the booking
// it attends; a nil BookingID marks an unscheduled walk-in with its own
// calendar presence. Visits are owned by the records API; the engine only
// submits intended transitions.
type Visit struct {
	ID         uuid.UUID
	SubjectID  uuid.UUID
	ResourceID uuid.UUID
	Start      time.Time
	Duration   time.Duration
	BookingID  *uuid.UUID

	WalkIn               bool
	Penalty              bool
	ReduceServiceBalance bool
}

// End returns when the visit finished.
func (v *Visit) End() time.Time {
	return v.Start.Add(v.Duration)
}

// IsLinked reports whether the visit attends a booking.
func (v *Visit) IsLinked() bool {
	return v.BookingID != nil
}

// Validate checks input shape before any network call.
func (v *Visit) Validate() error {
	if v.SubjectID == uuid.Nil {
		return fmt.Errorf("subject_id is required")
	}
	if v.ResourceID == uuid.Nil {
		return fmt.Errorf("resource_id is required")
	}
	if v.Start.IsZero() {
		return fmt.Errorf("start is required")
	}
	if v.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if v.WalkIn && v.BookingID != nil {
		return fmt.Errorf("a walk-in visit cannot reference a booking")
	}
	return nil
}
