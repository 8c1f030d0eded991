// Package calendar derives the unified timeline the console displays:
// bookings and walk-in visits merged into one de-duplicated, attendance-
// annotated event set, with read-side filters layered on top. Everything
// here is a pure projection: nothing is persisted, everything is
// regenerated per fetch cycle.
package calendar

import (
	"time"

	"github.com/google/uuid"
)

// Kind says which record backs an event.
type Kind string

const (
	KindBooking Kind = "booking"
	KindVisit   Kind = "visit"
)

// Event is the derived, read-only projection unifying a booking or an
// unscheduled visit for display.
type Event struct {
	ID         uuid.UUID `json:"id"`
	SubjectID  uuid.UUID `json:"patient_id"`
	ResourceID uuid.UUID `json:"employee_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Kind       Kind      `json:"kind"`
	Attended   bool      `json:"attended"`
	Cancelled  bool      `json:"cancelled"`
}
