package calendar

import "github.com/google/uuid"

// Filter narrows the unified event set for display. Nil id filters match
// everything; filters compose by conjunction. IncludeCancelled is a
// visibility toggle layered on top: it only ever affects bookings, because
// walk-in visit events carry no cancellation state.
type Filter struct {
	ResourceID       *uuid.UUID
	SubjectID        *uuid.UUID
	IncludeCancelled bool
}

// Project applies the filter without mutating the underlying events.
func Project(events []Event, f Filter) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.ResourceID != nil && e.ResourceID != *f.ResourceID {
			continue
		}
		if f.SubjectID != nil && e.SubjectID != *f.SubjectID {
			continue
		}
		if e.Cancelled && e.Kind == KindBooking && !f.IncludeCancelled {
			continue
		}
		out = append(out, e)
	}
	return out
}
