package calendar

import (
	"sort"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/domain/booking"
	"github.com/clinicops/console/internal/domain/visit"
)

// Conflict reports two or more visits claiming the same booking. The input
// should never contain this, but it is not validated upstream; rather than
// silently overwriting, the collision is surfaced for caller-side review.
type Conflict struct {
	BookingID uuid.UUID   `json:"booking_id"`
	VisitIDs  []uuid.UUID `json:"visit_ids"`
}

// Reconciliation is the result of merging the two event sources.
type Reconciliation struct {
	// Events is the unified set, ordered by start time.
	Events []Event
	// AttendedBookings maps each attended booking id to the visit that
	// attends it (the last-processed visit when duplicates conflict).
	AttendedBookings map[uuid.UUID]uuid.UUID
	// UnscheduledVisits maps walk-in event ids back to their visit.
	UnscheduledVisits map[uuid.UUID]*visit.Visit
	// Conflicts lists bookings claimed by more than one visit.
	Conflicts []Conflict
}

// Reconcile merges independently fetched bookings and visits into one
// unified event set. Pure: it never mutates its inputs and is recomputed
// from fresh snapshots after every lifecycle mutation rather than patched
// incrementally.
//
// Linked visits are not projected on their own: they flip their booking's
// attended flag and the booking supplies the calendar entry. Unscheduled
// visits each become their own event. Bookings superseded by a reschedule
// are excluded from the set entirely.
func Reconcile(bookings []*booking.Booking, visits []*visit.Visit) Reconciliation {
	rec := Reconciliation{
		AttendedBookings:  make(map[uuid.UUID]uuid.UUID),
		UnscheduledVisits: make(map[uuid.UUID]*visit.Visit),
	}

	claims := make(map[uuid.UUID][]uuid.UUID)
	var unscheduled []*visit.Visit
	for _, v := range visits {
		if v.IsLinked() {
			claims[*v.BookingID] = append(claims[*v.BookingID], v.ID)
			// Last-processed visit wins the attendance link.
			rec.AttendedBookings[*v.BookingID] = v.ID
		} else {
			unscheduled = append(unscheduled, v)
		}
	}
	for bookingID, visitIDs := range claims {
		if len(visitIDs) > 1 {
			rec.Conflicts = append(rec.Conflicts, Conflict{BookingID: bookingID, VisitIDs: visitIDs})
		}
	}
	sort.Slice(rec.Conflicts, func(i, j int) bool {
		return rec.Conflicts[i].BookingID.String() < rec.Conflicts[j].BookingID.String()
	})

	for _, b := range bookings {
		if b.Superseded() {
			continue
		}
		_, attended := rec.AttendedBookings[b.ID]
		rec.Events = append(rec.Events, Event{
			ID:         b.ID,
			SubjectID:  b.SubjectID,
			ResourceID: b.ResourceID,
			Start:      b.Start,
			End:        b.End,
			Kind:       KindBooking,
			Attended:   attended || b.Attended,
			Cancelled:  b.Cancelled(),
		})
	}

	for _, v := range unscheduled {
		rec.UnscheduledVisits[v.ID] = v
		rec.Events = append(rec.Events, Event{
			ID:         v.ID,
			SubjectID:  v.SubjectID,
			ResourceID: v.ResourceID,
			Start:      v.Start,
			End:        v.End(),
			Kind:       KindVisit,
			Attended:   true,
			Cancelled:  false,
		})
	}

	sort.SliceStable(rec.Events, func(i, j int) bool {
		return rec.Events[i].Start.Before(rec.Events[j].Start)
	})
	return rec
}
