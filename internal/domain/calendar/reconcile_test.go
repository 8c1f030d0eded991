package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/domain/booking"
	"github.com/clinicops/console/internal/domain/visit"
)

var day = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

func activeBooking(start time.Time, d time.Duration) *booking.Booking {
	return &booking.Booking{
		ID:             uuid.New(),
		SubjectID:      uuid.New(),
		ResourceID:     uuid.New(),
		Start:          start,
		End:            start.Add(d),
		StatusSubject:  booking.StatusConfirmed,
		StatusResource: booking.StatusConfirmed,
	}
}

func linkedVisit(b *booking.Booking, start time.Time) *visit.Visit {
	id := b.ID
	return &visit.Visit{
		ID:         uuid.New(),
		SubjectID:  b.SubjectID,
		ResourceID: b.ResourceID,
		Start:      start,
		Duration:   30 * time.Minute,
		BookingID:  &id,
	}
}

func walkInVisit(start time.Time) *visit.Visit {
	return &visit.Visit{
		ID:         uuid.New(),
		SubjectID:  uuid.New(),
		ResourceID: uuid.New(),
		Start:      start,
		Duration:   20 * time.Minute,
		WalkIn:     true,
	}
}

func TestReconcileLinkedVisitFlipsAttendance(t *testing.T) {
	b := activeBooking(day.Add(9*time.Hour), 30*time.Minute)
	v := linkedVisit(b, b.Start)

	rec := Reconcile([]*booking.Booking{b}, []*visit.Visit{v})

	if len(rec.Events) != 1 {
		t.Fatalf("len(events) = %d, want 1 (linked visit must not project separately)", len(rec.Events))
	}
	e := rec.Events[0]
	if e.Kind != KindBooking || e.ID != b.ID {
		t.Errorf("event = %+v, want booking %s", e, b.ID)
	}
	if !e.Attended {
		t.Error("booking with a linked visit must show attended")
	}
	if got := rec.AttendedBookings[b.ID]; got != v.ID {
		t.Errorf("AttendedBookings[%s] = %s, want %s", b.ID, got, v.ID)
	}
	if len(rec.Conflicts) != 0 {
		t.Errorf("unexpected conflicts: %v", rec.Conflicts)
	}
}

func TestReconcileWalkInProjectsOwnEvent(t *testing.T) {
	b := activeBooking(day.Add(9*time.Hour), 30*time.Minute)
	w := walkInVisit(day.Add(11 * time.Hour))

	rec := Reconcile([]*booking.Booking{b}, []*visit.Visit{w})

	if len(rec.Events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(rec.Events))
	}
	var visitEvent *Event
	for i := range rec.Events {
		if rec.Events[i].Kind == KindVisit {
			visitEvent = &rec.Events[i]
		}
	}
	if visitEvent == nil {
		t.Fatal("walk-in visit must appear as its own event")
	}
	if !visitEvent.Attended || visitEvent.Cancelled {
		t.Errorf("walk-in event = %+v, want attended and not cancelled", visitEvent)
	}
	if rec.UnscheduledVisits[w.ID] == nil {
		t.Error("walk-in visit missing from UnscheduledVisits lookup")
	}
}

func TestReconcileDuplicateClaimsConflict(t *testing.T) {
	b := activeBooking(day.Add(9*time.Hour), 30*time.Minute)
	v1 := linkedVisit(b, b.Start)
	v2 := linkedVisit(b, b.Start)

	rec := Reconcile([]*booking.Booking{b}, []*visit.Visit{v1, v2})

	if len(rec.Conflicts) != 1 {
		t.Fatalf("len(conflicts) = %d, want 1", len(rec.Conflicts))
	}
	c := rec.Conflicts[0]
	if c.BookingID != b.ID || len(c.VisitIDs) != 2 {
		t.Errorf("conflict = %+v, want both visits against %s", c, b.ID)
	}
	// Last-processed visit wins the attendance link.
	if got := rec.AttendedBookings[b.ID]; got != v2.ID {
		t.Errorf("attendance winner = %s, want last-processed %s", got, v2.ID)
	}
	if !rec.Events[0].Attended {
		t.Error("conflicted booking still shows attended")
	}
}

func TestReconcileExcludesSuperseded(t *testing.T) {
	b := activeBooking(day.Add(9*time.Hour), 30*time.Minute)
	b.StatusResource = booking.StatusRescheduled

	rec := Reconcile([]*booking.Booking{b}, nil)
	if len(rec.Events) != 0 {
		t.Fatalf("superseded booking must not project, got %v", rec.Events)
	}
}

func TestReconcileKeepsCancelledBookings(t *testing.T) {
	b := activeBooking(day.Add(9*time.Hour), 30*time.Minute)
	b.StatusSubject = booking.StatusCancelled

	rec := Reconcile([]*booking.Booking{b}, nil)
	if len(rec.Events) != 1 {
		t.Fatalf("cancelled booking must stay in the reconciled set")
	}
	if !rec.Events[0].Cancelled {
		t.Error("event must carry the cancelled flag")
	}
}

func TestReconcileOrdersEventsByStart(t *testing.T) {
	late := activeBooking(day.Add(15*time.Hour), 30*time.Minute)
	early := activeBooking(day.Add(9*time.Hour), 30*time.Minute)
	w := walkInVisit(day.Add(11 * time.Hour))

	rec := Reconcile([]*booking.Booking{late, early}, []*visit.Visit{w})

	if len(rec.Events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(rec.Events))
	}
	for i := 1; i < len(rec.Events); i++ {
		if rec.Events[i].Start.Before(rec.Events[i-1].Start) {
			t.Fatalf("events out of order at %d: %v", i, rec.Events)
		}
	}
}

func TestReconcileEmptyInputs(t *testing.T) {
	rec := Reconcile(nil, nil)
	if len(rec.Events) != 0 || len(rec.Conflicts) != 0 {
		t.Errorf("empty inputs must reconcile to empty outputs, got %+v", rec)
	}
}
