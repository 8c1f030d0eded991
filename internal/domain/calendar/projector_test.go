package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func eventFixture(kind Kind, cancelled bool) Event {
	return Event{
		ID:         uuid.New(),
		SubjectID:  uuid.New(),
		ResourceID: uuid.New(),
		Start:      time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 1, 8, 9, 30, 0, 0, time.UTC),
		Kind:       kind,
		Cancelled:  cancelled,
	}
}

func TestProjectNoFilterKeepsActive(t *testing.T) {
	events := []Event{eventFixture(KindBooking, false), eventFixture(KindVisit, false)}
	got := Project(events, Filter{})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestProjectHidesCancelledByDefault(t *testing.T) {
	events := []Event{eventFixture(KindBooking, true), eventFixture(KindBooking, false)}

	got := Project(events, Filter{})
	if len(got) != 1 || got[0].Cancelled {
		t.Fatalf("cancelled booking must be hidden by default, got %v", got)
	}

	got = Project(events, Filter{IncludeCancelled: true})
	if len(got) != 2 {
		t.Fatalf("IncludeCancelled must restore cancelled bookings, got %d", len(got))
	}
}

func TestProjectByResource(t *testing.T) {
	a := eventFixture(KindBooking, false)
	b := eventFixture(KindBooking, false)

	got := Project([]Event{a, b}, Filter{ResourceID: &a.ResourceID})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("resource filter returned %v, want only %s", got, a.ID)
	}
}

func TestProjectBySubjectAndResourceConjunction(t *testing.T) {
	a := eventFixture(KindBooking, false)
	b := eventFixture(KindBooking, false)
	// b shares a's resource but not its subject.
	b.ResourceID = a.ResourceID

	got := Project([]Event{a, b}, Filter{ResourceID: &a.ResourceID, SubjectID: &a.SubjectID})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("conjunction filter returned %v, want only %s", got, a.ID)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	events := []Event{eventFixture(KindBooking, true), eventFixture(KindBooking, false)}
	_ = Project(events, Filter{})
	if len(events) != 2 {
		t.Fatal("input slice must not shrink")
	}
}
