package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the booking store collaborator. The authoritative copy lives
// behind the records API (repo_records.go); tests substitute in-memory mocks.
// Scoped bulk operations are resolved server-side over the series the target
// occurrence belongs to.
type Repository interface {
	Create(ctx context.Context, c *Candidate) (*Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	// Reschedule replaces the target occurrence's timing going forward: the
	// store marks the predecessor Rescheduled and returns the successor.
	Reschedule(ctx context.Context, id uuid.UUID, newStart, newEnd time.Time) (*Booking, error)
	// Cancel applies the scope to the occurrence's series. till is required
	// for CancelUntilDate and ignored otherwise.
	Cancel(ctx context.Context, id uuid.UUID, scope CancelScope, till *time.Time) error
	// Delete hard-removes; irreversible.
	Delete(ctx context.Context, id uuid.UUID, scope DeleteScope) error
	// List returns occurrence bookings intersecting [from, to), optionally
	// filtered to one employee's calendar.
	List(ctx context.Context, from, to time.Time, resourceID *uuid.UUID, limit, offset int) ([]*Booking, int, error)
}
