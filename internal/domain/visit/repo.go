package visit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the visit store collaborator. The authoritative copy lives
// behind the records API; see repo_records.go.
type Repository interface {
	Create(ctx context.Context, v *Visit) (*Visit, error)
	// Cancel revokes a visit with a reason. Cancelling an unknown id is a
	// NotFound failure, never silently ignored.
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	// List returns visits whose start falls inside [from, to).
	List(ctx context.Context, from, to time.Time) ([]*Visit, error)
}
