package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/domain/booking"
	"github.com/clinicops/console/internal/domain/visit"
	"github.com/clinicops/console/internal/platform/records"
)

// listCap bounds one timeline fetch. The calendar is a bounded window view,
// not a paginated listing.
const listCap = 1000

// Service derives the unified calendar. It holds no state of its own: every
// call refetches both sources and re-derives the projection, which keeps the
// booking and visit views from drifting apart.
type Service struct {
	bookings booking.Repository
	visits   visit.Repository
}

func NewService(bookings booking.Repository, visits visit.Repository) *Service {
	return &Service{bookings: bookings, visits: visits}
}

// Timeline is the read side: fetch both sources for the window, reconcile,
// project. Conflicts ride along for caller-side review.
type Timeline struct {
	Events    []Event
	Conflicts []Conflict
}

func (s *Service) Timeline(ctx context.Context, from, to time.Time, f Filter) (*Timeline, error) {
	rec, err := s.reconcileWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &Timeline{
		Events:    Project(rec.Events, f),
		Conflicts: rec.Conflicts,
	}, nil
}

// Revoke cancels the visit behind a calendar event: for an attended booking
// the linked visit is resolved through the reconciliation's reverse lookup;
// a walk-in event maps to its own visit. On success the booking reverts to
// unattended (or the walk-in event disappears) at the next derivation.
// An event id with no visit behind it is a NotFound failure.
func (s *Service) Revoke(ctx context.Context, from, to time.Time, eventID uuid.UUID, reason string) error {
	rec, err := s.reconcileWindow(ctx, from, to)
	if err != nil {
		return err
	}

	if visitID, ok := rec.AttendedBookings[eventID]; ok {
		return s.visits.Cancel(ctx, visitID, reason)
	}
	if v, ok := rec.UnscheduledVisits[eventID]; ok {
		return s.visits.Cancel(ctx, v.ID, reason)
	}
	return fmt.Errorf("no visit behind event %s: %w", eventID, records.ErrNotFound)
}

// RecordVisit submits a new attendance record (booking-linked or walk-in).
func (s *Service) RecordVisit(ctx context.Context, v *visit.Visit) (*visit.Visit, error) {
	if err := v.Validate(); err != nil {
		return nil, &records.ValidationError{Message: err.Error()}
	}
	return s.visits.Create(ctx, v)
}

func (s *Service) reconcileWindow(ctx context.Context, from, to time.Time) (*Reconciliation, error) {
	bookings, _, err := s.bookings.List(ctx, from, to, nil, listCap, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching bookings: %w", err)
	}
	visits, err := s.visits.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching visits: %w", err)
	}
	rec := Reconcile(bookings, visits)
	return &rec, nil
}
