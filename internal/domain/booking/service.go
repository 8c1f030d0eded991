package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/platform/records"
	"github.com/clinicops/console/internal/recurrence"
	"github.com/clinicops/console/internal/workinghours"
)

// guardHorizon bounds how far ahead a candidate series is expanded for
// working-hours validation. Four weeks covers every weekday of the pattern
// at least once; later occurrences repeat the same time-of-day.
const guardHorizon = 28 * 24 * time.Hour

// HoursProvider supplies an employee's working-hours schedule.
// *workinghours.Provider satisfies it.
type HoursProvider interface {
	Schedule(ctx context.Context, employeeID uuid.UUID) (*workinghours.WeekSchedule, error)
}

// Service is the booking lifecycle. It validates candidates against working
// hours, submits intended transitions to the store, and surfaces store
// rejections as typed failures. It never retries: retry is a caller decision.
type Service struct {
	repo  Repository
	hours HoursProvider
}

func NewService(repo Repository, hours HoursProvider) *Service {
	return &Service{repo: repo, hours: hours}
}

// Create validates the candidate and submits it. A break-time conflict on
// any expanded occurrence refuses the whole candidate; outside-hours and
// closed-day findings are returned as warnings for the caller to act on.
// Collision detection between overlapping bookings is the store's job; the
// collision_allow policy flag is passed through, never enforced locally.
func (s *Service) Create(ctx context.Context, c *Candidate) (*Booking, []*workinghours.Rejection, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, &records.ValidationError{Message: err.Error()}
	}

	warnings, err := s.guardCandidate(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	return created, warnings, nil
}

// Preview expands the candidate's occurrence timeline over [from, to)
// without touching the store, so the console can show the series before it
// is committed.
func (s *Service) Preview(c *Candidate, from, to time.Time) ([]recurrence.Occurrence, error) {
	if err := c.Validate(); err != nil {
		return nil, &records.ValidationError{Message: err.Error()}
	}
	return recurrence.Expand(c.Recurrence, c.Start, c.End, from, to), nil
}

// Reschedule replaces the single targeted occurrence's timing going forward.
// Rescheduling is never scoped over a series: the store produces a successor
// booking and retains the predecessor as Rescheduled for audit.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart, newEnd time.Time) (*Booking, []*workinghours.Rejection, error) {
	if !newEnd.After(newStart) {
		return nil, nil, &records.ValidationError{Message: "end must be after start"}
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	sched, err := s.hours.Schedule(ctx, current.ResourceID)
	if err != nil {
		return nil, nil, err
	}
	var warnings []*workinghours.Rejection
	if rej := workinghours.Validate(sched, newStart.Weekday(), newStart, newEnd); rej != nil {
		if rej.Reason == workinghours.ReasonBreakOverlap {
			return nil, nil, rej
		}
		warnings = append(warnings, rej)
	}

	successor, err := s.repo.Reschedule(ctx, id, newStart, newEnd)
	if err != nil {
		return nil, nil, err
	}
	return successor, warnings, nil
}

// Cancel marks the scoped occurrence(s) cancelled on both actor sides.
// Cancelling an already-cancelled occurrence is a no-op success.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, scope CancelScope, till *time.Time) error {
	if scope == CancelUntilDate && till == nil {
		return &records.ValidationError{Message: "till_date is required for until_date scope"}
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if scope == CancelThisOnly && current.Cancelled() {
		return nil
	}

	return s.repo.Cancel(ctx, id, scope, till)
}

// Delete hard-removes the scoped occurrence(s). Attended bookings are
// refused: their visit record must keep a booking to point at.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, scope DeleteScope) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Attended {
		return ErrCannotDeleteAttended
	}
	return s.repo.Delete(ctx, id, scope)
}

// CopySeries derives a new recurring series from an existing booking:
// the template's weekday pattern, duration, service and participants are
// re-anchored at newStart and bounded by newEnd, unless overridden. The
// result goes through Create, so guard validation and collision passthrough
// apply as for any other candidate.
func (s *Service) CopySeries(ctx context.Context, templateID uuid.UUID, newStart time.Time, newEnd *time.Time, overrides *SeriesOverrides, collisionAllow bool) (*Booking, []*workinghours.Rejection, error) {
	template, err := s.repo.Get(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	duration := template.End.Sub(template.Start)
	weekdays := []time.Weekday{newStart.Weekday()}
	if template.Recurrence.IsRecurring() {
		weekdays = append([]time.Weekday(nil), template.Recurrence.Weekdays...)
	}
	subjectID := template.SubjectID
	resourceID := template.ResourceID
	serviceID := template.ServiceID
	var sessions *int

	if overrides != nil {
		if len(overrides.Weekdays) > 0 {
			weekdays = overrides.Weekdays
		}
		if overrides.Duration != nil {
			duration = *overrides.Duration
		}
		if overrides.ServiceID != nil {
			serviceID = overrides.ServiceID
		}
		if overrides.SubjectID != nil {
			subjectID = *overrides.SubjectID
		}
		if overrides.ResourceID != nil {
			resourceID = *overrides.ResourceID
		}
		sessions = overrides.Sessions
	}

	var term recurrence.Terminator
	switch {
	case sessions != nil:
		if *sessions <= 0 {
			return nil, nil, &records.ValidationError{Message: "session count must be positive"}
		}
		term = recurrence.Count(*sessions)
	case newEnd != nil:
		term = recurrence.Until(*newEnd)
	default:
		return nil, nil, &records.ValidationError{Message: "either an end date or a session count is required"}
	}

	rule := &recurrence.Rule{
		Frequency:  recurrence.FreqWeekly,
		Weekdays:   weekdays,
		Terminator: term,
	}
	rule.Normalize()

	candidate := &Candidate{
		SubjectID:      subjectID,
		ResourceID:     resourceID,
		Start:          newStart,
		End:            newStart.Add(duration),
		ServiceID:      serviceID,
		Recurrence:     rule,
		CollisionAllow: collisionAllow,
	}
	return s.Create(ctx, candidate)
}

// Get fetches one booking.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.Get(ctx, id)
}

// List fetches occurrence bookings intersecting the window.
func (s *Service) List(ctx context.Context, from, to time.Time, resourceID *uuid.UUID, limit, offset int) ([]*Booking, int, error) {
	return s.repo.List(ctx, from, to, resourceID, limit, offset)
}

// guardCandidate expands the candidate over the guard horizon and validates
// each distinct weekday occurrence against the resource's schedule.
func (s *Service) guardCandidate(ctx context.Context, c *Candidate) ([]*workinghours.Rejection, error) {
	sched, err := s.hours.Schedule(ctx, c.ResourceID)
	if err != nil {
		return nil, fmt.Errorf("loading working hours: %w", err)
	}

	occ := recurrence.Expand(c.Recurrence, c.Start, c.End, c.Start, c.Start.Add(guardHorizon))
	if len(occ) == 0 {
		occ = []recurrence.Occurrence{{Start: c.Start, End: c.End}}
	}

	var warnings []*workinghours.Rejection
	seen := make(map[time.Weekday]bool)
	for _, o := range occ {
		wd := o.Start.Weekday()
		if seen[wd] {
			continue
		}
		seen[wd] = true
		if rej := workinghours.Validate(sched, wd, o.Start, o.End); rej != nil {
			if rej.Reason == workinghours.ReasonBreakOverlap {
				return nil, rej
			}
			warnings = append(warnings, rej)
		}
	}
	return warnings, nil
}
