package workinghours

import (
	"fmt"
	"time"
)

// RejectReason classifies why a candidate range failed validation.
type RejectReason int

const (
	// ReasonBreakOverlap means some part of the candidate falls inside the
	// weekday's break interval. Lifecycle operations hard-refuse on this.
	ReasonBreakOverlap RejectReason = iota
	// ReasonOutsideHours means the candidate leaves the weekday's operating
	// window. Informational: the caller decides whether to block or warn.
	ReasonOutsideHours
	// ReasonClosedDay means the clinic has no hours configured for the weekday.
	ReasonClosedDay
)

func (r RejectReason) String() string {
	switch r {
	case ReasonBreakOverlap:
		return "break_overlap"
	case ReasonOutsideHours:
		return "outside_working_hours"
	case ReasonClosedDay:
		return "closed_day"
	default:
		return "unknown"
	}
}

// Rejection describes a failed validation. It implements error so lifecycle
// operations can return it directly as a typed failure.
type Rejection struct {
	Reason  RejectReason
	Weekday time.Weekday
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s on %s: %s", r.Reason, r.Weekday, r.Message)
}

// IsWithinBreak reports whether instant falls inside the weekday's break
// interval [MorningEnd, AfternoonStart). Closed and break-less days have no
// break.
func IsWithinBreak(sched *WeekSchedule, wd time.Weekday, instant time.Time) bool {
	day := sched.Day(wd)
	if day == nil || !day.HasBreak() {
		return false
	}
	m := MinuteOfDay(instant)
	return m >= day.MorningEnd && m < day.AfternoonStart
}

// Validate checks the candidate range [start, end) against the weekday's
// hours. Partial overlap with the break interval is enough to reject; full
// containment is not required. A nil result means the range is acceptable.
func Validate(sched *WeekSchedule, wd time.Weekday, start, end time.Time) *Rejection {
	day := sched.Day(wd)
	if day == nil {
		return &Rejection{
			Reason:  ReasonClosedDay,
			Weekday: wd,
			Message: "no working hours configured",
		}
	}

	s, e := MinuteOfDay(start), MinuteOfDay(end)

	if day.HasBreak() && s < day.AfternoonStart && e > day.MorningEnd {
		return &Rejection{
			Reason:  ReasonBreakOverlap,
			Weekday: wd,
			Message: fmt.Sprintf("%s–%s overlaps the %s–%s break",
				minutesClock(s), minutesClock(e),
				minutesClock(day.MorningEnd), minutesClock(day.AfternoonStart)),
		}
	}

	if s < day.MorningStart || e > day.End() {
		return &Rejection{
			Reason:  ReasonOutsideHours,
			Weekday: wd,
			Message: fmt.Sprintf("%s–%s is outside the %s–%s working window",
				minutesClock(s), minutesClock(e),
				minutesClock(day.MorningStart), minutesClock(day.End())),
		}
	}

	return nil
}
