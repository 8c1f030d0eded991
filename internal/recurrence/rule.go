// Package recurrence turns a recurrence rule plus an anchor appointment into
// concrete occurrence instances, and round-trips the rule to the descriptor
// string the records API stores.
package recurrence

import (
	"fmt"
	"sort"
	"time"
)

// Frequency is the repetition pattern of a rule.
type Frequency int

const (
	// FreqNone means the anchor occurrence happens exactly once.
	FreqNone Frequency = iota
	// FreqWeekly repeats on a set of weekdays every week.
	FreqWeekly
)

func (f Frequency) String() string {
	switch f {
	case FreqWeekly:
		return "WEEKLY"
	default:
		return "NONE"
	}
}

// TerminatorKind selects which termination clause a rule carries.
type TerminatorKind int

const (
	// TermUnbounded repeats forever; expansion is bounded by the viewing window.
	TermUnbounded TerminatorKind = iota
	// TermUntil stops after the occurrence landing on the until date (inclusive).
	TermUntil
	// TermCount stops after N occurrences counted from the rule's own start.
	TermCount
)

// Terminator bounds a rule. Exactly one clause is meaningful, selected by Kind.
type Terminator struct {
	Kind  TerminatorKind
	Until time.Time // date precision; time-of-day is ignored
	Count int
}

// Unbounded returns a terminator with no end condition.
func Unbounded() Terminator { return Terminator{Kind: TermUnbounded} }

// Until returns a terminator that includes occurrences up to and including d.
func Until(d time.Time) Terminator { return Terminator{Kind: TermUntil, Until: d} }

// Count returns a terminator that stops after n occurrences.
func Count(n int) Terminator { return Terminator{Kind: TermCount, Count: n} }

// Rule is a recurrence pattern. A nil *Rule means no recurrence.
type Rule struct {
	Frequency  Frequency
	Weekdays   []time.Weekday
	Terminator Terminator
}

// Normalize sorts and deduplicates the weekday set in place.
func (r *Rule) Normalize() {
	if len(r.Weekdays) == 0 {
		return
	}
	sort.Slice(r.Weekdays, func(i, j int) bool { return r.Weekdays[i] < r.Weekdays[j] })
	out := r.Weekdays[:1]
	for _, wd := range r.Weekdays[1:] {
		if wd != out[len(out)-1] {
			out = append(out, wd)
		}
	}
	r.Weekdays = out
}

// Validate reports rule-authoring problems. A Weekly rule with an empty
// weekday set still expands (degrading to a single occurrence), but callers
// should surface the condition as a likely upstream authoring error.
func (r *Rule) Validate() error {
	if r == nil {
		return nil
	}
	switch r.Frequency {
	case FreqNone:
		if len(r.Weekdays) > 0 {
			return fmt.Errorf("weekday set is meaningless without a weekly frequency")
		}
	case FreqWeekly:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("weekly rule has an empty weekday set")
		}
	default:
		return fmt.Errorf("unknown frequency %d", r.Frequency)
	}
	if r.Terminator.Kind == TermCount && r.Terminator.Count <= 0 {
		return fmt.Errorf("count terminator must be positive, got %d", r.Terminator.Count)
	}
	if r.Terminator.Kind == TermUntil && r.Terminator.Until.IsZero() {
		return fmt.Errorf("until terminator has no date")
	}
	return nil
}

// IsRecurring reports whether the rule produces more than the anchor occurrence.
func (r *Rule) IsRecurring() bool {
	return r != nil && r.Frequency == FreqWeekly && len(r.Weekdays) > 0
}

// ContainsWeekday reports whether wd is in the rule's weekday set.
func (r *Rule) ContainsWeekday(wd time.Weekday) bool {
	for _, d := range r.Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}
