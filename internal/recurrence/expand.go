package recurrence

import "time"

// Occurrence is one concrete instance produced by expanding a rule.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Expand produces the occurrences of rule, anchored at the appointment
// [anchorStart, anchorEnd), that intersect the viewing window [from, to).
//
// A nil rule, FreqNone, or a weekly rule with an empty weekday set yields
// exactly the anchor occurrence if it intersects the window. A weekly rule
// emits one occurrence per matching weekday at the anchor's time-of-day and
// duration, walking day by day from the anchor date and stopping at the
// rule's terminator. Count occurrences are counted from the rule's own start,
// so a window that begins later still sees the correct tail of a counted
// series. The function is pure: identical input gives identical output.
func Expand(rule *Rule, anchorStart, anchorEnd time.Time, from, to time.Time) []Occurrence {
	if !rule.IsRecurring() {
		if anchorEnd.After(from) && anchorStart.Before(to) {
			return []Occurrence{{Start: anchorStart, End: anchorEnd}}
		}
		return nil
	}

	duration := anchorEnd.Sub(anchorStart)
	var out []Occurrence
	emitted := 0

	day := time.Date(anchorStart.Year(), anchorStart.Month(), anchorStart.Day(),
		0, 0, 0, 0, anchorStart.Location())

	for {
		if rule.Terminator.Kind == TermCount && emitted >= rule.Terminator.Count {
			break
		}
		if rule.Terminator.Kind == TermUntil && day.After(dateOnly(rule.Terminator.Until, anchorStart.Location())) {
			break
		}
		// Past the window there is nothing left to intersect, except when a
		// count still has to be consumed (occurrences beyond the window are
		// counted but not returned — they cannot exist, so stop).
		if !day.Before(to) {
			break
		}

		if rule.ContainsWeekday(day.Weekday()) {
			start := day.Add(timeOfDay(anchorStart))
			end := start.Add(duration)
			emitted++
			if end.After(from) && start.Before(to) {
				out = append(out, Occurrence{Start: start, End: end})
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// timeOfDay returns t's offset from its own midnight.
func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// dateOnly truncates t to its calendar date in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
