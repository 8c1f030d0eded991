package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The records API stores a rule as a semicolon-separated descriptor:
//
//	WEEKLY;BYDAY=MO,WE;COUNT=4
//	WEEKLY;BYDAY=TU,TH;UNTIL=2024-03-01
//	WEEKLY;BYDAY=FR
//	NONE
//
// At most one terminator clause appears. An empty string is treated as NONE.

const untilLayout = "2006-01-02"

var weekdayCodes = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

var codeWeekdays = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, len(weekdayCodes))
	for wd, code := range weekdayCodes {
		m[code] = wd
	}
	return m
}()

// ParseRule decodes a store descriptor. It returns nil for "NONE" and the
// empty string so bookings without recurrence carry no rule at all.
func ParseRule(s string) (*Rule, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NONE") {
		return nil, nil
	}

	parts := strings.Split(s, ";")
	if !strings.EqualFold(parts[0], "WEEKLY") {
		return nil, fmt.Errorf("unknown recurrence frequency %q", parts[0])
	}

	rule := &Rule{Frequency: FreqWeekly, Terminator: Unbounded()}
	seenTerm := false
	for _, part := range parts[1:] {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("malformed recurrence clause %q", part)
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "BYDAY":
			for _, code := range strings.Split(val, ",") {
				wd, ok := codeWeekdays[strings.ToUpper(strings.TrimSpace(code))]
				if !ok {
					return nil, fmt.Errorf("unknown weekday code %q", code)
				}
				rule.Weekdays = append(rule.Weekdays, wd)
			}
		case "COUNT":
			if seenTerm {
				return nil, fmt.Errorf("recurrence has more than one terminator clause")
			}
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid COUNT value %q", val)
			}
			rule.Terminator = Count(n)
			seenTerm = true
		case "UNTIL":
			if seenTerm {
				return nil, fmt.Errorf("recurrence has more than one terminator clause")
			}
			d, err := time.Parse(untilLayout, strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("invalid UNTIL date %q", val)
			}
			rule.Terminator = Until(d)
			seenTerm = true
		default:
			return nil, fmt.Errorf("unknown recurrence clause %q", key)
		}
	}

	rule.Normalize()
	return rule, nil
}

// Encode renders the rule back into the store descriptor. Encode and
// ParseRule round-trip: parsing an encoded rule reproduces the same
// occurrence set.
func (r *Rule) Encode() string {
	if !r.IsRecurring() {
		return "NONE"
	}
	codes := make([]string, len(r.Weekdays))
	for i, wd := range r.Weekdays {
		codes[i] = weekdayCodes[wd]
	}
	s := "WEEKLY;BYDAY=" + strings.Join(codes, ",")
	switch r.Terminator.Kind {
	case TermCount:
		s += ";COUNT=" + strconv.Itoa(r.Terminator.Count)
	case TermUntil:
		s += ";UNTIL=" + r.Terminator.Until.Format(untilLayout)
	}
	return s
}
