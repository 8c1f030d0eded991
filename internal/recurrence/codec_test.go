package recurrence

import (
	"testing"
	"time"
)

func TestParseRuleWeeklyCount(t *testing.T) {
	rule, err := ParseRule("WEEKLY;BYDAY=MO,WE;COUNT=4")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if rule.Frequency != FreqWeekly {
		t.Errorf("frequency = %v, want weekly", rule.Frequency)
	}
	if len(rule.Weekdays) != 2 || rule.Weekdays[0] != time.Monday || rule.Weekdays[1] != time.Wednesday {
		t.Errorf("weekdays = %v, want [Mon Wed]", rule.Weekdays)
	}
	if rule.Terminator.Kind != TermCount || rule.Terminator.Count != 4 {
		t.Errorf("terminator = %+v, want Count(4)", rule.Terminator)
	}
}

func TestParseRuleWeeklyUntil(t *testing.T) {
	rule, err := ParseRule("WEEKLY;BYDAY=TU;UNTIL=2024-03-01")
	if err != nil {
		t.Fatalf("ParseRule: %v", err)
	}
	if rule.Terminator.Kind != TermUntil {
		t.Fatalf("terminator kind = %v, want until", rule.Terminator.Kind)
	}
	if got := rule.Terminator.Until.Format("2006-01-02"); got != "2024-03-01" {
		t.Errorf("until = %s, want 2024-03-01", got)
	}
}

func TestParseRuleNone(t *testing.T) {
	for _, s := range []string{"", "NONE", "none", "  "} {
		rule, err := ParseRule(s)
		if err != nil {
			t.Errorf("ParseRule(%q): %v", s, err)
		}
		if rule != nil {
			t.Errorf("ParseRule(%q) = %+v, want nil", s, rule)
		}
	}
}

func TestParseRuleRejectsMalformed(t *testing.T) {
	cases := []string{
		"DAILY;BYDAY=MO",
		"WEEKLY;BYDAY=XX",
		"WEEKLY;BYDAY=MO;COUNT=0",
		"WEEKLY;BYDAY=MO;COUNT=4;UNTIL=2024-03-01",
		"WEEKLY;BYDAY=MO;UNTIL=01/03/2024",
		"WEEKLY;BOGUS=1",
		"WEEKLY;BYDAY",
	}
	for _, s := range cases {
		if _, err := ParseRule(s); err == nil {
			t.Errorf("ParseRule(%q) accepted malformed input", s)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	descriptors := []string{
		"WEEKLY;BYDAY=MO,WE;COUNT=4",
		"WEEKLY;BYDAY=TU,TH;UNTIL=2024-03-01",
		"WEEKLY;BYDAY=FR",
		"NONE",
	}
	anchorStart := mustTime(t, "2024-01-01 09:00")
	anchorEnd := mustTime(t, "2024-01-01 09:30")
	from := mustTime(t, "2024-01-01 00:00")
	to := mustTime(t, "2024-06-01 00:00")

	for _, d := range descriptors {
		rule, err := ParseRule(d)
		if err != nil {
			t.Fatalf("ParseRule(%q): %v", d, err)
		}
		reparsed, err := ParseRule(rule.Encode())
		if err != nil {
			t.Fatalf("re-parse of %q: %v", rule.Encode(), err)
		}
		a := Expand(rule, anchorStart, anchorEnd, from, to)
		b := Expand(reparsed, anchorStart, anchorEnd, from, to)
		if len(a) != len(b) {
			t.Fatalf("%q: round-trip changed occurrence count %d -> %d", d, len(a), len(b))
		}
		for i := range a {
			if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
				t.Errorf("%q: round-trip changed occurrence %d", d, i)
			}
		}
	}
}

func TestEncodeCanonicalizesWeekdayOrder(t *testing.T) {
	rule := &Rule{
		Frequency:  FreqWeekly,
		Weekdays:   []time.Weekday{time.Friday, time.Monday, time.Monday},
		Terminator: Unbounded(),
	}
	rule.Normalize()
	if got := rule.Encode(); got != "WEEKLY;BYDAY=MO,FR" {
		t.Errorf("Encode() = %q, want WEEKLY;BYDAY=MO,FR", got)
	}
}
