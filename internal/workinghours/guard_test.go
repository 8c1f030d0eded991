package workinghours

import (
	"testing"
	"time"
)

// clinicWeek: Mon–Fri 08:00–12:00 / 13:00–17:00, Sat 09:00–13:00 no break,
// Sun closed.
func clinicWeek() *WeekSchedule {
	s := &WeekSchedule{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		s.Days[wd] = &DayHours{
			MorningStart:   8 * 60,
			MorningEnd:     12 * 60,
			AfternoonStart: 13 * 60,
			AfternoonEnd:   17 * 60,
		}
	}
	s.Days[time.Saturday] = &DayHours{
		MorningStart:   9 * 60,
		MorningEnd:     13 * 60,
		AfternoonStart: 13 * 60,
		AfternoonEnd:   13 * 60,
	}
	return s
}

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	// 2024-01-01 is a Monday.
	ts, err := time.Parse("2006-01-02 15:04", "2024-01-01 "+hhmm)
	if err != nil {
		t.Fatalf("parse %q: %v", hhmm, err)
	}
	return ts
}

func TestIsWithinBreak(t *testing.T) {
	sched := clinicWeek()
	cases := []struct {
		clock string
		want  bool
	}{
		{"11:59", false},
		{"12:00", true},
		{"12:30", true},
		{"12:59", true},
		{"13:00", false},
	}
	for _, tc := range cases {
		if got := IsWithinBreak(sched, time.Monday, at(t, tc.clock)); got != tc.want {
			t.Errorf("IsWithinBreak(Mon %s) = %v, want %v", tc.clock, got, tc.want)
		}
	}
	if IsWithinBreak(sched, time.Saturday, at(t, "12:30")) {
		t.Error("Saturday has no break interval")
	}
	if IsWithinBreak(sched, time.Sunday, at(t, "12:30")) {
		t.Error("closed day has no break interval")
	}
}

func TestValidatePartialBreakOverlapRejected(t *testing.T) {
	sched := clinicWeek()
	// Break 12:00–13:00; candidate 11:45–12:15 overlaps only partially and
	// must still be rejected.
	rej := Validate(sched, time.Monday, at(t, "11:45"), at(t, "12:15"))
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Reason != ReasonBreakOverlap {
		t.Errorf("reason = %v, want break overlap", rej.Reason)
	}
}

func TestValidateBreakOverlapVariants(t *testing.T) {
	sched := clinicWeek()
	cases := []struct {
		name       string
		start, end string
		reason     RejectReason
		reject     bool
	}{
		{"fully inside break", "12:15", "12:45", ReasonBreakOverlap, true},
		{"spans whole break", "11:30", "13:30", ReasonBreakOverlap, true},
		{"tail touches break", "11:00", "12:30", ReasonBreakOverlap, true},
		{"head touches break", "12:45", "13:30", ReasonBreakOverlap, true},
		{"ends exactly at break start", "11:00", "12:00", 0, false},
		{"starts exactly at break end", "13:00", "14:00", 0, false},
		{"before opening", "07:00", "07:45", ReasonOutsideHours, true},
		{"past closing", "16:30", "17:30", ReasonOutsideHours, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rej := Validate(sched, time.Monday, at(t, tc.start), at(t, tc.end))
			if tc.reject {
				if rej == nil {
					t.Fatal("expected rejection")
				}
				if rej.Reason != tc.reason {
					t.Errorf("reason = %v, want %v", rej.Reason, tc.reason)
				}
			} else if rej != nil {
				t.Errorf("unexpected rejection: %v", rej)
			}
		})
	}
}

func TestValidateClosedDay(t *testing.T) {
	rej := Validate(clinicWeek(), time.Sunday, at(t, "10:00"), at(t, "11:00"))
	if rej == nil || rej.Reason != ReasonClosedDay {
		t.Fatalf("rejection = %v, want closed day", rej)
	}
}

func TestValidateSingleRangeDay(t *testing.T) {
	sched := clinicWeek()
	if rej := Validate(sched, time.Saturday, at(t, "10:00"), at(t, "11:00")); rej != nil {
		t.Errorf("unexpected rejection on break-less day: %v", rej)
	}
	rej := Validate(sched, time.Saturday, at(t, "12:30"), at(t, "13:30"))
	if rej == nil || rej.Reason != ReasonOutsideHours {
		t.Fatalf("rejection = %v, want outside hours", rej)
	}
}

func TestDayHoursValidate(t *testing.T) {
	bad := []DayHours{
		{MorningStart: 9 * 60, MorningEnd: 9 * 60, AfternoonStart: 13 * 60, AfternoonEnd: 17 * 60},
		{MorningStart: 9 * 60, MorningEnd: 13 * 60, AfternoonStart: 12 * 60, AfternoonEnd: 17 * 60},
		{MorningStart: 9 * 60, MorningEnd: 12 * 60, AfternoonStart: 17 * 60, AfternoonEnd: 13 * 60},
	}
	for i, d := range bad {
		if err := d.Validate(); err == nil {
			t.Errorf("case %d: expected invariant violation", i)
		}
	}
	good := DayHours{MorningStart: 8 * 60, MorningEnd: 12 * 60, AfternoonStart: 13 * 60, AfternoonEnd: 17 * 60}
	if err := good.Validate(); err != nil {
		t.Errorf("valid day rejected: %v", err)
	}
}
