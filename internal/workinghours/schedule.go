// Package workinghours validates candidate appointment times against a
// clinic's per-weekday working and break schedule. Validation is advisory:
// it reports rejections, it never blocks on its own.
package workinghours

import (
	"fmt"
	"time"
)

// DayHours is one weekday's operating window, in minutes from midnight.
// Days without a mid-day break collapse the two ranges (MorningEnd equals
// AfternoonStart).
type DayHours struct {
	MorningStart   int `json:"morning_start"`
	MorningEnd     int `json:"morning_end"`
	AfternoonStart int `json:"afternoon_start"`
	AfternoonEnd   int `json:"afternoon_end"`
}

// HasBreak reports whether the day carries a mid-day break interval.
func (d *DayHours) HasBreak() bool {
	return d.AfternoonStart > d.MorningEnd
}

// End returns the last working minute of the day.
func (d *DayHours) End() int {
	if d.AfternoonEnd > d.MorningEnd {
		return d.AfternoonEnd
	}
	return d.MorningEnd
}

// Validate checks the within-day ordering invariant
// (morningStart < morningEnd ≤ afternoonStart ≤ afternoonEnd). Days without
// an afternoon session collapse all three trailing marks onto morningEnd.
func (d *DayHours) Validate() error {
	if d.MorningStart >= d.MorningEnd {
		return fmt.Errorf("morning start %s is not before morning end %s",
			minutesClock(d.MorningStart), minutesClock(d.MorningEnd))
	}
	if d.MorningEnd > d.AfternoonStart {
		return fmt.Errorf("morning end %s is after afternoon start %s",
			minutesClock(d.MorningEnd), minutesClock(d.AfternoonStart))
	}
	if d.AfternoonStart > d.AfternoonEnd {
		return fmt.Errorf("afternoon start %s is after afternoon end %s",
			minutesClock(d.AfternoonStart), minutesClock(d.AfternoonEnd))
	}
	if d.AfternoonStart == d.AfternoonEnd && d.AfternoonStart != d.MorningEnd {
		return fmt.Errorf("empty afternoon session must collapse onto morning end %s",
			minutesClock(d.MorningEnd))
	}
	return nil
}

// WeekSchedule maps weekdays to operating hours. A nil entry means the
// clinic is closed that day.
type WeekSchedule struct {
	Days [7]*DayHours
}

// Day returns the hours for wd, or nil when closed.
func (s *WeekSchedule) Day(wd time.Weekday) *DayHours {
	if s == nil {
		return nil
	}
	return s.Days[int(wd)]
}

// Validate checks every configured day's ordering invariant.
func (s *WeekSchedule) Validate() error {
	for i, d := range s.Days {
		if d == nil {
			continue
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%s: %w", time.Weekday(i), err)
		}
	}
	return nil
}

// MinuteOfDay converts an instant to minutes from its own midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func minutesClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
