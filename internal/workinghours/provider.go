package workinghours

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clinicops/console/internal/platform/records"
)

// Source fetches a per-weekday schedule for an employee. Satisfied by
// *records.Client through RecordsSource; tests substitute their own.
type Source interface {
	FetchSchedule(ctx context.Context, employeeID uuid.UUID) (*WeekSchedule, error)
}

// dayHoursDTO is the records API representation of one weekday's hours,
// clock strings in "HH:MM".
type dayHoursDTO struct {
	Weekday        int    `json:"weekday"`
	MorningStart   string `json:"morning_start"`
	MorningEnd     string `json:"morning_end"`
	AfternoonStart string `json:"afternoon_start"`
	AfternoonEnd   string `json:"afternoon_end"`
}

type scheduleDTO struct {
	EmployeeID uuid.UUID     `json:"employee_id"`
	Days       []dayHoursDTO `json:"days"`
}

// RecordsSource fetches schedules from the records API.
type RecordsSource struct {
	client *records.Client
}

func NewRecordsSource(client *records.Client) *RecordsSource {
	return &RecordsSource{client: client}
}

func (s *RecordsSource) FetchSchedule(ctx context.Context, employeeID uuid.UUID) (*WeekSchedule, error) {
	var dto scheduleDTO
	if err := s.client.Get(ctx, "/working-hours/"+employeeID.String(), nil, &dto); err != nil {
		return nil, err
	}
	sched := &WeekSchedule{}
	for _, d := range dto.Days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, fmt.Errorf("working hours for %s: weekday %d out of range", employeeID, d.Weekday)
		}
		day := &DayHours{}
		var err error
		if day.MorningStart, err = parseClock(d.MorningStart); err != nil {
			return nil, fmt.Errorf("working hours for %s: %w", employeeID, err)
		}
		if day.MorningEnd, err = parseClock(d.MorningEnd); err != nil {
			return nil, fmt.Errorf("working hours for %s: %w", employeeID, err)
		}
		// A single-range day may omit the afternoon pair; collapse it.
		if d.AfternoonStart == "" && d.AfternoonEnd == "" {
			day.AfternoonStart = day.MorningEnd
			day.AfternoonEnd = day.MorningEnd
		} else {
			if day.AfternoonStart, err = parseClock(d.AfternoonStart); err != nil {
				return nil, fmt.Errorf("working hours for %s: %w", employeeID, err)
			}
			if day.AfternoonEnd, err = parseClock(d.AfternoonEnd); err != nil {
				return nil, fmt.Errorf("working hours for %s: %w", employeeID, err)
			}
		}
		sched.Days[d.Weekday] = day
	}
	if err := sched.Validate(); err != nil {
		return nil, fmt.Errorf("working hours for %s: %w", employeeID, err)
	}
	return sched, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

type cacheEntry struct {
	sched     *WeekSchedule
	fetchedAt time.Time
}

// Provider serves per-employee schedules with an LRU cache in front of the
// configuration source. Schedules change rarely; entries expire after ttl so
// edits made in the console propagate without a restart.
type Provider struct {
	source Source
	cache  *lru.Cache[uuid.UUID, *cacheEntry]
	ttl    time.Duration
}

func NewProvider(source Source, size int, ttl time.Duration) (*Provider, error) {
	if size <= 0 {
		size = 128
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	cache, err := lru.New[uuid.UUID, *cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &Provider{source: source, cache: cache, ttl: ttl}, nil
}

// Schedule returns the employee's week schedule, from cache when fresh.
func (p *Provider) Schedule(ctx context.Context, employeeID uuid.UUID) (*WeekSchedule, error) {
	if entry, ok := p.cache.Get(employeeID); ok && time.Since(entry.fetchedAt) < p.ttl {
		return entry.sched, nil
	}
	sched, err := p.source.FetchSchedule(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	p.cache.Add(employeeID, &cacheEntry{sched: sched, fetchedAt: time.Now()})
	return sched, nil
}

// Invalidate drops the cached schedule for an employee.
func (p *Provider) Invalidate(employeeID uuid.UUID) {
	p.cache.Remove(employeeID)
}
