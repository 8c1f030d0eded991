package booking

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/platform/records"
	"github.com/clinicops/console/internal/recurrence"
)

// bookingDTO is the records API representation. Per-actor statuses travel as
// status_patient / status_employee and the recurrence as a descriptor string;
// both are translated here and never used internally.
type bookingDTO struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient"`
	EmployeeID     uuid.UUID  `json:"employee"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	ServiceID      *uuid.UUID `json:"service,omitempty"`
	StatusPatient  string     `json:"status_patient"`
	StatusEmployee string     `json:"status_employee"`
	Recurrence     string     `json:"recurrence,omitempty"`
	Attended       bool       `json:"attended"`
}

type bookingListDTO struct {
	Items []bookingDTO `json:"items"`
	Total int          `json:"total"`
}

type createBookingDTO struct {
	PatientID      uuid.UUID  `json:"patient"`
	EmployeeID     uuid.UUID  `json:"employee"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	ServiceID      *uuid.UUID `json:"service,omitempty"`
	Recurrence     string     `json:"recurrence,omitempty"`
	CollisionAllow bool       `json:"collision_allow"`
}

type rescheduleDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type cancelDTO struct {
	Scope    string `json:"scope"`
	TillDate string `json:"till_date,omitempty"`
}

func (d *bookingDTO) toDomain() (*Booking, error) {
	statusSubject, err := ParseStatus(d.StatusPatient)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	statusResource, err := ParseStatus(d.StatusEmployee)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	rule, err := recurrence.ParseRule(d.Recurrence)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	return &Booking{
		ID:             d.ID,
		SubjectID:      d.PatientID,
		ResourceID:     d.EmployeeID,
		Start:          d.Start,
		End:            d.End,
		ServiceID:      d.ServiceID,
		StatusSubject:  statusSubject,
		StatusResource: statusResource,
		Recurrence:     rule,
		Attended:       d.Attended,
	}, nil
}

// RecordsRepo implements Repository against the records API.
type RecordsRepo struct {
	client *records.Client
}

func NewRecordsRepo(client *records.Client) *RecordsRepo {
	return &RecordsRepo{client: client}
}

func (r *RecordsRepo) Create(ctx context.Context, c *Candidate) (*Booking, error) {
	req := createBookingDTO{
		PatientID:      c.SubjectID,
		EmployeeID:     c.ResourceID,
		Start:          c.Start,
		End:            c.End,
		ServiceID:      c.ServiceID,
		Recurrence:     c.Recurrence.Encode(),
		CollisionAllow: c.CollisionAllow,
	}
	var out bookingDTO
	if err := r.client.Post(ctx, "/bookings", req, &out); err != nil {
		return nil, err
	}
	return out.toDomain()
}

func (r *RecordsRepo) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var out bookingDTO
	if err := r.client.Get(ctx, "/bookings/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain()
}

func (r *RecordsRepo) Reschedule(ctx context.Context, id uuid.UUID, newStart, newEnd time.Time) (*Booking, error) {
	var out bookingDTO
	if err := r.client.Patch(ctx, "/bookings/"+id.String()+"/reschedule", rescheduleDTO{Start: newStart, End: newEnd}, &out); err != nil {
		return nil, err
	}
	return out.toDomain()
}

func (r *RecordsRepo) Cancel(ctx context.Context, id uuid.UUID, scope CancelScope, till *time.Time) error {
	req := cancelDTO{Scope: string(scope)}
	if till != nil {
		req.TillDate = till.Format("2006-01-02")
	}
	return r.client.Post(ctx, "/bookings/"+id.String()+"/cancel", req, nil)
}

func (r *RecordsRepo) Delete(ctx context.Context, id uuid.UUID, scope DeleteScope) error {
	q := url.Values{}
	q.Set("scope", string(scope))
	return r.client.Delete(ctx, "/bookings/"+id.String(), q)
}

func (r *RecordsRepo) List(ctx context.Context, from, to time.Time, resourceID *uuid.UUID, limit, offset int) ([]*Booking, int, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if resourceID != nil {
		q.Set("employee", resourceID.String())
	}

	var out bookingListDTO
	if err := r.client.Get(ctx, "/bookings", q, &out); err != nil {
		return nil, 0, err
	}
	bookings := make([]*Booking, 0, len(out.Items))
	for i := range out.Items {
		b, err := out.Items[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, out.Total, nil
}
