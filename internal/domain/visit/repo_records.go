package visit

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/console/internal/platform/records"
)

const (
	wireDateLayout = "2006-01-02"
	wireTimeLayout = "15:04"
)

// visitDTO is the records API representation. The store keeps calendar date
// and clock time as separate fields; they are joined into Start at this edge
// and nowhere else.
type visitDTO struct {
	ID                   uuid.UUID  `json:"id"`
	PatientID            uuid.UUID  `json:"patient"`
	EmployeeID           uuid.UUID  `json:"employee"`
	Date                 string     `json:"date"`
	Time                 string     `json:"time"`
	DurationMinutes      int        `json:"duration_minutes"`
	BookingID            *uuid.UUID `json:"booking,omitempty"`
	WalkIn               bool       `json:"walk_in"`
	Penalty              bool       `json:"penalty"`
	ReduceServiceBalance bool       `json:"reduce_service_balance"`
}

type visitListDTO struct {
	Items []visitDTO `json:"items"`
}

type cancelVisitDTO struct {
	Reason string `json:"reason"`
}

func (d *visitDTO) toDomain() (*Visit, error) {
	day, err := time.Parse(wireDateLayout, d.Date)
	if err != nil {
		return nil, fmt.Errorf("visit %s: invalid date %q", d.ID, d.Date)
	}
	clock, err := time.Parse(wireTimeLayout, d.Time)
	if err != nil {
		return nil, fmt.Errorf("visit %s: invalid time %q", d.ID, d.Time)
	}
	return &Visit{
		ID:                   d.ID,
		SubjectID:            d.PatientID,
		ResourceID:           d.EmployeeID,
		Start:                day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute),
		Duration:             time.Duration(d.DurationMinutes) * time.Minute,
		BookingID:            d.BookingID,
		WalkIn:               d.WalkIn,
		Penalty:              d.Penalty,
		ReduceServiceBalance: d.ReduceServiceBalance,
	}, nil
}

func toDTO(v *Visit) visitDTO {
	return visitDTO{
		ID:                   v.ID,
		PatientID:            v.SubjectID,
		EmployeeID:           v.ResourceID,
		Date:                 v.Start.Format(wireDateLayout),
		Time:                 v.Start.Format(wireTimeLayout),
		DurationMinutes:      int(v.Duration / time.Minute),
		BookingID:            v.BookingID,
		WalkIn:               v.WalkIn,
		Penalty:              v.Penalty,
		ReduceServiceBalance: v.ReduceServiceBalance,
	}
}

// RecordsRepo implements Repository against the records API.
type RecordsRepo struct {
	client *records.Client
}

func NewRecordsRepo(client *records.Client) *RecordsRepo {
	return &RecordsRepo{client: client}
}

func (r *RecordsRepo) Create(ctx context.Context, v *Visit) (*Visit, error) {
	var out visitDTO
	if err := r.client.Post(ctx, "/visits", toDTO(v), &out); err != nil {
		return nil, err
	}
	return out.toDomain()
}

func (r *RecordsRepo) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	return r.client.Post(ctx, "/visits/"+id.String()+"/cancel", cancelVisitDTO{Reason: reason}, nil)
}

func (r *RecordsRepo) List(ctx context.Context, from, to time.Time) ([]*Visit, error) {
	q := url.Values{}
	q.Set("from", from.Format(wireDateLayout))
	q.Set("to", to.Format(wireDateLayout))

	var out visitListDTO
	if err := r.client.Get(ctx, "/visits", q, &out); err != nil {
		return nil, err
	}
	visits := make([]*Visit, 0, len(out.Items))
	for i := range out.Items {
		v, err := out.Items[i].toDomain()
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, nil
}
