package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/console/internal/platform/auth"
	"github.com/clinicops/console/internal/platform/records"
	"github.com/clinicops/console/internal/recurrence"
	"github.com/clinicops/console/internal/workinghours"
	"github.com/clinicops/console/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "registrar"))
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.POST("/bookings", h.Create)
	g.POST("/bookings/preview", h.Preview)
	g.POST("/bookings/:id/reschedule", h.Reschedule)
	g.POST("/bookings/:id/cancel", h.Cancel)
	g.POST("/bookings/:id/copy", h.CopySeries)
	g.DELETE("/bookings/:id", h.Delete)
}

// -- Wire shapes --

type recurrenceRequest struct {
	Frequency string `json:"frequency"`
	Weekdays  []int  `json:"weekdays,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Until     string `json:"until,omitempty"`
}

func (r *recurrenceRequest) toRule() (*recurrence.Rule, error) {
	if r == nil || r.Frequency == "" || r.Frequency == "none" {
		return nil, nil
	}
	if r.Frequency != "weekly" {
		return nil, &records.ValidationError{Message: "frequency must be none or weekly"}
	}
	rule := &recurrence.Rule{Frequency: recurrence.FreqWeekly, Terminator: recurrence.Unbounded()}
	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			return nil, &records.ValidationError{Message: "weekday indices run 0 (Sunday) to 6 (Saturday)"}
		}
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}
	if r.Count != nil && r.Until != "" {
		return nil, &records.ValidationError{Message: "count and until are mutually exclusive"}
	}
	if r.Count != nil {
		rule.Terminator = recurrence.Count(*r.Count)
	}
	if r.Until != "" {
		d, err := time.Parse("2006-01-02", r.Until)
		if err != nil {
			return nil, &records.ValidationError{Message: "until must be a YYYY-MM-DD date"}
		}
		rule.Terminator = recurrence.Until(d)
	}
	rule.Normalize()
	return rule, nil
}

type createRequest struct {
	PatientID      uuid.UUID          `json:"patient_id"`
	EmployeeID     uuid.UUID          `json:"employee_id"`
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	ServiceID      *uuid.UUID         `json:"service_id,omitempty"`
	Recurrence     *recurrenceRequest `json:"recurrence,omitempty"`
	CollisionAllow bool               `json:"collision_allow"`
}

func (r *createRequest) toCandidate() (*Candidate, error) {
	rule, err := r.Recurrence.toRule()
	if err != nil {
		return nil, err
	}
	return &Candidate{
		SubjectID:      r.PatientID,
		ResourceID:     r.EmployeeID,
		Start:          r.Start,
		End:            r.End,
		ServiceID:      r.ServiceID,
		Recurrence:     rule,
		CollisionAllow: r.CollisionAllow,
	}, nil
}

type bookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	EmployeeID      uuid.UUID  `json:"employee_id"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	ServiceID       *uuid.UUID `json:"service_id,omitempty"`
	StatusPatient   Status     `json:"status_patient"`
	StatusEmployee  Status     `json:"status_employee"`
	EffectiveStatus Status     `json:"effective_status"`
	Recurrence      string     `json:"recurrence,omitempty"`
	Attended        bool       `json:"attended"`
	Warnings        []string   `json:"warnings,omitempty"`
}

func toResponse(b *Booking, warnings []*workinghours.Rejection) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID,
		PatientID:       b.SubjectID,
		EmployeeID:      b.ResourceID,
		Start:           b.Start,
		End:             b.End,
		ServiceID:       b.ServiceID,
		StatusPatient:   b.StatusSubject,
		StatusEmployee:  b.StatusResource,
		EffectiveStatus: b.EffectiveStatus(),
		Attended:        b.Attended,
	}
	if b.Recurrence.IsRecurring() {
		resp.Recurrence = b.Recurrence.Encode()
	}
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp
}

// -- Handlers --

func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	candidate, err := req.toCandidate()
	if err != nil {
		return toHTTPError(err)
	}
	created, warnings, err := h.svc.Create(c.Request().Context(), candidate)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toResponse(created, warnings))
}

func (h *Handler) Preview(c echo.Context) error {
	var req struct {
		createRequest
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	candidate, err := req.toCandidate()
	if err != nil {
		return toHTTPError(err)
	}
	occ, err := h.svc.Preview(candidate, req.From, req.To)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"occurrences": occ})
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toResponse(b, nil))
}

func (h *Handler) List(c echo.Context) error {
	from, to, err := windowParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var resourceID *uuid.UUID
	if v := c.QueryParam("employee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid employee_id")
		}
		resourceID = &id
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), from, to, resourceID, pg.Limit, pg.Offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]bookingResponse, len(items))
	for i, b := range items {
		resp[i] = toResponse(b, nil)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(resp, total, pg.Limit, pg.Offset))
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	successor, warnings, err := h.svc.Reschedule(c.Request().Context(), id, req.Start, req.End)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toResponse(successor, warnings))
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Scope    string `json:"scope"`
		TillDate string `json:"till_date,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	scope, err := ParseCancelScope(req.Scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var till *time.Time
	if req.TillDate != "" {
		d, err := time.Parse("2006-01-02", req.TillDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "till_date must be a YYYY-MM-DD date")
		}
		till = &d
	}
	if err := h.svc.Cancel(c.Request().Context(), id, scope, till); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	scope := DeleteSingleOccurrence
	if v := c.QueryParam("scope"); v != "" {
		scope, err = ParseDeleteScope(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if err := h.svc.Delete(c.Request().Context(), id, scope); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CopySeries(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Start           time.Time  `json:"start"`
		EndDate         string     `json:"end_date,omitempty"`
		Sessions        *int       `json:"sessions,omitempty"`
		Weekdays        []int      `json:"weekdays,omitempty"`
		DurationMinutes *int       `json:"duration_minutes,omitempty"`
		ServiceID       *uuid.UUID `json:"service_id,omitempty"`
		PatientID       *uuid.UUID `json:"patient_id,omitempty"`
		EmployeeID      *uuid.UUID `json:"employee_id,omitempty"`
		CollisionAllow  bool       `json:"collision_allow"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var newEnd *time.Time
	if req.EndDate != "" {
		d, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "end_date must be a YYYY-MM-DD date")
		}
		newEnd = &d
	}

	overrides := &SeriesOverrides{
		ServiceID:  req.ServiceID,
		Sessions:   req.Sessions,
		SubjectID:  req.PatientID,
		ResourceID: req.EmployeeID,
	}
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			return echo.NewHTTPError(http.StatusBadRequest, "weekday indices run 0 (Sunday) to 6 (Saturday)")
		}
		overrides.Weekdays = append(overrides.Weekdays, time.Weekday(wd))
	}
	if req.DurationMinutes != nil {
		d := time.Duration(*req.DurationMinutes) * time.Minute
		overrides.Duration = &d
	}

	created, warnings, err := h.svc.CopySeries(c.Request().Context(), id, req.Start, newEnd, overrides, req.CollisionAllow)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toResponse(created, warnings))
}

// windowParams reads the required from/to query window.
func windowParams(c echo.Context) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "from must be an RFC3339 timestamp")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "to must be an RFC3339 timestamp")
	}
	return from, to, nil
}

// toHTTPError maps the typed failure taxonomy onto HTTP statuses. The
// session-expired code is distinct so the console redirects to
// re-authentication instead of showing a generic error.
func toHTTPError(err error) error {
	var (
		guard      *workinghours.Rejection
		conflict   *records.ConflictError
		validation *records.ValidationError
	)
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Message)
	case errors.As(err, &guard):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, guard.Error())
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, conflict.Message)
	case errors.Is(err, ErrCannotDeleteAttended):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, records.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "booking not found")
	case errors.Is(err, records.ErrSessionExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "session_expired")
	default:
		return err
	}
}
