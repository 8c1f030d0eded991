package calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/console/internal/domain/visit"
	"github.com/clinicops/console/internal/platform/auth"
	"github.com/clinicops/console/internal/platform/records"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "registrar"))
	g.GET("/calendar", h.Timeline)
	g.POST("/visits", h.RecordVisit)
	g.POST("/visits/:id/revoke", h.Revoke)
}

type timelineResponse struct {
	Events    []Event    `json:"events"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

func (h *Handler) Timeline(c echo.Context) error {
	from, to, err := windowParams(c)
	if err != nil {
		return err
	}

	var f Filter
	if v := c.QueryParam("employee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid employee_id")
		}
		f.ResourceID = &id
	}
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		f.SubjectID = &id
	}
	if v := c.QueryParam("include_cancelled"); v != "" {
		f.IncludeCancelled, _ = strconv.ParseBool(v)
	}

	tl, err := h.svc.Timeline(c.Request().Context(), from, to, f)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, timelineResponse{Events: tl.Events, Conflicts: tl.Conflicts})
}

type recordVisitRequest struct {
	PatientID            uuid.UUID  `json:"patient_id"`
	EmployeeID           uuid.UUID  `json:"employee_id"`
	Start                time.Time  `json:"start"`
	DurationMinutes      int        `json:"duration_minutes"`
	BookingID            *uuid.UUID `json:"booking_id,omitempty"`
	WalkIn               bool       `json:"walk_in"`
	Penalty              bool       `json:"penalty"`
	ReduceServiceBalance bool       `json:"reduce_service_balance"`
}

func (h *Handler) RecordVisit(c echo.Context) error {
	var req recordVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v := &visit.Visit{
		SubjectID:            req.PatientID,
		ResourceID:           req.EmployeeID,
		Start:                req.Start,
		Duration:             time.Duration(req.DurationMinutes) * time.Minute,
		BookingID:            req.BookingID,
		WalkIn:               req.WalkIn,
		Penalty:              req.Penalty,
		ReduceServiceBalance: req.ReduceServiceBalance,
	}
	created, err := h.svc.RecordVisit(c.Request().Context(), v)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Revoke(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Reason string    `json:"reason"`
		From   time.Time `json:"from"`
		To     time.Time `json:"to"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "reason is required")
	}
	// The revocation window defaults to the day around the event so the
	// reverse lookup has both sources loaded.
	if req.From.IsZero() || req.To.IsZero() {
		now := time.Now()
		req.From = now.AddDate(0, -1, 0)
		req.To = now.AddDate(0, 1, 0)
	}
	if err := h.svc.Revoke(c.Request().Context(), req.From, req.To, id, req.Reason); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

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

func toHTTPError(err error) error {
	var validation *records.ValidationError
	switch {
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Message)
	case errors.Is(err, records.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, records.ErrSessionExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "session_expired")
	default:
		return err
	}
}
