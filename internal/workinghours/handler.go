package workinghours

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicops/console/internal/platform/auth"
	"github.com/clinicops/console/internal/platform/records"
)

// Handler exposes the advisory validation surface the booking form uses
// before a candidate is ever submitted.
type Handler struct {
	provider *Provider
}

func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "registrar"))
	g.GET("/working-hours/:employee_id", h.GetSchedule)
	g.POST("/working-hours/validate", h.ValidateRange)
}

type dayResponse struct {
	Weekday        string `json:"weekday"`
	MorningStart   string `json:"morning_start"`
	MorningEnd     string `json:"morning_end"`
	AfternoonStart string `json:"afternoon_start"`
	AfternoonEnd   string `json:"afternoon_end"`
	HasBreak       bool   `json:"has_break"`
}

func (h *Handler) GetSchedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("employee_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid employee_id")
	}
	sched, err := h.provider.Schedule(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no working hours configured")
		}
		if errors.Is(err, records.ErrSessionExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "session_expired")
		}
		return err
	}

	days := make([]dayResponse, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		d := sched.Day(wd)
		if d == nil {
			continue
		}
		days = append(days, dayResponse{
			Weekday:        wd.String(),
			MorningStart:   minutesClock(d.MorningStart),
			MorningEnd:     minutesClock(d.MorningEnd),
			AfternoonStart: minutesClock(d.AfternoonStart),
			AfternoonEnd:   minutesClock(d.AfternoonEnd),
			HasBreak:       d.HasBreak(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"employee_id": id, "days": days})
}

type validateRequest struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ValidateRange is purely advisory: it reports the guard's verdict and lets
// the console decide whether to block or warn.
func (h *Handler) ValidateRange(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.EmployeeID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "employee_id is required")
	}
	if !req.End.After(req.Start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be after start")
	}

	sched, err := h.provider.Schedule(c.Request().Context(), req.EmployeeID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no working hours configured")
		}
		return err
	}

	if rej := Validate(sched, req.Start.Weekday(), req.Start, req.End); rej != nil {
		return c.JSON(http.StatusOK, validateResponse{
			Valid:  false,
			Reason: rej.Reason.String(),
			Detail: rej.Message,
		})
	}
	return c.JSON(http.StatusOK, validateResponse{Valid: true})
}
