package schedule

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adherd/adherd/internal/platform/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/schedules/find", h.FindByPatientAndTime)
	api.GET("/patients/:id/daily-schedule", h.DailySchedule)
}

type findScheduleRequest struct {
	PatientID string `json:"patientId" validate:"required,uuid"`
	Time      string `json:"time" validate:"required"`
}

func (h *Handler) FindByPatientAndTime(c echo.Context) error {
	var req findScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return apperr.HTTP(err)
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	t, err := ParseTimeOfDay(req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	schedules, err := h.svc.FindByPatientAndTime(c.Request().Context(), patientID, t)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, schedules)
}

func (h *Handler) DailySchedule(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	slots, err := h.svc.DailyScheduleForPatient(c.Request().Context(), patientID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, slots)
}
