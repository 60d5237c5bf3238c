package adherence

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
	api.GET("/schedules/:id/missed-dose", h.ScheduleMissedDose)
	api.GET("/medications/:id/missed-dose", h.MedicationMissedDose)
	api.GET("/patients/:id/medications", h.PatientOverview)
}

type missedDoseResponse struct {
	MissedDose bool `json:"missed_dose"`
}

func (h *Handler) ScheduleMissedDose(c echo.Context) error {
	scheduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}
	missed, err := h.svc.HasMissedDose(c.Request().Context(), scheduleID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, missedDoseResponse{MissedDose: missed})
}

func (h *Handler) MedicationMissedDose(c echo.Context) error {
	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	missed, err := h.svc.HasMedicationMissedDose(c.Request().Context(), medicationID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, missedDoseResponse{MissedDose: missed})
}

func (h *Handler) PatientOverview(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	overview, err := h.svc.PatientMedicationOverview(c.Request().Context(), patientID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, overview)
}
