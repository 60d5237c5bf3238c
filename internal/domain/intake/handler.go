package intake

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adherd/adherd/internal/platform/apperr"
	"github.com/adherd/adherd/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/intake-records", h.CreateRecord)
	api.PUT("/intake-records/:id/doctor-note", h.UpdateDoctorNote)
	api.GET("/medications/:id/logs", h.LogsForMedication)
	api.GET("/patients/:id/intake-history", h.HistoryForPatient)
}

type createRecordRequest struct {
	ScheduleID      string  `json:"scheduleId" validate:"required,uuid"`
	PatientID       string  `json:"patientId" validate:"required,uuid"`
	LoggedDate      string  `json:"loggedDate" validate:"required"`
	Taken           *bool   `json:"taken" validate:"required"`
	ClientRequestID *string `json:"clientRequestId"`
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var body createRecordRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&body); err != nil {
		return apperr.HTTP(err)
	}

	scheduleID, err := uuid.Parse(body.ScheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}
	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	loggedDate, err := time.Parse("2006-01-02", body.LoggedDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid logged date, expected YYYY-MM-DD")
	}

	rec, err := h.svc.CreateRecord(c.Request().Context(), CreateRequest{
		ScheduleID:      scheduleID,
		PatientID:       patientID,
		LoggedDate:      loggedDate,
		Taken:           *body.Taken,
		ClientRequestID: body.ClientRequestID,
	})
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

type doctorNoteRequest struct {
	DoctorNote *string `json:"doctorNote" validate:"required"`
}

func (h *Handler) UpdateDoctorNote(c echo.Context) error {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid intake record id")
	}
	var body doctorNoteRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&body); err != nil {
		return apperr.HTTP(err)
	}
	rec, err := h.svc.UpdateDoctorNote(c.Request().Context(), recordID, *body.DoctorNote)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) LogsForMedication(c echo.Context) error {
	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	pg := pagination.FromContext(c)
	entries, total, err := h.svc.LogsForMedication(c.Request().Context(), medicationID, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}

func (h *Handler) HistoryForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	entries, total, err := h.svc.HistoryForPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, pg.Limit, pg.Offset))
}
