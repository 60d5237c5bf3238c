package medication

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
	api.POST("/medications", h.Create)
	api.POST("/medications/list", h.ListByIDs)
	api.GET("/medications/:id/edit", h.EditDetails)
	api.POST("/medications/:id/edit", h.ProcessEdit)
	api.PUT("/medications/:id/deactivate", h.Deactivate)
}

type createMedicationRequest struct {
	PatientID      string   `json:"patientId" validate:"required,uuid"`
	Name           string   `json:"name" validate:"required"`
	Dosage         string   `json:"dosage" validate:"required"`
	IntakeQuantity string   `json:"intakeQuantity" validate:"required"`
	Frequency      int      `json:"frequency" validate:"required,min=1"`
	Timing         *string  `json:"timing"`
	Instructions   string   `json:"instructions"`
	Notes          string   `json:"notes"`
	Times          []string `json:"times" validate:"required,min=1"`
}

func (h *Handler) Create(c echo.Context) error {
	var body createMedicationRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&body); err != nil {
		return apperr.HTTP(err)
	}
	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	med, err := h.svc.Create(c.Request().Context(), CreateRequest{
		PatientID:      patientID,
		Name:           body.Name,
		Dosage:         body.Dosage,
		IntakeQuantity: body.IntakeQuantity,
		Frequency:      body.Frequency,
		Timing:         body.Timing,
		Instructions:   body.Instructions,
		Notes:          body.Notes,
		Times:          body.Times,
	})
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, med)
}

type listMedicationsRequest struct {
	IDs []string `json:"ids" validate:"required,dive,uuid"`
}

func (h *Handler) ListByIDs(c echo.Context) error {
	var body listMedicationsRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&body); err != nil {
		return apperr.HTTP(err)
	}
	ids := make([]uuid.UUID, 0, len(body.IDs))
	for _, raw := range body.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
		}
		ids = append(ids, id)
	}
	meds, err := h.svc.GetByIDs(c.Request().Context(), ids)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, meds)
}

func (h *Handler) EditDetails(c echo.Context) error {
	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	details, err := h.svc.EditDetails(c.Request().Context(), medicationID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, details)
}

type editMedicationRequest struct {
	PatientID string   `json:"patientId" validate:"required,uuid"`
	Frequency int      `json:"frequency" validate:"required,min=1"`
	Times     []string `json:"times" validate:"required,min=1"`
}

func (h *Handler) ProcessEdit(c echo.Context) error {
	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	var body editMedicationRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&body); err != nil {
		return apperr.HTTP(err)
	}
	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	if err := h.svc.ProcessEdit(c.Request().Context(), medicationID, EditRequest{
		PatientID: patientID,
		Frequency: body.Frequency,
		Times:     body.Times,
	}); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) Deactivate(c echo.Context) error {
	medicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medication id")
	}
	if err := h.svc.Deactivate(c.Request().Context(), medicationID); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}
