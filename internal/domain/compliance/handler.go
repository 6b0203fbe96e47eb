package compliance

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/woundcare/woundcare/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "biller"))
	readGroup.GET("/episodes/:id/compliance", h.AssessEpisode)
	readGroup.GET("/patients/:patientId/compliance-summary", h.AssessPatient)
}

func (h *Handler) AssessEpisode(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	result, err := h.svc.AssessEpisode(c.Request().Context(), id)
	if err != nil {
		// "Assessment unavailable due to bad input" is distinct from a
		// computed non-compliant result; surface it as a client error.
		var ve *ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, ve.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, "episode not found")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) AssessPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	summary, err := h.svc.AssessPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}
