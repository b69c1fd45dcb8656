package handlers

import (
	"errors"
	"net/http"

	"escalas/internal/common"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// PublicHandlers serves the unauthenticated pages reached via forwarded
// links: the shared schedule view and the per-member response form.
type PublicHandlers struct {
	scheduleService services.ScheduleService
	responseService services.ResponseService
}

// NewPublicHandlers creates a new public handlers instance
func NewPublicHandlers(scheduleService services.ScheduleService, responseService services.ResponseService) *PublicHandlers {
	return &PublicHandlers{
		scheduleService: scheduleService,
		responseService: responseService,
	}
}

// GetPublicSchedule handles the read-only shared schedule page
func (h *PublicHandlers) GetPublicSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	scheduleID, err := common.ValidateUUID(c.Param("id"), "schedule ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.scheduleService.GetPublicDetail(ctx, scheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Schedule not found")
	}

	return c.JSON(http.StatusOK, detail)
}

// GetResponseContext handles loading the response form for a member's
// personal token
func (h *PublicHandlers) GetResponseContext(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := common.ValidateUUID(c.Param("token"), "response token")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.responseService.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResponseToken) {
			return echo.NewHTTPError(http.StatusNotFound, "Invalid response link")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load response")
	}

	return c.JSON(http.StatusOK, response)
}

// SubmitResponseRequest represents the response submission payload
type SubmitResponseRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

// SubmitResponse handles a member confirming or declining via their token.
// Resubmitting overwrites the earlier answer.
func (h *PublicHandlers) SubmitResponse(c echo.Context) error {
	ctx := c.Request().Context()

	token, err := common.ValidateUUID(c.Param("token"), "response token")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req SubmitResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	response, err := h.responseService.SubmitByToken(ctx, token, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrInvalidResponseToken) {
			return echo.NewHTTPError(http.StatusNotFound, "Invalid response link")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, response)
}
