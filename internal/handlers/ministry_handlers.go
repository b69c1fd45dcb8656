package handlers

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// MinistryHandlers handles ministry-related HTTP requests
type MinistryHandlers struct {
	ministryService services.MinistryService
	rolesMiddleware *middleware.RolesMiddleware
}

// NewMinistryHandlers creates a new ministry handlers instance
func NewMinistryHandlers(ministryService services.MinistryService, rolesMiddleware *middleware.RolesMiddleware) *MinistryHandlers {
	return &MinistryHandlers{
		ministryService: ministryService,
		rolesMiddleware: rolesMiddleware,
	}
}

// ListMinistriesRequest represents query parameters for listing ministries
type ListMinistriesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListMinistries handles getting a list of ministries for the church
func (h *MinistryHandlers) ListMinistries(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMinistriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	ministries, err := h.ministryService.List(ctx, churchID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list ministries")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"ministries": ministries,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}

// CreateMinistryRequest represents the ministry creation request payload
type CreateMinistryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// CreateMinistry handles creating a new ministry
func (h *MinistryHandlers) CreateMinistry(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var req CreateMinistryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	ministry, err := h.ministryService.Create(ctx, churchID, req.Name, req.Description)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, ministry)
}

// GetMinistry handles getting ministry details by ID
func (h *MinistryHandlers) GetMinistry(c echo.Context) error {
	ctx := c.Request().Context()

	ministryID, err := common.ValidateUUID(c.Param("id"), "ministry ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	ministry, err := h.ministryService.GetByID(ctx, churchID, ministryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Ministry not found")
	}

	return c.JSON(http.StatusOK, ministry)
}

// UpdateMinistryRequest represents the ministry update request payload
type UpdateMinistryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// UpdateMinistry handles updating ministry details
func (h *MinistryHandlers) UpdateMinistry(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	ministryID, err := common.ValidateUUID(c.Param("id"), "ministry ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req UpdateMinistryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	ministry, err := h.ministryService.Update(ctx, churchID, ministryID, req.Name, req.Description)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ministry)
}

// DeleteMinistry handles deleting a ministry
func (h *MinistryHandlers) DeleteMinistry(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	ministryID, err := common.ValidateUUID(c.Param("id"), "ministry ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if _, err := h.ministryService.GetByID(ctx, churchID, ministryID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Ministry not found")
	}

	if err := h.ministryService.Delete(ctx, churchID, ministryID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete ministry")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Ministry deleted successfully",
	})
}
