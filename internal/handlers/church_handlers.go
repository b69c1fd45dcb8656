package handlers

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ChurchHandlers handles church management HTTP requests
type ChurchHandlers struct {
	churchService   services.ChurchService
	accessService   services.AccessService
	rolesMiddleware *middleware.RolesMiddleware
	auditMiddleware *middleware.AuditMiddleware
}

// NewChurchHandlers creates a new church handlers instance
func NewChurchHandlers(churchService services.ChurchService, accessService services.AccessService, rolesMiddleware *middleware.RolesMiddleware, auditMiddleware *middleware.AuditMiddleware) *ChurchHandlers {
	return &ChurchHandlers{
		churchService:   churchService,
		accessService:   accessService,
		rolesMiddleware: rolesMiddleware,
		auditMiddleware: auditMiddleware,
	}
}

// CreateChurchRequest represents the church creation request payload
type CreateChurchRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateChurch handles creating a church for the authenticated user.
// The creator becomes its church_admin and the 15-day trial starts now.
func (h *ChurchHandlers) CreateChurch(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateChurchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	church, err := h.churchService.Create(ctx, userID, req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, church)
}

// GetChurch handles getting the authenticated user's church
func (h *ChurchHandlers) GetChurch(c echo.Context) error {
	ctx := c.Request().Context()

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	church, err := h.churchService.GetByID(ctx, churchID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Church not found")
	}

	return c.JSON(http.StatusOK, church)
}

// GetAccessStatus returns the gating verdict for the current church:
// whether it is active, on trial, and how many days remain.
func (h *ChurchHandlers) GetAccessStatus(c echo.Context) error {
	ctx := c.Request().Context()

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	status, err := h.accessService.CheckAccess(ctx, churchID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check access")
	}

	return c.JSON(http.StatusOK, status)
}

// UpdateChurchRequest represents the church update request payload
type UpdateChurchRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateChurch handles renaming a church
func (h *ChurchHandlers) UpdateChurch(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var req UpdateChurchRequest
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

	// Snapshot the entity before the write so the audit trail carries the diff.
	var oldEntity interface{}
	if existing, err := h.churchService.GetByID(ctx, churchID); err == nil {
		oldEntity = existing
	}

	church, err := h.churchService.Update(ctx, churchID, req.Name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var changedBy *uuid.UUID
	if userID, hasUser := common.GetUserIDFromContext(ctx); hasUser {
		changedBy = &userID
	}
	if auditErr := h.auditMiddleware.AuditEntityChange(ctx, churchID, changedBy, "churches", churchID.String(), "update", oldEntity, church); auditErr != nil {
		c.Logger().Errorf("Failed to audit church update: %v", auditErr)
	}

	return c.JSON(http.StatusOK, church)
}

// UploadLogo handles the multipart logo upload for a church
func (h *ChurchHandlers) UploadLogo(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Logo file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read logo file")
	}
	defer src.Close()

	logoURL, err := h.churchService.UploadLogo(ctx, churchID, file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload logo")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"logo_url": logoURL,
	})
}

// DeleteChurch handles deleting a church and all its data
func (h *ChurchHandlers) DeleteChurch(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if err := h.churchService.Delete(ctx, churchID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete church")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Church deleted successfully",
	})
}
