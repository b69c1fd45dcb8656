package handlers

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// TemplateHandlers handles schedule template HTTP requests
type TemplateHandlers struct {
	templateService services.TemplateService
	rolesMiddleware *middleware.RolesMiddleware
}

// NewTemplateHandlers creates a new template handlers instance
func NewTemplateHandlers(templateService services.TemplateService, rolesMiddleware *middleware.RolesMiddleware) *TemplateHandlers {
	return &TemplateHandlers{
		templateService: templateService,
		rolesMiddleware: rolesMiddleware,
	}
}

// ListTemplatesRequest represents query parameters for listing templates
type ListTemplatesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListTemplates handles getting a list of schedule templates
func (h *TemplateHandlers) ListTemplates(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListTemplatesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	templates, err := h.templateService.List(ctx, churchID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list templates")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": templates,
		"limit":     req.Limit,
		"offset":    req.Offset,
	})
}

// CreateTemplate handles creating a reusable schedule template
func (h *TemplateHandlers) CreateTemplate(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var input services.TemplateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	template, err := h.templateService.Create(ctx, churchID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, template)
}

// GetTemplate handles getting a template with its function slots
func (h *TemplateHandlers) GetTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	templateID, err := common.ValidateUUID(c.Param("id"), "template ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	template, err := h.templateService.GetByID(ctx, churchID, templateID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	return c.JSON(http.StatusOK, template)
}

// UpdateTemplate handles updating a template and replacing its functions
func (h *TemplateHandlers) UpdateTemplate(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	templateID, err := common.ValidateUUID(c.Param("id"), "template ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input services.TemplateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	template, err := h.templateService.Update(ctx, churchID, templateID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, template)
}

// DeleteTemplate handles deleting a template
func (h *TemplateHandlers) DeleteTemplate(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	templateID, err := common.ValidateUUID(c.Param("id"), "template ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if _, err := h.templateService.GetByID(ctx, churchID, templateID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Template not found")
	}

	if err := h.templateService.Delete(ctx, churchID, templateID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete template")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Template deleted successfully",
	})
}
