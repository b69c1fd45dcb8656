package handlers

import (
	"net/http"
	"strconv"
	"time"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/repositories"
	"escalas/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
	rolesMiddleware  *middleware.RolesMiddleware
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService, rolesMiddleware *middleware.RolesMiddleware) *AuditLogsHandlers {
	return &AuditLogsHandlers{
		auditLogsService: auditLogsService,
		rolesMiddleware:  rolesMiddleware,
	}
}

// ListAuditLogs retrieves audit logs with filtering and pagination
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
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

	// Parse query parameters
	filters := &repositories.AuditLogFilters{}
	if table := c.QueryParam("table"); table != "" {
		filters.TableName = &table
	}
	if recordID := c.QueryParam("record_id"); recordID != "" {
		filters.RecordID = &recordID
	}
	if action := c.QueryParam("action"); action != "" {
		filters.Action = &action
	}
	if userID := c.QueryParam("user_id"); userID != "" {
		if uid, err := uuid.Parse(userID); err == nil {
			filters.ChangedBy = &uid
		}
	}
	if startDate := c.QueryParam("start_date"); startDate != "" {
		if sd, err := time.Parse("2006-01-02", startDate); err == nil {
			filters.StartDate = &sd
		}
	}
	if endDate := c.QueryParam("end_date"); endDate != "" {
		if ed, err := time.Parse("2006-01-02", endDate); err == nil {
			filters.EndDate = &ed
		}
	}

	// Parse pagination
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	filters.Limit = limit
	filters.Offset = offset

	logs, err := h.auditLogsService.ListAuditLogs(ctx, churchID, filters)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve audit logs")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   logs,
		"total":  len(logs),
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}

// GetEntityHistory retrieves audit history for a specific entity
func (h *AuditLogsHandlers) GetEntityHistory(c echo.Context) error {
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

	tableName := c.Param("table")
	recordID := c.Param("record_id")
	if tableName == "" || recordID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Table name and record ID are required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := h.auditLogsService.GetEntityHistory(ctx, churchID, tableName, recordID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve entity history")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":      logs,
		"total":     len(logs),
		"limit":     limit,
		"offset":    offset,
		"table":     tableName,
		"record_id": recordID,
	})
}
