package handlers

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/repositories"
	"escalas/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ScheduleHandlers handles schedule and roster HTTP requests
type ScheduleHandlers struct {
	scheduleService services.ScheduleService
	rolesMiddleware *middleware.RolesMiddleware
	auditMiddleware *middleware.AuditMiddleware
}

// NewScheduleHandlers creates a new schedule handlers instance
func NewScheduleHandlers(scheduleService services.ScheduleService, rolesMiddleware *middleware.RolesMiddleware, auditMiddleware *middleware.AuditMiddleware) *ScheduleHandlers {
	return &ScheduleHandlers{
		scheduleService: scheduleService,
		rolesMiddleware: rolesMiddleware,
		auditMiddleware: auditMiddleware,
	}
}

// ListSchedulesRequest represents query parameters for listing schedules
type ListSchedulesRequest struct {
	MinistryID string `query:"ministry_id"`
	FromDate   string `query:"from_date"`
	ToDate     string `query:"to_date"`
	EventType  string `query:"event_type"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListSchedules handles getting a filtered list of schedules
func (h *ScheduleHandlers) ListSchedules(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListSchedulesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	filters := &repositories.ScheduleFilters{}
	if req.MinistryID != "" {
		ministryID, err := common.ValidateUUID(req.MinistryID, "ministry_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.MinistryID = &ministryID
	}
	if req.FromDate != "" {
		if _, err := common.ValidateDate(req.FromDate, "from_date"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.FromDate = &req.FromDate
	}
	if req.ToDate != "" {
		if _, err := common.ValidateDate(req.ToDate, "to_date"); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filters.ToDate = &req.ToDate
	}
	if req.EventType != "" {
		if !models.ValidEventType(req.EventType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid event type")
		}
		filters.EventType = &req.EventType
	}

	schedules, err := h.scheduleService.List(ctx, churchID, filters, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list schedules")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"schedules": schedules,
		"limit":     req.Limit,
		"offset":    req.Offset,
	})
}

// CreateSchedule handles creating a schedule or a recurring series.
// Conflict warnings come back alongside the created schedules; they are
// advisory and never block the save.
func (h *ScheduleHandlers) CreateSchedule(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var input services.ScheduleInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	result, err := h.scheduleService.Create(ctx, churchID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, result)
}

// GetSchedule handles getting a schedule with its full roster
func (h *ScheduleHandlers) GetSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	scheduleID, err := common.ValidateUUID(c.Param("id"), "schedule ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	detail, err := h.scheduleService.GetDetail(ctx, churchID, scheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Schedule not found")
	}

	return c.JSON(http.StatusOK, detail)
}

// UpdateSchedule handles rewriting a schedule and its roster
func (h *ScheduleHandlers) UpdateSchedule(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	scheduleID, err := common.ValidateUUID(c.Param("id"), "schedule ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input services.ScheduleInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	// Snapshot the entity before the write so the audit trail carries the diff.
	var oldEntity interface{}
	if detail, err := h.scheduleService.GetDetail(ctx, churchID, scheduleID); err == nil {
		oldEntity = detail.Schedule
	}

	result, err := h.scheduleService.Update(ctx, churchID, scheduleID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var changedBy *uuid.UUID
	if userID, hasUser := common.GetUserIDFromContext(ctx); hasUser {
		changedBy = &userID
	}
	var newEntity interface{}
	if len(result.Schedules) > 0 {
		newEntity = result.Schedules[0]
	}
	if auditErr := h.auditMiddleware.AuditEntityChange(ctx, churchID, changedBy, "schedules", scheduleID.String(), "update", oldEntity, newEntity); auditErr != nil {
		c.Logger().Errorf("Failed to audit schedule update: %v", auditErr)
	}

	return c.JSON(http.StatusOK, result)
}

// DeleteSchedule handles deleting a schedule
func (h *ScheduleHandlers) DeleteSchedule(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	scheduleID, err := common.ValidateUUID(c.Param("id"), "schedule ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if err := h.scheduleService.Delete(ctx, churchID, scheduleID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Schedule not found")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Schedule deleted successfully",
	})
}

// CheckConflictsRequest represents the conflict pre-check payload
type CheckConflictsRequest struct {
	MemberIDs         []uuid.UUID `json:"member_ids"`
	EventDate         string      `json:"event_date" validate:"required"`
	EventTime         string      `json:"event_time" validate:"required"`
	ExcludeScheduleID *uuid.UUID  `json:"exclude_schedule_id"`
}

// CheckConflicts handles the pre-save conflict check the roster editor
// calls while the user picks members
func (h *ScheduleHandlers) CheckConflicts(c echo.Context) error {
	ctx := c.Request().Context()

	var req CheckConflictsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if len(req.MemberIDs) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"conflicts": map[string]interface{}{},
		})
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	conflicts, err := h.scheduleService.CheckConflicts(ctx, churchID, req.MemberIDs, req.EventDate, req.EventTime, req.ExcludeScheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"conflicts": conflicts,
	})
}

// GetShareLink handles building the WhatsApp share link for a schedule
func (h *ScheduleHandlers) GetShareLink(c echo.Context) error {
	ctx := c.Request().Context()

	scheduleID, err := common.ValidateUUID(c.Param("id"), "schedule ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	link, err := h.scheduleService.ShareLink(ctx, churchID, scheduleID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Schedule not found")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"share_link": link,
	})
}
