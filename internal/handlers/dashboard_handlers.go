package handlers

import (
	"net/http"

	"escalas/internal/analytics"
	"escalas/internal/common"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers handles dashboard statistics and notification requests
type DashboardHandlers struct {
	statsService        *analytics.StatsService
	notificationService services.NotificationService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(statsService *analytics.StatsService, notificationService services.NotificationService) *DashboardHandlers {
	return &DashboardHandlers{
		statsService:        statsService,
		notificationService: notificationService,
	}
}

// GetStats handles getting the cached dashboard aggregate for the church
func (h *DashboardHandlers) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	stats, err := h.statsService.GetDashboardStats(ctx, churchID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard stats")
	}

	return c.JSON(http.StatusOK, stats)
}

// ListNotificationsRequest represents query parameters for listing notifications
type ListNotificationsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListNotifications handles listing the church's in-app notifications
func (h *DashboardHandlers) ListNotifications(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	notifications, err := h.notificationService.List(ctx, churchID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list notifications")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"limit":         req.Limit,
		"offset":        req.Offset,
	})
}

// MarkNotificationRead handles marking a notification as read
func (h *DashboardHandlers) MarkNotificationRead(c echo.Context) error {
	ctx := c.Request().Context()

	notificationID, err := common.ValidateUUID(c.Param("id"), "notification ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if err := h.notificationService.MarkRead(ctx, churchID, notificationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark notification read")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Notification marked as read",
	})
}

// CountUnreadNotifications handles the unread notification badge count
func (h *DashboardHandlers) CountUnreadNotifications(c echo.Context) error {
	ctx := c.Request().Context()

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	count, err := h.notificationService.CountUnread(ctx, churchID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count notifications")
	}

	return c.JSON(http.StatusOK, map[string]int{
		"unread": count,
	})
}
