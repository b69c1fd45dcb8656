package handlers

import (
	"errors"
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// InvitationHandlers handles church invitation HTTP requests
type InvitationHandlers struct {
	invitationService services.InvitationService
	rolesMiddleware   *middleware.RolesMiddleware
}

// NewInvitationHandlers creates a new invitation handlers instance
func NewInvitationHandlers(invitationService services.InvitationService, rolesMiddleware *middleware.RolesMiddleware) *InvitationHandlers {
	return &InvitationHandlers{
		invitationService: invitationService,
		rolesMiddleware:   rolesMiddleware,
	}
}

// InviteRequest represents the invitation creation payload
type InviteRequest struct {
	Email string `json:"email" validate:"required"`
	Role  string `json:"role" validate:"required"`
}

// Invite handles inviting a user into the church with a role
func (h *InvitationHandlers) Invite(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var req InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	invitation, err := h.invitationService.Invite(ctx, churchID, userID, req.Email, req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, invitation)
}

// ListInvitations handles listing a church's pending invitations
func (h *InvitationHandlers) ListInvitations(c echo.Context) error {
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

	invitations, err := h.invitationService.List(ctx, churchID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list invitations")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invitations": invitations,
	})
}

// AcceptInvitationRequest represents the invitation acceptance payload
type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

// AcceptInvitation handles a signed-in user accepting an invitation token
func (h *InvitationHandlers) AcceptInvitation(c echo.Context) error {
	ctx := c.Request().Context()

	var req AcceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	token, err := common.ValidateUUID(req.Token, "token")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	role, err := h.invitationService.Accept(ctx, token, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Invitation not found")
		case errors.Is(err, services.ErrInvitationExpired):
			return echo.NewHTTPError(http.StatusGone, "Invitation has expired")
		case errors.Is(err, services.ErrInvitationUsed):
			return echo.NewHTTPError(http.StatusConflict, "Invitation already used")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to accept invitation")
		}
	}

	return c.JSON(http.StatusOK, role)
}

// RevokeInvitation handles revoking a pending invitation
func (h *InvitationHandlers) RevokeInvitation(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	invitationID, err := common.ValidateUUID(c.Param("id"), "invitation ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if err := h.invitationService.Revoke(ctx, churchID, invitationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke invitation")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Invitation revoked successfully",
	})
}
