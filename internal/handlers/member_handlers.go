package handlers

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// MemberHandlers handles volunteer member HTTP requests
type MemberHandlers struct {
	memberService       services.MemberService
	availabilityService services.AvailabilityService
	rolesMiddleware     *middleware.RolesMiddleware
}

// NewMemberHandlers creates a new member handlers instance
func NewMemberHandlers(memberService services.MemberService, availabilityService services.AvailabilityService, rolesMiddleware *middleware.RolesMiddleware) *MemberHandlers {
	return &MemberHandlers{
		memberService:       memberService,
		availabilityService: availabilityService,
		rolesMiddleware:     rolesMiddleware,
	}
}

// ListMembersRequest represents query parameters for listing members
type ListMembersRequest struct {
	MinistryID string `query:"ministry_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// ListMembers handles getting a list of members, optionally per ministry
func (h *MemberHandlers) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMembersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if req.MinistryID != "" {
		ministryID, err := common.ValidateUUID(req.MinistryID, "ministry_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		members, err := h.memberService.ListByMinistry(ctx, churchID, ministryID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list members")
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"members": members,
		})
	}

	members, err := h.memberService.List(ctx, churchID, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list members")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}

// CreateMember handles registering a new volunteer
func (h *MemberHandlers) CreateMember(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var input services.MemberInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	member, err := h.memberService.Create(ctx, churchID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, member)
}

// GetMember handles getting member details by ID
func (h *MemberHandlers) GetMember(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	member, err := h.memberService.GetByID(ctx, churchID, memberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}

	return c.JSON(http.StatusOK, member)
}

// UpdateMember handles updating member details
func (h *MemberHandlers) UpdateMember(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var input services.MemberInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	member, err := h.memberService.Update(ctx, churchID, memberID, &input)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, member)
}

// DeleteMember handles removing a volunteer
func (h *MemberHandlers) DeleteMember(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin, models.RoleMinistryLeader)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if _, err := h.memberService.GetByID(ctx, churchID, memberID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}

	if err := h.memberService.Delete(ctx, churchID, memberID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete member")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Member deleted successfully",
	})
}

// SetAvailabilityRequest represents the availability toggle payload
type SetAvailabilityRequest struct {
	Date      string  `json:"date" validate:"required"`
	Available bool    `json:"available"`
	Notes     *string `json:"notes"`
}

// SetAvailability handles toggling a member's availability on a date.
// Marking available removes the block entirely; the call is idempotent.
func (h *MemberHandlers) SetAvailability(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if err := h.availabilityService.SetAvailability(ctx, churchID, memberID, req.Date, req.Available, req.Notes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"member_id": memberID,
		"date":      req.Date,
		"available": req.Available,
	})
}

// ListUnavailability handles listing a member's blocked dates
func (h *MemberHandlers) ListUnavailability(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "member ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	entries, err := h.availabilityService.ListUnavailable(ctx, churchID, memberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list availability")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"unavailable": entries,
	})
}
