package handlers

import (
	"errors"
	"net/http"

	"escalas/internal/common"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles signup, login and token lifecycle endpoints
type AuthHandlers struct {
	authService  services.AuthService
	rolesService services.RolesService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, rolesService services.RolesService) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		rolesService: rolesService,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name"`
}

// Signup handles account registration
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tokens, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, tokens)
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles credential authentication
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrTooManyAttempts) {
		return echo.NewHTTPError(http.StatusTooManyRequests, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, tokens)
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}

	tokens, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, tokens)
}

// LogoutRequest represents the logout request payload
type LogoutRequest struct {
	Token     string  `json:"token" validate:"required"`
	TokenType *string `json:"token_type"`
}

// Logout revokes an access or refresh token
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	if err := h.authService.RevokeToken(c.Request().Context(), req.Token, req.TokenType); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to revoke token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Token revoked successfully",
	})
}

// Me returns the authenticated user's identity and church memberships
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	churchID, _ := common.GetChurchIDFromContext(ctx)

	roles, err := h.rolesService.ListRoles(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load roles")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":   userID,
		"church_id": churchID,
		"roles":     roles,
	})
}
