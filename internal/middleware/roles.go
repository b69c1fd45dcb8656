package middleware

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

type RolesMiddleware struct {
	rolesService services.RolesService
}

func NewRolesMiddleware(rolesService services.RolesService) *RolesMiddleware {
	return &RolesMiddleware{
		rolesService: rolesService,
	}
}

// RequireRole allows the request through when the user holds any of the
// given roles in the current church. Platform admins always pass.
func (m *RolesMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			churchID, ok := common.GetChurchIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
			}

			hasRole, err := m.rolesService.UserHasRole(ctx, userID, churchID, roles...)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking role")
			}
			if !hasRole {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}
