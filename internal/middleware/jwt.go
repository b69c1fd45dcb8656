package middleware

import (
	"net/http"
	"strings"

	"escalas/internal/common"
	"escalas/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the Bearer access token and stores the
// authenticated user and church IDs on the request context. The church ID
// comes from the token claims; users without a church carry the nil UUID.
func JWTMiddleware(authService services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := authService.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id in token")
			}

			churchID, err := uuid.Parse(claims.ChurchID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid church_id in token")
			}

			ctx := common.WithRequestScope(c.Request().Context(), userID, churchID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireChurch rejects requests from users who have not created or joined
// a church yet. Routes that operate on church data sit behind this.
func RequireChurch() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			churchID, ok := common.GetChurchIDFromContext(c.Request().Context())
			if !ok || churchID == uuid.Nil {
				return echo.NewHTTPError(http.StatusForbidden, "No church associated with this account")
			}
			return next(c)
		}
	}
}
