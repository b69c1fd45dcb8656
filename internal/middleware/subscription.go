package middleware

import (
	"net/http"

	"escalas/internal/common"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionMiddleware blocks mutating requests once a church's trial or
// subscription has run out. Reads stay open so an expired church can still
// see its data and reach the billing page.
type SubscriptionMiddleware struct {
	accessService services.AccessService
}

func NewSubscriptionMiddleware(accessService services.AccessService) *SubscriptionMiddleware {
	return &SubscriptionMiddleware{
		accessService: accessService,
	}
}

func (m *SubscriptionMiddleware) RequireActiveAccess() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			ctx := c.Request().Context()
			churchID, ok := common.GetChurchIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
			}

			status, err := m.accessService.CheckAccess(ctx, churchID)
			if err != nil {
				// Fail closed: an unverifiable subscription blocks writes.
				return echo.NewHTTPError(http.StatusForbidden, "Unable to verify subscription")
			}
			if !status.Active {
				return echo.NewHTTPError(http.StatusPaymentRequired, "Subscription expired")
			}

			return next(c)
		}
	}
}
