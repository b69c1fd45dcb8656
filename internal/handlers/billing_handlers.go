package handlers

import (
	"io"
	"net/http"

	"escalas/internal/common"
	"escalas/internal/middleware"
	"escalas/internal/models"
	"escalas/internal/services"

	"github.com/labstack/echo/v4"
)

// BillingHandlers handles subscription plan and payment HTTP requests
type BillingHandlers struct {
	billingService  services.BillingService
	rolesMiddleware *middleware.RolesMiddleware
}

// NewBillingHandlers creates a new billing handlers instance
func NewBillingHandlers(billingService services.BillingService, rolesMiddleware *middleware.RolesMiddleware) *BillingHandlers {
	return &BillingHandlers{
		billingService:  billingService,
		rolesMiddleware: rolesMiddleware,
	}
}

// GetPlans handles listing the purchasable subscription plans
func (h *BillingHandlers) GetPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"plans": h.billingService.GetAvailablePlans(),
	})
}

// StartCheckoutRequest represents the checkout creation payload
type StartCheckoutRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
	Email  string `json:"email" validate:"required"`
}

// StartCheckout handles creating a payment checkout session for a plan
func (h *BillingHandlers) StartCheckout(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var req StartCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.PlanID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Plan ID is required")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	session, err := h.billingService.StartCheckout(ctx, churchID, req.PlanID, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, session)
}

// CancelSubscriptionRequest represents the cancellation payload
type CancelSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
}

// CancelSubscription handles asking the provider to stop renewing the
// church's subscription. Access keeps running until the paid end date;
// the downgrade is applied when the provider's webhook arrives.
func (h *BillingHandlers) CancelSubscription(c echo.Context) error {
	err := h.rolesMiddleware.RequireRole(models.RoleChurchAdmin)(func(c echo.Context) error {
		return nil
	})(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	var req CancelSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.SubscriptionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Subscription ID is required")
	}

	churchID, ok := common.GetChurchIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Church not found")
	}

	if err := h.billingService.CancelSubscription(ctx, churchID, req.SubscriptionID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "cancellation_requested",
	})
}

// HandleWebhook handles verified payment provider callbacks. The raw body
// is read before binding because the signature covers the exact bytes.
func (h *BillingHandlers) HandleWebhook(c echo.Context) error {
	signature := c.Request().Header.Get("X-Webhook-Signature")
	if signature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing webhook signature")
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read webhook body")
	}

	if err := h.billingService.HandleWebhook(c.Request().Context(), body, signature); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "processed",
	})
}
