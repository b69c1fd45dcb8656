package services

import (
	"context"
	"fmt"
	"time"

	"escalas/internal/caching"
	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// PlanConfig describes a purchasable subscription plan. MemberLimit is
// how many volunteers the plan allows; zero means unlimited.
type PlanConfig struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	Interval    string   `json:"interval"`
	MemberLimit int      `json:"member_limit"`
	Features    []string `json:"features"`
}

// The free trial carries the same member cap as the entry plan.
const freeTierMemberLimit = 30

var availablePlans = map[string]PlanConfig{
	models.PlanBasic: {
		ID:          models.PlanBasic,
		Name:        "Básico",
		Amount:      29.90,
		Currency:    "BRL",
		Interval:    "monthly",
		MemberLimit: 30,
		Features: []string{
			"Até 30 membros",
			"Escalas ilimitadas",
			"Confirmação por link",
		},
	},
	models.PlanPro: {
		ID:          models.PlanPro,
		Name:        "Pro",
		Amount:      49.90,
		Currency:    "BRL",
		Interval:    "monthly",
		MemberLimit: 80,
		Features: []string{
			"Até 80 membros",
			"Modelos de escala",
			"Lembretes automáticos",
		},
	},
	models.PlanPremium: {
		ID:          models.PlanPremium,
		Name:        "Premium",
		Amount:      79.90,
		Currency:    "BRL",
		Interval:    "monthly",
		MemberLimit: 0,
		Features: []string{
			"Membros ilimitados",
			"Tudo do Pro",
			"Suporte prioritário",
		},
	},
}

// MemberLimitForPlan returns how many volunteers a plan allows; zero
// means unlimited. Plans that are not purchasable (the free trial, or an
// unknown value) fall back to the free tier cap.
func MemberLimitForPlan(planID string) int {
	if plan, exists := availablePlans[planID]; exists {
		return plan.MemberLimit
	}
	return freeTierMemberLimit
}

// BillingService sells plans and applies payment outcomes to churches.
type BillingService interface {
	GetAvailablePlans() map[string]PlanConfig
	StartCheckout(ctx context.Context, churchID uuid.UUID, planID, customerEmail string) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, churchID uuid.UUID, providerSubscriptionID string) error
	HandleWebhook(ctx context.Context, rawData []byte, signature string) error
}

type billingService struct {
	churchRepo repositories.ChurchRepository
	paymentSvc PaymentService
	cacheSvc   caching.CacheService
}

func NewBillingService(
	churchRepo repositories.ChurchRepository,
	paymentSvc PaymentService,
	cacheSvc caching.CacheService,
) BillingService {
	return &billingService{
		churchRepo: churchRepo,
		paymentSvc: paymentSvc,
		cacheSvc:   cacheSvc,
	}
}

func (s *billingService) GetAvailablePlans() map[string]PlanConfig {
	// Return a copy to prevent external modifications
	result := make(map[string]PlanConfig, len(availablePlans))
	for k, v := range availablePlans {
		result[k] = v
	}
	return result
}

func (s *billingService) StartCheckout(ctx context.Context, churchID uuid.UUID, planID, customerEmail string) (*CheckoutSession, error) {
	plan, exists := availablePlans[planID]
	if !exists {
		return nil, fmt.Errorf("invalid plan: %s", planID)
	}
	if _, err := s.churchRepo.GetByID(ctx, churchID); err != nil {
		return nil, fmt.Errorf("church not found: %w", err)
	}
	return s.paymentSvc.CreateCheckout(ctx, churchID, plan.ID, customerEmail, plan.Amount)
}

// CancelSubscription asks the provider to stop renewing. The downgrade
// itself arrives later through the subscription.canceled webhook, so the
// church keeps its already-paid end date.
func (s *billingService) CancelSubscription(ctx context.Context, churchID uuid.UUID, providerSubscriptionID string) error {
	if providerSubscriptionID == "" {
		return fmt.Errorf("subscription ID is required")
	}
	church, err := s.churchRepo.GetByID(ctx, churchID)
	if err != nil {
		return fmt.Errorf("church not found: %w", err)
	}
	if church.IsFreePlan() {
		return fmt.Errorf("church has no paid subscription to cancel")
	}
	return s.paymentSvc.CancelSubscription(ctx, providerSubscriptionID)
}

// HandleWebhook applies a verified provider event. A successful payment
// puts the church on the paid plan for one month from now; a cancellation
// drops it back to free but keeps the already-paid end date, so access
// runs out instead of stopping dead.
func (s *billingService) HandleWebhook(ctx context.Context, rawData []byte, signature string) error {
	event, err := s.paymentSvc.WebhookVerify(rawData, signature)
	if err != nil {
		return err
	}

	reference, _ := event.Data["reference"].(string)
	churchID, err := uuid.Parse(reference)
	if err != nil {
		return fmt.Errorf("webhook carries no valid church reference: %w", err)
	}

	switch event.Event {
	case WebhookPaymentSucceeded:
		planID, _ := event.Data["plan_id"].(string)
		if _, exists := availablePlans[planID]; !exists {
			return fmt.Errorf("webhook names unknown plan %q", planID)
		}
		endDate := time.Now().AddDate(0, 1, 0)
		if err := s.churchRepo.UpdateSubscription(ctx, churchID, planID, &endDate); err != nil {
			return fmt.Errorf("failed to apply payment: %w", err)
		}
	case WebhookSubscriptionCanceled:
		church, err := s.churchRepo.GetByID(ctx, churchID)
		if err != nil {
			return fmt.Errorf("failed to load church for cancellation: %w", err)
		}
		if err := s.churchRepo.UpdateSubscription(ctx, churchID, models.PlanFree, church.SubscriptionEndDate); err != nil {
			return fmt.Errorf("failed to apply cancellation: %w", err)
		}
	default:
		// Unknown events are acknowledged and ignored.
		return nil
	}

	return s.cacheSvc.DeleteChurch(ctx, churchID)
}
