package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription plan identifiers. "free" covers both the trial period and
// a cancelled paid plan that still has a future subscription_end_date.
const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPro     = "pro"
	PlanPremium = "premium"
)

// TrialDays is the fixed full-access trial window for free-plan churches.
const TrialDays = 15

// Church is the tenant root. All other rows are scoped to a church ID.
type Church struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	OwnerUserID         uuid.UUID  `json:"owner_user_id" db:"owner_user_id"`
	SubscriptionPlan    string     `json:"subscription_plan" db:"subscription_plan"`
	TrialStartDate      *time.Time `json:"trial_start_date" db:"trial_start_date"`
	SubscriptionEndDate *time.Time `json:"subscription_end_date" db:"subscription_end_date"`
	LogoURL             *string    `json:"logo_url" db:"logo_url"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidPlan reports whether plan is one of the known subscription plans.
func ValidPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanBasic, PlanPro, PlanPremium:
		return true
	}
	return false
}

// IsFreePlan reports whether the church is on the free plan.
func (c *Church) IsFreePlan() bool {
	return c.SubscriptionPlan == PlanFree
}
