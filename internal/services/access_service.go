package services

import (
	"context"
	"time"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// AccessStatus is the full gating verdict for a church. DaysLeft is nil
// when no countdown applies (paid plan without an end date, or a blocked
// church with nothing to count down from).
type AccessStatus struct {
	Active    bool   `json:"active"`
	Plan      string `json:"plan"`
	InTrial   bool   `json:"in_trial"`
	DaysLeft  *int   `json:"days_left"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// AccessService decides whether a church may keep using the application.
type AccessService interface {
	CheckAccess(ctx context.Context, churchID uuid.UUID) (*AccessStatus, error)
}

type accessService struct {
	churchRepo repositories.ChurchRepository
}

func NewAccessService(churchRepo repositories.ChurchRepository) AccessService {
	return &accessService{churchRepo: churchRepo}
}

func (s *accessService) CheckAccess(ctx context.Context, churchID uuid.UUID) (*AccessStatus, error) {
	church, err := s.churchRepo.GetByID(ctx, churchID)
	if err != nil {
		// Fail closed on lookup errors: an unreadable church is a blocked church.
		return &AccessStatus{Active: false}, err
	}
	return EvaluateAccess(church, time.Now()), nil
}

// EvaluateAccess applies the gating rules to a church as of the given
// moment. The day arithmetic works on whole calendar days: both sides are
// truncated to midnight before subtracting, so access expires at the end
// of the last day, never mid-day.
//
// Free plan: an explicit subscription_end_date wins over the trial window
// (covers cancelled paid plans with remaining paid days). Otherwise the
// 15-day trial counts from trial_start_date, day 0 inclusive. A free
// church with neither date set is blocked.
//
// Paid plan: an end date gates exactly like the free case; no end date
// fails open, so a billing sync glitch never locks a paying church out.
func EvaluateAccess(church *models.Church, now time.Time) *AccessStatus {
	if church == nil {
		return &AccessStatus{Active: false}
	}

	status := &AccessStatus{Plan: church.SubscriptionPlan}
	today := truncateToDay(now)

	if church.IsFreePlan() {
		if church.SubscriptionEndDate != nil {
			daysLeft := wholeDaysBetween(today, truncateToDay(*church.SubscriptionEndDate))
			status.Active = daysLeft >= 0
			status.DaysLeft = &daysLeft
			status.ExpiresAt = church.SubscriptionEndDate.Format("2006-01-02")
			return status
		}
		if church.TrialStartDate != nil {
			elapsed := wholeDaysBetween(truncateToDay(*church.TrialStartDate), today)
			daysLeft := models.TrialDays - elapsed
			status.Active = daysLeft >= 0
			status.InTrial = true
			status.DaysLeft = &daysLeft
			return status
		}
		// No trial start and no paid runway: nothing grants access.
		return status
	}

	if church.SubscriptionEndDate != nil {
		daysLeft := wholeDaysBetween(today, truncateToDay(*church.SubscriptionEndDate))
		status.Active = daysLeft >= 0
		status.DaysLeft = &daysLeft
		status.ExpiresAt = church.SubscriptionEndDate.Format("2006-01-02")
		return status
	}

	// Paid plan with no recorded end date.
	status.Active = true
	return status
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// wholeDaysBetween returns to minus from in whole calendar days. Both
// dates are re-anchored at midnight UTC before subtracting: UTC has no
// DST, so the difference is always an exact multiple of 24 hours and a
// spring-forward day in the church's zone cannot shave it below a full
// day.
func wholeDaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
