package services

import (
	"context"
	"fmt"

	"escalas/internal/common"
	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// AvailabilityService manages per-member unavailability exceptions.
type AvailabilityService interface {
	SetAvailability(ctx context.Context, churchID, memberID uuid.UUID, date string, available bool, notes *string) error
	ListUnavailable(ctx context.Context, churchID, memberID uuid.UUID) ([]*models.MemberAvailability, error)
}

type availabilityService struct {
	availabilityRepo repositories.AvailabilityRepository
	memberRepo       repositories.MemberRepository
}

func NewAvailabilityService(
	availabilityRepo repositories.AvailabilityRepository,
	memberRepo repositories.MemberRepository,
) AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		memberRepo:       memberRepo,
	}
}

// SetAvailability toggles a member's availability on a date. Marking a
// date available deletes the exception row instead of flipping its flag,
// so the table only ever holds unavailability records. The operation is
// idempotent in both directions: re-marking an already-available date is
// a no-op, re-marking an unavailable one just refreshes the notes.
func (s *availabilityService) SetAvailability(ctx context.Context, churchID, memberID uuid.UUID, date string, available bool, notes *string) error {
	// Member must belong to the caller's church.
	if _, err := s.memberRepo.GetByID(ctx, churchID, memberID); err != nil {
		return fmt.Errorf("member not found: %w", err)
	}
	parsedDate, err := common.ValidateDate(date, "date")
	if err != nil {
		return err
	}

	existing, err := s.availabilityRepo.GetByMemberAndDate(ctx, memberID, parsedDate)
	if err != nil {
		return fmt.Errorf("failed to load availability: %w", err)
	}

	if available {
		if existing == nil {
			return nil
		}
		return s.availabilityRepo.Delete(ctx, existing.ID)
	}

	if existing != nil {
		existing.Available = false
		existing.Notes = notes
		return s.availabilityRepo.Update(ctx, existing)
	}
	return s.availabilityRepo.Create(ctx, &models.MemberAvailability{
		ID:        uuid.New(),
		MemberID:  memberID,
		Date:      parsedDate,
		Available: false,
		Notes:     notes,
	})
}

func (s *availabilityService) ListUnavailable(ctx context.Context, churchID, memberID uuid.UUID) ([]*models.MemberAvailability, error) {
	if _, err := s.memberRepo.GetByID(ctx, churchID, memberID); err != nil {
		return nil, fmt.Errorf("member not found: %w", err)
	}
	return s.availabilityRepo.ListUnavailableByMember(ctx, memberID)
}
