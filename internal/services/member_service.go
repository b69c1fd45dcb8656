package services

import (
	"context"
	"fmt"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// MemberInput is the create/update payload for a volunteer.
type MemberInput struct {
	MinistryID   uuid.UUID `json:"ministry_id"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	Observations *string   `json:"observations"`
}

type MemberService interface {
	Create(ctx context.Context, churchID uuid.UUID, input *MemberInput) (*models.Member, error)
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Member, error)
	Update(ctx context.Context, churchID, id uuid.UUID, input *MemberInput) (*models.Member, error)
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Member, error)
	ListByMinistry(ctx context.Context, churchID, ministryID uuid.UUID) ([]*models.Member, error)
}

type memberService struct {
	memberRepo   repositories.MemberRepository
	ministryRepo repositories.MinistryRepository
	churchRepo   repositories.ChurchRepository
}

func NewMemberService(
	memberRepo repositories.MemberRepository,
	ministryRepo repositories.MinistryRepository,
	churchRepo repositories.ChurchRepository,
) MemberService {
	return &memberService{
		memberRepo:   memberRepo,
		ministryRepo: ministryRepo,
		churchRepo:   churchRepo,
	}
}

func (s *memberService) Create(ctx context.Context, churchID uuid.UUID, input *MemberInput) (*models.Member, error) {
	if err := s.validateInput(ctx, churchID, input); err != nil {
		return nil, err
	}
	if err := s.checkMemberLimit(ctx, churchID); err != nil {
		return nil, err
	}

	member := &models.Member{
		ID:           uuid.New(),
		ChurchID:     churchID,
		MinistryID:   input.MinistryID,
		Name:         input.Name,
		Phone:        input.Phone,
		Observations: input.Observations,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

func (s *memberService) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Member, error) {
	return s.memberRepo.GetByID(ctx, churchID, id)
}

func (s *memberService) Update(ctx context.Context, churchID, id uuid.UUID, input *MemberInput) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, churchID, input); err != nil {
		return nil, err
	}

	member.MinistryID = input.MinistryID
	member.Name = input.Name
	member.Phone = input.Phone
	member.Observations = input.Observations
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

func (s *memberService) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.memberRepo.GetByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, churchID, id)
}

func (s *memberService) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Member, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.memberRepo.List(ctx, churchID, limit, offset)
}

func (s *memberService) ListByMinistry(ctx context.Context, churchID, ministryID uuid.UUID) ([]*models.Member, error) {
	return s.memberRepo.ListByMinistry(ctx, churchID, ministryID)
}

// checkMemberLimit enforces the plan's volunteer cap on creation.
// Existing members over the cap are never touched; only new ones are
// refused.
func (s *memberService) checkMemberLimit(ctx context.Context, churchID uuid.UUID) error {
	church, err := s.churchRepo.GetByID(ctx, churchID)
	if err != nil {
		return fmt.Errorf("failed to load church: %w", err)
	}

	limit := MemberLimitForPlan(church.SubscriptionPlan)
	if limit <= 0 {
		return nil
	}

	count, err := s.memberRepo.Count(ctx, churchID)
	if err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if count >= limit {
		return fmt.Errorf("member limit reached: plan allows up to %d members", limit)
	}
	return nil
}

func (s *memberService) validateInput(ctx context.Context, churchID uuid.UUID, input *MemberInput) error {
	if input.Name == "" {
		return fmt.Errorf("member name is required")
	}
	if _, err := s.ministryRepo.GetByID(ctx, churchID, input.MinistryID); err != nil {
		return fmt.Errorf("ministry not found: %w", err)
	}
	return nil
}
