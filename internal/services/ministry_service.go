package services

import (
	"context"
	"fmt"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

type MinistryService interface {
	Create(ctx context.Context, churchID uuid.UUID, name string, description *string) (*models.Ministry, error)
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Ministry, error)
	Update(ctx context.Context, churchID, id uuid.UUID, name string, description *string) (*models.Ministry, error)
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Ministry, error)
}

type ministryService struct {
	ministryRepo repositories.MinistryRepository
}

func NewMinistryService(ministryRepo repositories.MinistryRepository) MinistryService {
	return &ministryService{ministryRepo: ministryRepo}
}

func (s *ministryService) Create(ctx context.Context, churchID uuid.UUID, name string, description *string) (*models.Ministry, error) {
	if name == "" {
		return nil, fmt.Errorf("ministry name is required")
	}

	ministry := &models.Ministry{
		ID:          uuid.New(),
		ChurchID:    churchID,
		Name:        name,
		Description: description,
	}
	if err := s.ministryRepo.Create(ctx, ministry); err != nil {
		return nil, fmt.Errorf("failed to create ministry: %w", err)
	}
	return ministry, nil
}

func (s *ministryService) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Ministry, error) {
	return s.ministryRepo.GetByID(ctx, churchID, id)
}

func (s *ministryService) Update(ctx context.Context, churchID, id uuid.UUID, name string, description *string) (*models.Ministry, error) {
	ministry, err := s.ministryRepo.GetByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("ministry name is required")
	}

	ministry.Name = name
	ministry.Description = description
	if err := s.ministryRepo.Update(ctx, ministry); err != nil {
		return nil, fmt.Errorf("failed to update ministry: %w", err)
	}
	return ministry, nil
}

// Delete removes a ministry along with its members and schedules, which
// cascade at the database level.
func (s *ministryService) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.ministryRepo.GetByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.ministryRepo.Delete(ctx, churchID, id)
}

func (s *ministryService) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Ministry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.ministryRepo.List(ctx, churchID, limit, offset)
}
