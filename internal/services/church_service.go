package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"escalas/internal/caching"
	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

const (
	churchCacheTTL = 10 * time.Minute
	logoBucket     = "church-logos"
	logoURLExpiry  = 7 * 24 * time.Hour
)

type ChurchService interface {
	Create(ctx context.Context, ownerUserID uuid.UUID, name string) (*models.Church, error)
	GetByID(ctx context.Context, churchID uuid.UUID) (*models.Church, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Church, error)
	Update(ctx context.Context, churchID uuid.UUID, name string) (*models.Church, error)
	UploadLogo(ctx context.Context, churchID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)
	Delete(ctx context.Context, churchID uuid.UUID) error
}

type churchService struct {
	churchRepo   repositories.ChurchRepository
	userRoleRepo repositories.UserRoleRepository
	storageSvc   StorageService
	cacheSvc     caching.CacheService
}

func NewChurchService(
	churchRepo repositories.ChurchRepository,
	userRoleRepo repositories.UserRoleRepository,
	storageSvc StorageService,
	cacheSvc caching.CacheService,
) ChurchService {
	return &churchService{
		churchRepo:   churchRepo,
		userRoleRepo: userRoleRepo,
		storageSvc:   storageSvc,
		cacheSvc:     cacheSvc,
	}
}

// Create registers a church on the free plan with the trial clock
// starting today, and makes the creator its church_admin. One church per
// owner account.
func (s *churchService) Create(ctx context.Context, ownerUserID uuid.UUID, name string) (*models.Church, error) {
	if name == "" {
		return nil, fmt.Errorf("church name is required")
	}

	existing, err := s.churchRepo.GetByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing church: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user already owns a church")
	}

	trialStart := time.Now()
	church := &models.Church{
		ID:               uuid.New(),
		Name:             name,
		OwnerUserID:      ownerUserID,
		SubscriptionPlan: models.PlanFree,
		TrialStartDate:   &trialStart,
	}
	if err := s.churchRepo.Create(ctx, church); err != nil {
		return nil, fmt.Errorf("failed to create church: %w", err)
	}

	role := &models.UserRole{
		ID:       uuid.New(),
		UserID:   ownerUserID,
		ChurchID: church.ID,
		Role:     models.RoleChurchAdmin,
	}
	if err := s.userRoleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to grant church_admin role: %w", err)
	}

	return church, nil
}

func (s *churchService) GetByID(ctx context.Context, churchID uuid.UUID) (*models.Church, error) {
	if cached, err := s.cacheSvc.GetChurch(ctx, churchID); err == nil && cached != nil {
		return cached, nil
	}

	church, err := s.churchRepo.GetByID(ctx, churchID)
	if err != nil {
		return nil, err
	}
	// Cache failures are not fatal; the source of truth already answered.
	_ = s.cacheSvc.SetChurch(ctx, church, churchCacheTTL)
	return church, nil
}

func (s *churchService) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Church, error) {
	return s.churchRepo.GetByOwner(ctx, ownerUserID)
}

func (s *churchService) Update(ctx context.Context, churchID uuid.UUID, name string) (*models.Church, error) {
	church, err := s.churchRepo.GetByID(ctx, churchID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("church name is required")
	}

	church.Name = name
	if err := s.churchRepo.Update(ctx, church); err != nil {
		return nil, fmt.Errorf("failed to update church: %w", err)
	}
	_ = s.cacheSvc.DeleteChurch(ctx, churchID)
	return church, nil
}

// UploadLogo stores the image in object storage and saves a presigned URL
// on the church record.
func (s *churchService) UploadLogo(ctx context.Context, churchID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if _, err := s.churchRepo.GetByID(ctx, churchID); err != nil {
		return "", err
	}

	if err := s.storageSvc.EnsureBucketExists(ctx, logoBucket); err != nil {
		return "", fmt.Errorf("failed to ensure logo bucket: %w", err)
	}

	objectName := fmt.Sprintf("%s/%s", churchID, filename)
	if err := s.storageSvc.UploadLogo(ctx, logoBucket, objectName, contentType, reader, size); err != nil {
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	logoURL, err := s.storageSvc.GetPresignedURL(logoBucket, objectName, logoURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate logo URL: %w", err)
	}
	if err := s.churchRepo.SetLogoURL(ctx, churchID, logoURL); err != nil {
		return "", fmt.Errorf("failed to save logo URL: %w", err)
	}
	_ = s.cacheSvc.DeleteChurch(ctx, churchID)
	return logoURL, nil
}

func (s *churchService) Delete(ctx context.Context, churchID uuid.UUID) error {
	if _, err := s.churchRepo.GetByID(ctx, churchID); err != nil {
		return err
	}
	if err := s.churchRepo.Delete(ctx, churchID); err != nil {
		return err
	}
	return s.cacheSvc.InvalidateChurchCache(ctx, churchID)
}
