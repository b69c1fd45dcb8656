package services

import (
	"context"
	"fmt"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// NotificationService records in-app notices for a church. The background
// sweeps write them; the dashboard reads them.
type NotificationService interface {
	Notify(ctx context.Context, churchID uuid.UUID, kind, message string) error
	NotifyOnce(ctx context.Context, churchID uuid.UUID, kind, message, since string) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, churchID, id uuid.UUID) error
	CountUnread(ctx context.Context, churchID uuid.UUID) (int, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Notify(ctx context.Context, churchID uuid.UUID, kind, message string) error {
	notification := &models.Notification{
		ID:       uuid.New(),
		ChurchID: churchID,
		Kind:     kind,
		Message:  message,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyOnce writes the notice unless one of the same kind already exists
// on or after the given date. Keeps periodic sweeps from piling up
// duplicates.
func (s *notificationService) NotifyOnce(ctx context.Context, churchID uuid.UUID, kind, message, since string) error {
	exists, err := s.notificationRepo.ExistsRecent(ctx, churchID, kind, since)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.Notify(ctx, churchID, kind, message)
}

func (s *notificationService) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByChurch(ctx, churchID, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, churchID, id uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, churchID, id)
}

func (s *notificationService) CountUnread(ctx context.Context, churchID uuid.UUID) (int, error) {
	return s.notificationRepo.CountUnread(ctx, churchID)
}
