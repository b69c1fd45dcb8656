package repositories

import (
	"context"

	"escalas/internal/models"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByChurch(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, churchID, id uuid.UUID) error
	CountUnread(ctx context.Context, churchID uuid.UUID) (int, error)
	ExistsRecent(ctx context.Context, churchID uuid.UUID, kind string, since string) (bool, error)
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepo(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, church_id, kind, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, notification.ID, notification.ChurchID, notification.Kind, notification.Message)
	return err
}

func (r *notificationRepo) ListByChurch(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	query := `
		SELECT id, church_id, kind, message, read_at, created_at
		FROM notifications
		WHERE church_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, churchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		notification := &models.Notification{}
		if err := rows.Scan(&notification.ID, &notification.ChurchID, &notification.Kind, &notification.Message, &notification.ReadAt, &notification.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, churchID, id uuid.UUID) error {
	query := `UPDATE notifications SET read_at = NOW() WHERE church_id = $1 AND id = $2 AND read_at IS NULL`
	_, err := r.db.Exec(ctx, query, churchID, id)
	return err
}

func (r *notificationRepo) CountUnread(ctx context.Context, churchID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE church_id = $1 AND read_at IS NULL`
	err := r.db.QueryRow(ctx, query, churchID).Scan(&count)
	return count, err
}

// ExistsRecent reports whether a notification of the given kind was already
// written on or after the given date. The background sweeps use it to avoid
// re-notifying the same church every run.
func (r *notificationRepo) ExistsRecent(ctx context.Context, churchID uuid.UUID, kind string, since string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE church_id = $1 AND kind = $2 AND created_at >= $3`
	err := r.db.QueryRow(ctx, query, churchID, kind, since).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
