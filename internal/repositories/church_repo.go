package repositories

import (
	"context"
	"errors"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ChurchRepository interface {
	Create(ctx context.Context, church *models.Church) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Church, error)
	GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Church, error)
	Update(ctx context.Context, church *models.Church) error
	UpdateSubscription(ctx context.Context, id uuid.UUID, plan string, endDate *time.Time) error
	SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Church, error)
}

type churchRepo struct {
	db DB
}

func NewChurchRepo(db DB) ChurchRepository {
	return &churchRepo{db: db}
}

const churchColumns = `id, name, owner_user_id, subscription_plan, trial_start_date, subscription_end_date, logo_url, created_at, updated_at`

func (r *churchRepo) Create(ctx context.Context, church *models.Church) error {
	query := `
		INSERT INTO churches (id, name, owner_user_id, subscription_plan, trial_start_date, subscription_end_date, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, church.ID, church.Name, church.OwnerUserID, church.SubscriptionPlan, church.TrialStartDate, church.SubscriptionEndDate, church.LogoURL)
	return err
}

func (r *churchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Church, error) {
	church := &models.Church{}
	query := `SELECT ` + churchColumns + ` FROM churches WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&church.ID, &church.Name, &church.OwnerUserID, &church.SubscriptionPlan, &church.TrialStartDate, &church.SubscriptionEndDate, &church.LogoURL, &church.CreatedAt, &church.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return church, nil
}

func (r *churchRepo) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Church, error) {
	church := &models.Church{}
	query := `SELECT ` + churchColumns + ` FROM churches WHERE owner_user_id = $1`
	err := r.db.QueryRow(ctx, query, ownerUserID).Scan(&church.ID, &church.Name, &church.OwnerUserID, &church.SubscriptionPlan, &church.TrialStartDate, &church.SubscriptionEndDate, &church.LogoURL, &church.CreatedAt, &church.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// No church yet is a valid state right after signup.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return church, nil
}

func (r *churchRepo) Update(ctx context.Context, church *models.Church) error {
	query := `
		UPDATE churches
		SET name = $1, subscription_plan = $2, trial_start_date = $3, subscription_end_date = $4, logo_url = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, church.Name, church.SubscriptionPlan, church.TrialStartDate, church.SubscriptionEndDate, church.LogoURL, church.ID)
	return err
}

func (r *churchRepo) UpdateSubscription(ctx context.Context, id uuid.UUID, plan string, endDate *time.Time) error {
	query := `
		UPDATE churches
		SET subscription_plan = $1, subscription_end_date = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, plan, endDate, id)
	return err
}

func (r *churchRepo) SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	query := `UPDATE churches SET logo_url = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, logoURL, id)
	return err
}

// Delete removes a church; dependent rows cascade at the database level.
func (r *churchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM churches WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *churchRepo) List(ctx context.Context, limit, offset int) ([]*models.Church, error) {
	query := `SELECT ` + churchColumns + ` FROM churches ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var churches []*models.Church
	for rows.Next() {
		church := &models.Church{}
		if err := rows.Scan(&church.ID, &church.Name, &church.OwnerUserID, &church.SubscriptionPlan, &church.TrialStartDate, &church.SubscriptionEndDate, &church.LogoURL, &church.CreatedAt, &church.UpdatedAt); err != nil {
			return nil, err
		}
		churches = append(churches, church)
	}
	return churches, rows.Err()
}
