package repositories

import (
	"context"

	"escalas/internal/models"

	"github.com/google/uuid"
)

type MinistryRepository interface {
	Create(ctx context.Context, ministry *models.Ministry) error
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Ministry, error)
	Update(ctx context.Context, ministry *models.Ministry) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Ministry, error)
	Count(ctx context.Context, churchID uuid.UUID) (int, error)
}

type ministryRepo struct {
	db DB
}

func NewMinistryRepo(db DB) MinistryRepository {
	return &ministryRepo{db: db}
}

func (r *ministryRepo) Create(ctx context.Context, ministry *models.Ministry) error {
	query := `
		INSERT INTO ministries (id, church_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, ministry.ID, ministry.ChurchID, ministry.Name, ministry.Description)
	return err
}

func (r *ministryRepo) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Ministry, error) {
	ministry := &models.Ministry{}
	query := `
		SELECT id, church_id, name, description, created_at, updated_at
		FROM ministries
		WHERE church_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, churchID, id).Scan(&ministry.ID, &ministry.ChurchID, &ministry.Name, &ministry.Description, &ministry.CreatedAt, &ministry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ministry, nil
}

func (r *ministryRepo) Update(ctx context.Context, ministry *models.Ministry) error {
	query := `
		UPDATE ministries
		SET name = $1, description = $2, updated_at = NOW()
		WHERE church_id = $3 AND id = $4
	`
	_, err := r.db.Exec(ctx, query, ministry.Name, ministry.Description, ministry.ChurchID, ministry.ID)
	return err
}

func (r *ministryRepo) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	query := `DELETE FROM ministries WHERE church_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, churchID, id)
	return err
}

func (r *ministryRepo) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Ministry, error) {
	query := `
		SELECT id, church_id, name, description, created_at, updated_at
		FROM ministries
		WHERE church_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, churchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ministries []*models.Ministry
	for rows.Next() {
		ministry := &models.Ministry{}
		if err := rows.Scan(&ministry.ID, &ministry.ChurchID, &ministry.Name, &ministry.Description, &ministry.CreatedAt, &ministry.UpdatedAt); err != nil {
			return nil, err
		}
		ministries = append(ministries, ministry)
	}
	return ministries, rows.Err()
}

func (r *ministryRepo) Count(ctx context.Context, churchID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM ministries WHERE church_id = $1`
	err := r.db.QueryRow(ctx, query, churchID).Scan(&count)
	return count, err
}
