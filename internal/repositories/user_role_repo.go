package repositories

import (
	"context"
	"errors"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRoleRepository interface {
	Create(ctx context.Context, userRole *models.UserRole) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserRole, error)
	ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*models.UserRole, error)
	HasRole(ctx context.Context, userID, churchID uuid.UUID, role string) (bool, error)
	ResolveChurchID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, userID, churchID uuid.UUID) error
}

type userRoleRepo struct {
	db DB
}

func NewUserRoleRepo(db DB) UserRoleRepository {
	return &userRoleRepo{db: db}
}

func (r *userRoleRepo) Create(ctx context.Context, userRole *models.UserRole) error {
	query := `
		INSERT INTO user_roles (id, user_id, church_id, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, church_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.db.Exec(ctx, query, userRole.ID, userRole.UserID, userRole.ChurchID, userRole.Role)
	return err
}

func (r *userRoleRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserRole, error) {
	query := `
		SELECT id, user_id, church_id, role, created_at
		FROM user_roles
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRoles(rows)
}

func (r *userRoleRepo) ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*models.UserRole, error) {
	query := `
		SELECT id, user_id, church_id, role, created_at
		FROM user_roles
		WHERE church_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUserRoles(rows)
}

func (r *userRoleRepo) HasRole(ctx context.Context, userID, churchID uuid.UUID, role string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_roles WHERE user_id = $1 AND church_id = $2 AND role = $3`
	err := r.db.QueryRow(ctx, query, userID, churchID, role).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveChurchID returns the church of the user's earliest membership, or
// uuid.Nil when the user belongs to no church yet.
func (r *userRoleRepo) ResolveChurchID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var churchID uuid.UUID
	query := `SELECT church_id FROM user_roles WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&churchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return churchID, nil
}

func (r *userRoleRepo) Delete(ctx context.Context, userID, churchID uuid.UUID) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND church_id = $2`
	_, err := r.db.Exec(ctx, query, userID, churchID)
	return err
}

func scanUserRoles(rows pgx.Rows) ([]*models.UserRole, error) {
	var userRoles []*models.UserRole
	for rows.Next() {
		userRole := &models.UserRole{}
		if err := rows.Scan(&userRole.ID, &userRole.UserID, &userRole.ChurchID, &userRole.Role, &userRole.CreatedAt); err != nil {
			return nil, err
		}
		userRoles = append(userRoles, userRole)
	}
	return userRoles, rows.Err()
}
