package repositories

import (
	"context"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Member, error)
	ListByMinistry(ctx context.Context, churchID, ministryID uuid.UUID) ([]*models.Member, error)
	Count(ctx context.Context, churchID uuid.UUID) (int, error)
}

type memberRepo struct {
	db DB
}

func NewMemberRepo(db DB) MemberRepository {
	return &memberRepo{db: db}
}

const memberColumns = `id, church_id, ministry_id, name, phone, observations, created_at, updated_at`

func (r *memberRepo) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (id, church_id, ministry_id, name, phone, observations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, member.ID, member.ChurchID, member.MinistryID, member.Name, member.Phone, member.Observations)
	return err
}

func (r *memberRepo) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Member, error) {
	member := &models.Member{}
	query := `SELECT ` + memberColumns + ` FROM members WHERE church_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, churchID, id).Scan(&member.ID, &member.ChurchID, &member.MinistryID, &member.Name, &member.Phone, &member.Observations, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *memberRepo) Update(ctx context.Context, member *models.Member) error {
	query := `
		UPDATE members
		SET ministry_id = $1, name = $2, phone = $3, observations = $4, updated_at = NOW()
		WHERE church_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, member.MinistryID, member.Name, member.Phone, member.Observations, member.ChurchID, member.ID)
	return err
}

func (r *memberRepo) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	query := `DELETE FROM members WHERE church_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, churchID, id)
	return err
}

func (r *memberRepo) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE church_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, churchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepo) ListByMinistry(ctx context.Context, churchID, ministryID uuid.UUID) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE church_id = $1 AND ministry_id = $2 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, churchID, ministryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMembers(rows)
}

func (r *memberRepo) Count(ctx context.Context, churchID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM members WHERE church_id = $1`
	err := r.db.QueryRow(ctx, query, churchID).Scan(&count)
	return count, err
}

func scanMembers(rows pgx.Rows) ([]*models.Member, error) {
	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.ID, &member.ChurchID, &member.MinistryID, &member.Name, &member.Phone, &member.Observations, &member.CreatedAt, &member.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
