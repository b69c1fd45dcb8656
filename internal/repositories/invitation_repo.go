package repositories

import (
	"context"

	"escalas/internal/models"

	"github.com/google/uuid"
)

type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByToken(ctx context.Context, token uuid.UUID) (*models.Invitation, error)
	ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*models.Invitation, error)
	MarkAccepted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

type invitationRepo struct {
	db DB
}

func NewInvitationRepo(db DB) InvitationRepository {
	return &invitationRepo{db: db}
}

const invitationColumns = `id, church_id, email, role, token, expires_at, accepted_at, created_by, created_at`

func (r *invitationRepo) Create(ctx context.Context, invitation *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, church_id, email, role, token, expires_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, invitation.ID, invitation.ChurchID, invitation.Email, invitation.Role, invitation.Token, invitation.ExpiresAt, invitation.CreatedBy)
	return err
}

func (r *invitationRepo) GetByToken(ctx context.Context, token uuid.UUID) (*models.Invitation, error) {
	invitation := &models.Invitation{}
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`
	err := r.db.QueryRow(ctx, query, token).Scan(&invitation.ID, &invitation.ChurchID, &invitation.Email, &invitation.Role, &invitation.Token, &invitation.ExpiresAt, &invitation.AcceptedAt, &invitation.CreatedBy, &invitation.CreatedAt)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *invitationRepo) ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE church_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, churchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		invitation := &models.Invitation{}
		if err := rows.Scan(&invitation.ID, &invitation.ChurchID, &invitation.Email, &invitation.Role, &invitation.Token, &invitation.ExpiresAt, &invitation.AcceptedAt, &invitation.CreatedBy, &invitation.CreatedAt); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (r *invitationRepo) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE invitations SET accepted_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *invitationRepo) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	query := `DELETE FROM invitations WHERE church_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, churchID, id)
	return err
}
