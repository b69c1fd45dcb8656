package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Invitation errors surfaced to the accept endpoint.
var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationUsed     = errors.New("invitation was already accepted")
)

const invitationValidity = 7 * 24 * time.Hour

type InvitationService interface {
	Invite(ctx context.Context, churchID, createdBy uuid.UUID, email, role string) (*models.Invitation, error)
	Accept(ctx context.Context, token, userID uuid.UUID) (*models.UserRole, error)
	List(ctx context.Context, churchID uuid.UUID) ([]*models.Invitation, error)
	Revoke(ctx context.Context, churchID, invitationID uuid.UUID) error
}

type invitationService struct {
	invitationRepo repositories.InvitationRepository
	userRoleRepo   repositories.UserRoleRepository
}

func NewInvitationService(
	invitationRepo repositories.InvitationRepository,
	userRoleRepo repositories.UserRoleRepository,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		userRoleRepo:   userRoleRepo,
	}
}

// Invite issues a single-use token valid for seven days. platform_admin
// cannot be granted by invitation.
func (s *invitationService) Invite(ctx context.Context, churchID, createdBy uuid.UUID, email, role string) (*models.Invitation, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !models.ValidRole(role) || role == models.RolePlatformAdmin {
		return nil, fmt.Errorf("invalid invitation role %q", role)
	}

	invitation := &models.Invitation{
		ID:        uuid.New(),
		ChurchID:  churchID,
		Email:     email,
		Role:      role,
		Token:     uuid.New(),
		ExpiresAt: time.Now().Add(invitationValidity),
		CreatedBy: createdBy,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return invitation, nil
}

// Accept redeems a token for the authenticated user, granting the invited
// role in the inviting church.
func (s *invitationService) Accept(ctx context.Context, token, userID uuid.UUID) (*models.UserRole, error) {
	invitation, err := s.invitationRepo.GetByToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	if invitation.AcceptedAt != nil {
		return nil, ErrInvitationUsed
	}
	if time.Now().After(invitation.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	role := &models.UserRole{
		ID:       uuid.New(),
		UserID:   userID,
		ChurchID: invitation.ChurchID,
		Role:     invitation.Role,
	}
	if err := s.userRoleRepo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}
	if err := s.invitationRepo.MarkAccepted(ctx, invitation.ID); err != nil {
		return nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}
	return role, nil
}

func (s *invitationService) List(ctx context.Context, churchID uuid.UUID) ([]*models.Invitation, error) {
	return s.invitationRepo.ListByChurch(ctx, churchID)
}

func (s *invitationService) Revoke(ctx context.Context, churchID, invitationID uuid.UUID) error {
	return s.invitationRepo.Delete(ctx, churchID, invitationID)
}
