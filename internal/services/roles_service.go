package services

import (
	"context"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// RolesService answers role questions for the middleware layer.
type RolesService interface {
	UserHasRole(ctx context.Context, userID, churchID uuid.UUID, roles ...string) (bool, error)
	ListRoles(ctx context.Context, userID uuid.UUID) ([]*models.UserRole, error)
	ResolveChurchID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

type rolesService struct {
	userRoleRepo repositories.UserRoleRepository
}

func NewRolesService(userRoleRepo repositories.UserRoleRepository) RolesService {
	return &rolesService{userRoleRepo: userRoleRepo}
}

// UserHasRole reports whether the user holds any of the given roles in the
// church. A platform_admin membership anywhere passes every check.
func (s *rolesService) UserHasRole(ctx context.Context, userID, churchID uuid.UUID, roles ...string) (bool, error) {
	memberships, err := s.userRoleRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, m := range memberships {
		if m.Role == models.RolePlatformAdmin {
			return true, nil
		}
		if m.ChurchID != churchID {
			continue
		}
		for _, role := range roles {
			if m.Role == role {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *rolesService) ListRoles(ctx context.Context, userID uuid.UUID) ([]*models.UserRole, error) {
	return s.userRoleRepo.ListByUser(ctx, userID)
}

func (s *rolesService) ResolveChurchID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return s.userRoleRepo.ResolveChurchID(ctx, userID)
}
