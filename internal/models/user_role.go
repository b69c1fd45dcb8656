package models

import (
	"time"

	"github.com/google/uuid"
)

// Application roles. The role set is a closed enum, one row per
// user/church pair; platform_admin is not scoped to a church.
const (
	RoleChurchAdmin    = "church_admin"
	RoleMinistryLeader = "ministry_leader"
	RoleMember         = "member"
	RolePlatformAdmin  = "platform_admin"
)

// ValidRole reports whether role is one of the known application roles.
func ValidRole(role string) bool {
	switch role {
	case RoleChurchAdmin, RoleMinistryLeader, RoleMember, RolePlatformAdmin:
		return true
	}
	return false
}

type UserRole struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	ChurchID  uuid.UUID `json:"church_id" db:"church_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
