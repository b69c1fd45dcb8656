package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation lets a church admin invite a user into a church with a
// given role. The token is a single-use secret delivered out of band.
type Invitation struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ChurchID   uuid.UUID  `json:"church_id" db:"church_id"`
	Email      string     `json:"email" db:"email"`
	Role       string     `json:"role" db:"role"`
	Token      uuid.UUID  `json:"-" db:"token"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at" db:"accepted_at"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
