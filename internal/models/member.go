package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is a volunteer belonging to one church and one ministry.
type Member struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ChurchID     uuid.UUID  `json:"church_id" db:"church_id"`
	MinistryID   uuid.UUID  `json:"ministry_id" db:"ministry_id"`
	Name         string     `json:"name" db:"name"`
	Phone        *string    `json:"phone" db:"phone"`
	Observations *string    `json:"observations" db:"observations"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}
