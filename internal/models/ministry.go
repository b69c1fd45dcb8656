package models

import (
	"time"

	"github.com/google/uuid"
)

// Ministry groups members and schedules inside a church (worship, kids, media, ...).
type Ministry struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChurchID    uuid.UUID `json:"church_id" db:"church_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
