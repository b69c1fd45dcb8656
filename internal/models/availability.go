package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberAvailability is an explicit unavailability exception, unique per
// member/date. Absence of a row means the member is available; setting a
// date back to available deletes the row rather than flipping the flag.
type MemberAvailability struct {
	ID        uuid.UUID `json:"id" db:"id"`
	MemberID  uuid.UUID `json:"member_id" db:"member_id"`
	Date      time.Time `json:"date" db:"date"`
	Available bool      `json:"available" db:"available"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
