package models

import (
	"time"

	"github.com/google/uuid"
)

// Response statuses for a schedule assignment.
const (
	ResponsePending   = "pending"
	ResponseConfirmed = "confirmed"
	ResponseDeclined  = "declined"
)

// ValidResponseStatus reports whether s is a known response status.
func ValidResponseStatus(s string) bool {
	return s == ResponsePending || s == ResponseConfirmed || s == ResponseDeclined
}

// ScheduleResponse records a member's answer to an assignment. At most
// one row per assignment; resubmitting updates the existing row.
type ScheduleResponse struct {
	ID                   uuid.UUID  `json:"id" db:"id"`
	ScheduleAssignmentID uuid.UUID  `json:"schedule_assignment_id" db:"schedule_assignment_id"`
	ResponseStatus       string     `json:"response_status" db:"response_status"`
	Notes                *string    `json:"notes" db:"notes"`
	ResponseDate         *time.Time `json:"response_date" db:"response_date"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
}
