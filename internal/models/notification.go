package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds emitted by the background jobs.
const (
	NotificationTrialExpiring  = "trial_expiring"
	NotificationPendingReplies = "pending_replies"
)

type Notification struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ChurchID  uuid.UUID  `json:"church_id" db:"church_id"`
	Kind      string     `json:"kind" db:"kind"`
	Message   string     `json:"message" db:"message"`
	ReadAt    *time.Time `json:"read_at" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
