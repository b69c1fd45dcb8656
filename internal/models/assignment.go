package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleAssignment links a member to a schedule. ResponseToken is the
// sole credential for the unauthenticated public response page; it is
// generated fresh per assignment and never reused.
type ScheduleAssignment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ScheduleID    uuid.UUID `json:"schedule_id" db:"schedule_id"`
	MemberID      uuid.UUID `json:"member_id" db:"member_id"`
	FunctionName  *string   `json:"function_name" db:"function_name"`
	ResponseToken uuid.UUID `json:"-" db:"response_token"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
