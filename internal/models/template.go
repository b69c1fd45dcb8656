package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleTemplate is a reusable bundle (event type, time, observations,
// required functions) a church applies when creating a new schedule.
type ScheduleTemplate struct {
	ID           uuid.UUID          `json:"id" db:"id"`
	ChurchID     uuid.UUID          `json:"church_id" db:"church_id"`
	Name         string             `json:"name" db:"name"`
	EventType    string             `json:"event_type" db:"event_type"`
	EventTime    string             `json:"event_time" db:"event_time"`
	Observations *string            `json:"observations" db:"observations"`
	Functions    []TemplateFunction `json:"functions" db:"-"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" db:"updated_at"`
}

// TemplateFunction is a required role within a template (e.g. "Vocal" x2).
type TemplateFunction struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TemplateID    uuid.UUID `json:"template_id" db:"template_id"`
	FunctionName  string    `json:"function_name" db:"function_name"`
	RequiredCount int       `json:"required_count" db:"required_count"`
}
