package models

import (
	"time"

	"github.com/google/uuid"
)

// Service event types. Closed list; "Outro" is the catch-all.
var EventTypes = []string{
	"Culto de Pôr do Sol",
	"Escola Sabatina",
	"Culto Divino",
	"Culto Jovem",
	"Culto de Quarta",
	"Classe Bíblica",
	"JA (Sábado à tarde)",
	"Pequenos Grupos",
	"Vigília",
	"Santa Ceia",
	"Semana de Oração",
	"Semana Jovem",
	"Semana Santa",
	"Culto Missionário",
	"Batismo",
	"Programa Especial",
	"Ensaio de Louvor",
	"Reunião Administrativa",
	"Outro",
}

// ValidEventType reports whether t is one of the known event types.
func ValidEventType(t string) bool {
	for _, e := range EventTypes {
		if e == t {
			return true
		}
	}
	return false
}

// Recurrence units for bulk schedule creation.
const (
	RecurrenceWeekly   = "weekly"
	RecurrenceBiweekly = "biweekly"
	RecurrenceMonthly  = "monthly"
)

// ValidRecurrence reports whether unit is a supported recurrence unit.
func ValidRecurrence(unit string) bool {
	return unit == RecurrenceWeekly || unit == RecurrenceBiweekly || unit == RecurrenceMonthly
}

// Schedule is a dated service slot in a ministry. EventDate is the
// calendar date (YYYY-MM-DD) and EventTime a normalized HH:MM:SS string;
// conflict detection compares the time by exact string equality.
type Schedule struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ChurchID     uuid.UUID `json:"church_id" db:"church_id"`
	MinistryID   uuid.UUID `json:"ministry_id" db:"ministry_id"`
	Title        string    `json:"title" db:"title"`
	EventDate    string    `json:"event_date" db:"event_date"`
	EventTime    string    `json:"event_time" db:"event_time"`
	EventType    string    `json:"event_type" db:"event_type"`
	Observations *string   `json:"observations" db:"observations"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
