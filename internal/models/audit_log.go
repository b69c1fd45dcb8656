package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB is a free-form JSON document stored in a jsonb column.
type JSONB map[string]interface{}

// AuditLog records a data change within a church.
type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ChurchID  uuid.UUID  `json:"church_id" db:"church_id"`
	TableName string     `json:"table_name" db:"table_name"`
	RecordID  string     `json:"record_id" db:"record_id"`
	Action    string     `json:"action" db:"action"`
	OldValues JSONB      `json:"old_values" db:"old_values"`
	NewValues JSONB      `json:"new_values" db:"new_values"`
	ChangedBy *uuid.UUID `json:"changed_by" db:"changed_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Action constants for audit logs
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)
