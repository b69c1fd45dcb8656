package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
)

// AuditLogFilters narrows audit log listings.
type AuditLogFilters struct {
	TableName *string
	RecordID  *string
	Action    *string
	ChangedBy *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

type AuditLogsRepository interface {
	Create(ctx context.Context, auditLog *models.AuditLog) error
	List(ctx context.Context, churchID uuid.UUID, filters *AuditLogFilters) ([]*models.AuditLog, error)
	GetByTableAndRecord(ctx context.Context, churchID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, auditLog *models.AuditLog) error {
	auditLog.CreatedAt = time.Now()
	if auditLog.ID == uuid.Nil {
		auditLog.ID = uuid.New()
	}

	var newValuesBytes, oldValuesBytes []byte
	var err error

	if auditLog.NewValues != nil {
		newValuesBytes, err = json.Marshal(auditLog.NewValues)
		if err != nil {
			return fmt.Errorf("failed to marshal new_values: %w", err)
		}
	}
	if auditLog.OldValues != nil {
		oldValuesBytes, err = json.Marshal(auditLog.OldValues)
		if err != nil {
			return fmt.Errorf("failed to marshal old_values: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (id, church_id, table_name, record_id, action, new_values, old_values, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query,
		auditLog.ID,
		auditLog.ChurchID,
		auditLog.TableName,
		auditLog.RecordID,
		auditLog.Action,
		newValuesBytes,
		oldValuesBytes,
		auditLog.ChangedBy,
		auditLog.CreatedAt,
	)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, churchID uuid.UUID, filters *AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &AuditLogFilters{}
	}

	query := `
		SELECT id, church_id, table_name, record_id, action, new_values, old_values, changed_by, created_at
		FROM audit_logs
		WHERE church_id = $1
	`
	args := []interface{}{churchID}
	argIdx := 1

	if filters.TableName != nil {
		argIdx++
		query += fmt.Sprintf(" AND table_name = $%d", argIdx)
		args = append(args, *filters.TableName)
	}
	if filters.RecordID != nil {
		argIdx++
		query += fmt.Sprintf(" AND record_id = $%d", argIdx)
		args = append(args, *filters.RecordID)
	}
	if filters.Action != nil {
		argIdx++
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *filters.Action)
	}
	if filters.ChangedBy != nil {
		argIdx++
		query += fmt.Sprintf(" AND changed_by = $%d", argIdx)
		args = append(args, *filters.ChangedBy)
	}
	if filters.StartDate != nil {
		argIdx++
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		argIdx++
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *filters.EndDate)
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		argIdx++
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
		if filters.Offset > 0 {
			argIdx++
			query += fmt.Sprintf(" OFFSET $%d", argIdx)
			args = append(args, filters.Offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auditLogs []*models.AuditLog
	for rows.Next() {
		auditLog := &models.AuditLog{}
		var newValuesBytes, oldValuesBytes []byte

		if err := rows.Scan(
			&auditLog.ID,
			&auditLog.ChurchID,
			&auditLog.TableName,
			&auditLog.RecordID,
			&auditLog.Action,
			&newValuesBytes,
			&oldValuesBytes,
			&auditLog.ChangedBy,
			&auditLog.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(newValuesBytes) > 0 {
			if err := json.Unmarshal(newValuesBytes, &auditLog.NewValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal new_values: %w", err)
			}
		}
		if len(oldValuesBytes) > 0 {
			if err := json.Unmarshal(oldValuesBytes, &auditLog.OldValues); err != nil {
				return nil, fmt.Errorf("failed to unmarshal old_values: %w", err)
			}
		}

		auditLogs = append(auditLogs, auditLog)
	}
	return auditLogs, rows.Err()
}

func (r *auditLogsRepo) GetByTableAndRecord(ctx context.Context, churchID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	filters := &AuditLogFilters{
		TableName: &tableName,
		RecordID:  &recordID,
		Limit:     limit,
		Offset:    offset,
	}
	return r.List(ctx, churchID, filters)
}
