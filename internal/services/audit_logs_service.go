package services

import (
	"context"
	"errors"
	"time"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

type AuditLogsService interface {
	LogActivity(ctx context.Context, churchID uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error
	ListAuditLogs(ctx context.Context, churchID uuid.UUID, filters *repositories.AuditLogFilters) ([]*models.AuditLog, error)
	GetEntityHistory(ctx context.Context, churchID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error)

	// Helper methods for common audit scenarios
	LogEntityCreate(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, newValues models.JSONB) error
	LogEntityUpdate(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error
	LogEntityDelete(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, oldValues models.JSONB) error
}

type auditLogsService struct {
	auditLogsRepo repositories.AuditLogsRepository
}

func NewAuditLogsService(auditLogsRepo repositories.AuditLogsRepository) AuditLogsService {
	return &auditLogsService{
		auditLogsRepo: auditLogsRepo,
	}
}

func (s *auditLogsService) LogActivity(ctx context.Context, churchID uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	if tableName == "" {
		return errors.New("table_name is required")
	}
	if action == "" {
		return errors.New("action is required")
	}

	auditLog := &models.AuditLog{
		ID:        uuid.New(),
		ChurchID:  churchID,
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		NewValues: newValues,
		OldValues: oldValues,
		ChangedBy: changedBy,
		CreatedAt: time.Now(),
	}
	return s.auditLogsRepo.Create(ctx, auditLog)
}

func (s *auditLogsService) ListAuditLogs(ctx context.Context, churchID uuid.UUID, filters *repositories.AuditLogFilters) ([]*models.AuditLog, error) {
	if filters == nil {
		filters = &repositories.AuditLogFilters{Limit: 50}
	}
	if filters.Limit <= 0 || filters.Limit > 1000 {
		filters.Limit = 50
	}
	if filters.StartDate != nil && filters.EndDate != nil {
		if filters.EndDate.Sub(*filters.StartDate) > 365*24*time.Hour {
			return nil, errors.New("date range cannot exceed 1 year")
		}
	}
	return s.auditLogsRepo.List(ctx, churchID, filters)
}

func (s *auditLogsService) GetEntityHistory(ctx context.Context, churchID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	return s.auditLogsRepo.GetByTableAndRecord(ctx, churchID, tableName, recordID, limit, offset)
}

func (s *auditLogsService) LogEntityCreate(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, newValues models.JSONB) error {
	return s.LogActivity(ctx, churchID, tableName, recordID, models.ActionInsert, changedBy, nil, newValues)
}

func (s *auditLogsService) LogEntityUpdate(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	return s.LogActivity(ctx, churchID, tableName, recordID, models.ActionUpdate, changedBy, oldValues, newValues)
}

func (s *auditLogsService) LogEntityDelete(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, oldValues models.JSONB) error {
	return s.LogActivity(ctx, churchID, tableName, recordID, models.ActionDelete, changedBy, oldValues, nil)
}
