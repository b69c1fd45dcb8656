package middleware

import (
	"context"
	"testing"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAuditLogsService is a mock implementation of AuditLogsService
type MockAuditLogsService struct {
	mock.Mock
}

func (m *MockAuditLogsService) LogActivity(ctx context.Context, churchID uuid.UUID, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	args := m.Called(ctx, churchID, tableName, recordID, action, changedBy, oldValues, newValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) ListAuditLogs(ctx context.Context, churchID uuid.UUID, filters *repositories.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, churchID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) GetEntityHistory(ctx context.Context, churchID uuid.UUID, tableName, recordID string, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, churchID, tableName, recordID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) LogEntityCreate(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, newValues models.JSONB) error {
	args := m.Called(ctx, churchID, tableName, recordID, changedBy, newValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) LogEntityUpdate(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	args := m.Called(ctx, churchID, tableName, recordID, changedBy, oldValues, newValues)
	return args.Error(0)
}

func (m *MockAuditLogsService) LogEntityDelete(ctx context.Context, churchID uuid.UUID, tableName, recordID string, changedBy *uuid.UUID, oldValues models.JSONB) error {
	args := m.Called(ctx, churchID, tableName, recordID, changedBy, oldValues)
	return args.Error(0)
}

type AuditMiddlewareTestSuite struct {
	suite.Suite
	mockAuditSvc *MockAuditLogsService
	middleware   *AuditMiddleware
	ctx          context.Context
	churchID     uuid.UUID
}

func (suite *AuditMiddlewareTestSuite) SetupTest() {
	suite.mockAuditSvc = new(MockAuditLogsService)
	suite.mockAuditSvc.Test(suite.T())
	suite.middleware = NewAuditMiddleware(suite.mockAuditSvc)
	suite.ctx = context.Background()
	suite.churchID = uuid.New()
}

func (suite *AuditMiddlewareTestSuite) TearDownTest() {
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *AuditMiddlewareTestSuite) TestAuditEntityChange_ChurchDiff() {
	userID := uuid.New()
	oldChurch := &models.Church{ID: suite.churchID, Name: "Igreja Velha", SubscriptionPlan: models.PlanFree}
	newChurch := &models.Church{ID: suite.churchID, Name: "Igreja Nova", SubscriptionPlan: models.PlanFree}

	suite.mockAuditSvc.On("LogActivity", suite.ctx, suite.churchID, "churches", suite.churchID.String(), "update", &userID, mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			oldValues := args.Get(6).(models.JSONB)
			newValues := args.Get(7).(models.JSONB)
			assert.Equal(suite.T(), "Igreja Velha", oldValues["name"])
			assert.Equal(suite.T(), "Igreja Nova", newValues["name"])
		})

	err := suite.middleware.AuditEntityChange(suite.ctx, suite.churchID, &userID, "churches", suite.churchID.String(), "update", oldChurch, newChurch)
	assert.NoError(suite.T(), err)
}

func (suite *AuditMiddlewareTestSuite) TestAuditEntityChange_NilOldEntity() {
	newSchedule := &models.Schedule{ID: uuid.New(), Title: "Culto de Domingo", EventType: "Culto Divino"}

	suite.mockAuditSvc.On("LogActivity", suite.ctx, suite.churchID, "schedules", newSchedule.ID.String(), "create", (*uuid.UUID)(nil), models.JSONB(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			newValues := args.Get(7).(models.JSONB)
			assert.Equal(suite.T(), "Culto de Domingo", newValues["title"])
		})

	err := suite.middleware.AuditEntityChange(suite.ctx, suite.churchID, nil, "schedules", newSchedule.ID.String(), "create", nil, newSchedule)
	assert.NoError(suite.T(), err)
}

// Generic entities go through reflection and must never leak secrets
// into the audit log.
func (suite *AuditMiddlewareTestSuite) TestAuditEntityChange_RedactsSensitiveFields() {
	type tokenHolder struct {
		Name  string
		Token string
	}
	entity := &tokenHolder{Name: "visible", Token: "secret-value"}

	suite.mockAuditSvc.On("LogActivity", suite.ctx, suite.churchID, "tokens", "1", "update", (*uuid.UUID)(nil), models.JSONB(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			newValues := args.Get(7).(models.JSONB)
			assert.Equal(suite.T(), "visible", newValues["Name"])
			assert.NotContains(suite.T(), newValues, "Token")
		})

	err := suite.middleware.AuditEntityChange(suite.ctx, suite.churchID, nil, "tokens", "1", "update", nil, entity)
	assert.NoError(suite.T(), err)
}

func TestAuditMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuditMiddlewareTestSuite))
}
