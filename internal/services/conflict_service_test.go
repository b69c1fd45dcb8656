package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAvailabilityRepository is a mock implementation of AvailabilityRepository
type MockAvailabilityRepository struct {
	mock.Mock
}

func (m *MockAvailabilityRepository) Create(ctx context.Context, availability *models.MemberAvailability) error {
	args := m.Called(ctx, availability)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) GetByMemberAndDate(ctx context.Context, memberID uuid.UUID, date time.Time) (*models.MemberAvailability, error) {
	args := m.Called(ctx, memberID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MemberAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) Update(ctx context.Context, availability *models.MemberAvailability) error {
	args := m.Called(ctx, availability)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAvailabilityRepository) ListUnavailableByMember(ctx context.Context, memberID uuid.UUID) ([]*models.MemberAvailability, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MemberAvailability), args.Error(1)
}

func (m *MockAvailabilityRepository) ListUnavailableOnDate(ctx context.Context, memberIDs []uuid.UUID, date time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, memberIDs, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockScheduleRepository is a mock implementation of ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Schedule, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) GetPublicByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	args := m.Called(ctx, churchID, id)
	return args.Error(0)
}

func (m *MockScheduleRepository) List(ctx context.Context, churchID uuid.UUID, filters *repositories.ScheduleFilters, limit, offset int) ([]*models.Schedule, error) {
	args := m.Called(ctx, churchID, filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) ListIDsAtDateTime(ctx context.Context, churchID uuid.UUID, eventDate, eventTime string, excludeID *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, churchID, eventDate, eventTime, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockScheduleRepository) ListUpcoming(ctx context.Context, churchID uuid.UUID, fromDate, toDate string) ([]*models.Schedule, error) {
	args := m.Called(ctx, churchID, fromDate, toDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) CountUpcoming(ctx context.Context, churchID uuid.UUID, fromDate string) (int, error) {
	args := m.Called(ctx, churchID, fromDate)
	return args.Int(0), args.Error(1)
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) CreateBatch(ctx context.Context, assignments []*models.ScheduleAssignment) error {
	args := m.Called(ctx, assignments)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*models.ScheduleAssignment, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduleAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) DeleteBySchedule(ctx context.Context, scheduleID uuid.UUID) error {
	args := m.Called(ctx, scheduleID)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByToken(ctx context.Context, token uuid.UUID) (*models.ScheduleAssignment, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScheduleAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListMemberIDsInSchedules(ctx context.Context, scheduleIDs, memberIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, scheduleIDs, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type ConflictServiceTestSuite struct {
	suite.Suite
	mockAvailabilityRepo *MockAvailabilityRepository
	mockScheduleRepo     *MockScheduleRepository
	mockAssignmentRepo   *MockAssignmentRepository
	service              ConflictService
	ctx                  context.Context
	churchID             uuid.UUID
}

func (suite *ConflictServiceTestSuite) SetupTest() {
	suite.mockAvailabilityRepo = new(MockAvailabilityRepository)
	suite.mockScheduleRepo = new(MockScheduleRepository)
	suite.mockAssignmentRepo = new(MockAssignmentRepository)
	suite.mockAvailabilityRepo.Test(suite.T())
	suite.mockScheduleRepo.Test(suite.T())
	suite.mockAssignmentRepo.Test(suite.T())
	suite.service = NewConflictService(suite.mockAvailabilityRepo, suite.mockScheduleRepo, suite.mockAssignmentRepo)
	suite.ctx = context.Background()
	suite.churchID = uuid.New()
}

func (suite *ConflictServiceTestSuite) TearDownTest() {
	suite.mockAvailabilityRepo.AssertExpectations(suite.T())
	suite.mockScheduleRepo.AssertExpectations(suite.T())
	suite.mockAssignmentRepo.AssertExpectations(suite.T())
}

func (suite *ConflictServiceTestSuite) TestCheckMembers_NoConflicts() {
	memberIDs := []uuid.UUID{uuid.New(), uuid.New()}
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	suite.mockAvailabilityRepo.On("ListUnavailableOnDate", suite.ctx, memberIDs, date).Return([]uuid.UUID{}, nil)
	suite.mockScheduleRepo.On("ListIDsAtDateTime", suite.ctx, suite.churchID, "2026-09-06", "19:00:00", (*uuid.UUID)(nil)).Return([]uuid.UUID{}, nil)
	suite.mockAssignmentRepo.On("ListMemberIDsInSchedules", suite.ctx, []uuid.UUID{}, memberIDs).Return([]uuid.UUID{}, nil)

	results, err := suite.service.CheckMembers(suite.ctx, suite.churchID, memberIDs, "2026-09-06", "19:00:00", nil)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)
	for _, memberID := range memberIDs {
		assert.False(suite.T(), results[memberID].IsUnavailable)
		assert.False(suite.T(), results[memberID].IsConflicting)
	}
}

func (suite *ConflictServiceTestSuite) TestCheckMembers_FlagsBothKinds() {
	unavailableMember := uuid.New()
	busyMember := uuid.New()
	freeMember := uuid.New()
	memberIDs := []uuid.UUID{unavailableMember, busyMember, freeMember}
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	otherScheduleID := uuid.New()

	suite.mockAvailabilityRepo.On("ListUnavailableOnDate", suite.ctx, memberIDs, date).Return([]uuid.UUID{unavailableMember}, nil)
	suite.mockScheduleRepo.On("ListIDsAtDateTime", suite.ctx, suite.churchID, "2026-09-06", "19:00:00", (*uuid.UUID)(nil)).Return([]uuid.UUID{otherScheduleID}, nil)
	suite.mockAssignmentRepo.On("ListMemberIDsInSchedules", suite.ctx, []uuid.UUID{otherScheduleID}, memberIDs).Return([]uuid.UUID{busyMember}, nil)

	results, err := suite.service.CheckMembers(suite.ctx, suite.churchID, memberIDs, "2026-09-06", "19:00:00", nil)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), results[unavailableMember].IsUnavailable)
	assert.False(suite.T(), results[unavailableMember].IsConflicting)
	assert.True(suite.T(), results[busyMember].IsConflicting)
	assert.False(suite.T(), results[busyMember].IsUnavailable)
	assert.False(suite.T(), results[freeMember].IsUnavailable)
	assert.False(suite.T(), results[freeMember].IsConflicting)
}

func (suite *ConflictServiceTestSuite) TestCheckMembers_ExcludesEditedSchedule() {
	memberID := uuid.New()
	memberIDs := []uuid.UUID{memberID}
	editedScheduleID := uuid.New()
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	suite.mockAvailabilityRepo.On("ListUnavailableOnDate", suite.ctx, memberIDs, date).Return([]uuid.UUID{}, nil)
	// The repository receives the exclusion so the edited schedule's own
	// roster never shows up as a conflict.
	suite.mockScheduleRepo.On("ListIDsAtDateTime", suite.ctx, suite.churchID, "2026-09-06", "19:00:00", &editedScheduleID).Return([]uuid.UUID{}, nil)
	suite.mockAssignmentRepo.On("ListMemberIDsInSchedules", suite.ctx, []uuid.UUID{}, memberIDs).Return([]uuid.UUID{}, nil)

	results, err := suite.service.CheckMembers(suite.ctx, suite.churchID, memberIDs, "2026-09-06", "19:00:00", &editedScheduleID)

	assert.NoError(suite.T(), err)
	assert.False(suite.T(), results[memberID].IsConflicting)
}

func (suite *ConflictServiceTestSuite) TestCheckMembers_EmptyRosterSkipsQueries() {
	results, err := suite.service.CheckMembers(suite.ctx, suite.churchID, []uuid.UUID{}, "2026-09-06", "19:00:00", nil)

	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), results)
}

func (suite *ConflictServiceTestSuite) TestCheckMembers_InvalidDate() {
	results, err := suite.service.CheckMembers(suite.ctx, suite.churchID, []uuid.UUID{uuid.New()}, "06/09/2026", "19:00:00", nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), results)
}

func (suite *ConflictServiceTestSuite) TestCheckMembers_QueryErrorAborts() {
	memberIDs := []uuid.UUID{uuid.New()}
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	suite.mockAvailabilityRepo.On("ListUnavailableOnDate", suite.ctx, memberIDs, date).Return(nil, errors.New("query timeout"))

	results, err := suite.service.CheckMembers(suite.ctx, suite.churchID, memberIDs, "2026-09-06", "19:00:00", nil)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), results)
	assert.Contains(suite.T(), err.Error(), "failed to check availability")
}

func TestConflictServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConflictServiceTestSuite))
}
