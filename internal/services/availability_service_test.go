package services

import (
	"context"
	"testing"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Member, error) {
	args := m.Called(ctx, churchID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *models.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	args := m.Called(ctx, churchID, id)
	return args.Error(0)
}

func (m *MockMemberRepository) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.Member, error) {
	args := m.Called(ctx, churchID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) ListByMinistry(ctx context.Context, churchID, ministryID uuid.UUID) ([]*models.Member, error) {
	args := m.Called(ctx, churchID, ministryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Count(ctx context.Context, churchID uuid.UUID) (int, error) {
	args := m.Called(ctx, churchID)
	return args.Int(0), args.Error(1)
}

type AvailabilityServiceTestSuite struct {
	suite.Suite
	mockAvailabilityRepo *MockAvailabilityRepository
	mockMemberRepo       *MockMemberRepository
	service              AvailabilityService
	ctx                  context.Context
	churchID             uuid.UUID
	memberID             uuid.UUID
	member               *models.Member
}

func (suite *AvailabilityServiceTestSuite) SetupTest() {
	suite.mockAvailabilityRepo = new(MockAvailabilityRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockAvailabilityRepo.Test(suite.T())
	suite.mockMemberRepo.Test(suite.T())
	suite.service = NewAvailabilityService(suite.mockAvailabilityRepo, suite.mockMemberRepo)
	suite.ctx = context.Background()
	suite.churchID = uuid.New()
	suite.memberID = uuid.New()
	suite.member = &models.Member{
		ID:       suite.memberID,
		ChurchID: suite.churchID,
		Name:     "João Silva",
	}
}

func (suite *AvailabilityServiceTestSuite) TearDownTest() {
	suite.mockAvailabilityRepo.AssertExpectations(suite.T())
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *AvailabilityServiceTestSuite) TestSetAvailability_MarkUnavailableCreatesRow() {
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	notes := stringPtr("Viagem de família")

	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(suite.member, nil)
	suite.mockAvailabilityRepo.On("GetByMemberAndDate", suite.ctx, suite.memberID, date).Return(nil, nil)
	suite.mockAvailabilityRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.MemberAvailability")).Return(nil).Run(func(args mock.Arguments) {
		availability := args.Get(1).(*models.MemberAvailability)
		assert.Equal(suite.T(), suite.memberID, availability.MemberID)
		assert.False(suite.T(), availability.Available)
		assert.Equal(suite.T(), "Viagem de família", *availability.Notes)
	})

	err := suite.service.SetAvailability(suite.ctx, suite.churchID, suite.memberID, "2026-09-06", false, notes)

	assert.NoError(suite.T(), err)
}

func (suite *AvailabilityServiceTestSuite) TestSetAvailability_MarkUnavailableTwiceUpdatesNotes() {
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	existing := &models.MemberAvailability{
		ID:        uuid.New(),
		MemberID:  suite.memberID,
		Date:      date,
		Available: false,
		Notes:     stringPtr("Motivo antigo"),
	}

	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(suite.member, nil)
	suite.mockAvailabilityRepo.On("GetByMemberAndDate", suite.ctx, suite.memberID, date).Return(existing, nil)
	suite.mockAvailabilityRepo.On("Update", suite.ctx, existing).Return(nil)

	err := suite.service.SetAvailability(suite.ctx, suite.churchID, suite.memberID, "2026-09-06", false, stringPtr("Motivo novo"))

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Motivo novo", *existing.Notes)
}

func (suite *AvailabilityServiceTestSuite) TestSetAvailability_MarkAvailableDeletesRow() {
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	existing := &models.MemberAvailability{
		ID:       uuid.New(),
		MemberID: suite.memberID,
		Date:     date,
	}

	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(suite.member, nil)
	suite.mockAvailabilityRepo.On("GetByMemberAndDate", suite.ctx, suite.memberID, date).Return(existing, nil)
	suite.mockAvailabilityRepo.On("Delete", suite.ctx, existing.ID).Return(nil)

	err := suite.service.SetAvailability(suite.ctx, suite.churchID, suite.memberID, "2026-09-06", true, nil)

	assert.NoError(suite.T(), err)
}

func (suite *AvailabilityServiceTestSuite) TestSetAvailability_MarkAvailableWithoutRowIsNoop() {
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(suite.member, nil)
	suite.mockAvailabilityRepo.On("GetByMemberAndDate", suite.ctx, suite.memberID, date).Return(nil, nil)

	err := suite.service.SetAvailability(suite.ctx, suite.churchID, suite.memberID, "2026-09-06", true, nil)

	assert.NoError(suite.T(), err)
	suite.mockAvailabilityRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
	suite.mockAvailabilityRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *AvailabilityServiceTestSuite) TestSetAvailability_MemberFromAnotherChurch() {
	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(nil, pgx.ErrNoRows)

	err := suite.service.SetAvailability(suite.ctx, suite.churchID, suite.memberID, "2026-09-06", false, nil)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "member not found")
}

func (suite *AvailabilityServiceTestSuite) TestSetAvailability_InvalidDate() {
	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(suite.member, nil)

	err := suite.service.SetAvailability(suite.ctx, suite.churchID, suite.memberID, "06/09/2026", false, nil)

	assert.Error(suite.T(), err)
}

func (suite *AvailabilityServiceTestSuite) TestListUnavailable() {
	records := []*models.MemberAvailability{
		{ID: uuid.New(), MemberID: suite.memberID, Available: false},
	}

	suite.mockMemberRepo.On("GetByID", suite.ctx, suite.churchID, suite.memberID).Return(suite.member, nil)
	suite.mockAvailabilityRepo.On("ListUnavailableByMember", suite.ctx, suite.memberID).Return(records, nil)

	result, err := suite.service.ListUnavailable(suite.ctx, suite.churchID, suite.memberID)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
}

func TestAvailabilityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityServiceTestSuite))
}

func stringPtr(s string) *string {
	return &s
}
