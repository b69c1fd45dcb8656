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

// MockInvitationRepository is a mock implementation of InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByToken(ctx context.Context, token uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*models.Invitation, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) MarkAccepted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvitationRepository) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	args := m.Called(ctx, churchID, id)
	return args.Error(0)
}

// MockUserRoleRepository is a mock implementation of UserRoleRepository
type MockUserRoleRepository struct {
	mock.Mock
}

func (m *MockUserRoleRepository) Create(ctx context.Context, userRole *models.UserRole) error {
	args := m.Called(ctx, userRole)
	return args.Error(0)
}

func (m *MockUserRoleRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRole), args.Error(1)
}

func (m *MockUserRoleRepository) ListByChurch(ctx context.Context, churchID uuid.UUID) ([]*models.UserRole, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRole), args.Error(1)
}

func (m *MockUserRoleRepository) HasRole(ctx context.Context, userID, churchID uuid.UUID, role string) (bool, error) {
	args := m.Called(ctx, userID, churchID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRoleRepository) ResolveChurchID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRoleRepository) Delete(ctx context.Context, userID, churchID uuid.UUID) error {
	args := m.Called(ctx, userID, churchID)
	return args.Error(0)
}

type InvitationServiceTestSuite struct {
	suite.Suite
	mockInvitationRepo *MockInvitationRepository
	mockUserRoleRepo   *MockUserRoleRepository
	service            InvitationService
	ctx                context.Context
	churchID           uuid.UUID
}

func (suite *InvitationServiceTestSuite) SetupTest() {
	suite.mockInvitationRepo = new(MockInvitationRepository)
	suite.mockUserRoleRepo = new(MockUserRoleRepository)
	suite.mockInvitationRepo.Test(suite.T())
	suite.mockUserRoleRepo.Test(suite.T())
	suite.service = NewInvitationService(suite.mockInvitationRepo, suite.mockUserRoleRepo)
	suite.ctx = context.Background()
	suite.churchID = uuid.New()
}

func (suite *InvitationServiceTestSuite) TearDownTest() {
	suite.mockInvitationRepo.AssertExpectations(suite.T())
	suite.mockUserRoleRepo.AssertExpectations(suite.T())
}

func (suite *InvitationServiceTestSuite) TestInvite() {
	createdBy := uuid.New()

	suite.mockInvitationRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Invitation")).Return(nil).Run(func(args mock.Arguments) {
		invitation := args.Get(1).(*models.Invitation)
		assert.Equal(suite.T(), suite.churchID, invitation.ChurchID)
		assert.Equal(suite.T(), models.RoleMinistryLeader, invitation.Role)
		assert.NotEqual(suite.T(), uuid.Nil, invitation.Token)
		assert.WithinDuration(suite.T(), time.Now().Add(7*24*time.Hour), invitation.ExpiresAt, time.Minute)
	})

	invitation, err := suite.service.Invite(suite.ctx, suite.churchID, createdBy, "lider@igreja.com", models.RoleMinistryLeader)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "lider@igreja.com", invitation.Email)
}

func (suite *InvitationServiceTestSuite) TestInvite_PlatformAdminRejected() {
	invitation, err := suite.service.Invite(suite.ctx, suite.churchID, uuid.New(), "alguem@igreja.com", models.RolePlatformAdmin)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), invitation)
}

func (suite *InvitationServiceTestSuite) TestInvite_EmptyEmail() {
	invitation, err := suite.service.Invite(suite.ctx, suite.churchID, uuid.New(), "", models.RoleMember)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), invitation)
}

func (suite *InvitationServiceTestSuite) TestAccept() {
	token := uuid.New()
	userID := uuid.New()
	invitation := &models.Invitation{
		ID:        uuid.New(),
		ChurchID:  suite.churchID,
		Email:     "lider@igreja.com",
		Role:      models.RoleMinistryLeader,
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	suite.mockInvitationRepo.On("GetByToken", suite.ctx, token).Return(invitation, nil)
	suite.mockUserRoleRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.UserRole")).Return(nil).Run(func(args mock.Arguments) {
		role := args.Get(1).(*models.UserRole)
		assert.Equal(suite.T(), userID, role.UserID)
		assert.Equal(suite.T(), suite.churchID, role.ChurchID)
		assert.Equal(suite.T(), models.RoleMinistryLeader, role.Role)
	})
	suite.mockInvitationRepo.On("MarkAccepted", suite.ctx, invitation.ID).Return(nil)

	role, err := suite.service.Accept(suite.ctx, token, userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleMinistryLeader, role.Role)
}

func (suite *InvitationServiceTestSuite) TestAccept_UnknownToken() {
	token := uuid.New()

	suite.mockInvitationRepo.On("GetByToken", suite.ctx, token).Return(nil, pgx.ErrNoRows)

	role, err := suite.service.Accept(suite.ctx, token, uuid.New())

	assert.ErrorIs(suite.T(), err, ErrInvitationNotFound)
	assert.Nil(suite.T(), role)
}

func (suite *InvitationServiceTestSuite) TestAccept_Expired() {
	token := uuid.New()
	invitation := &models.Invitation{
		ID:        uuid.New(),
		ChurchID:  suite.churchID,
		Token:     token,
		Role:      models.RoleMember,
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	suite.mockInvitationRepo.On("GetByToken", suite.ctx, token).Return(invitation, nil)

	role, err := suite.service.Accept(suite.ctx, token, uuid.New())

	assert.ErrorIs(suite.T(), err, ErrInvitationExpired)
	assert.Nil(suite.T(), role)
}

func (suite *InvitationServiceTestSuite) TestAccept_AlreadyUsed() {
	token := uuid.New()
	acceptedAt := time.Now().Add(-time.Hour)
	invitation := &models.Invitation{
		ID:         uuid.New(),
		ChurchID:   suite.churchID,
		Token:      token,
		Role:       models.RoleMember,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
		AcceptedAt: &acceptedAt,
	}

	suite.mockInvitationRepo.On("GetByToken", suite.ctx, token).Return(invitation, nil)

	role, err := suite.service.Accept(suite.ctx, token, uuid.New())

	assert.ErrorIs(suite.T(), err, ErrInvitationUsed)
	assert.Nil(suite.T(), role)
}

func TestInvitationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvitationServiceTestSuite))
}
