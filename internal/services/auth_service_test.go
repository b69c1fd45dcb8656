package services

import (
	"context"
	"testing"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCacheService is a mock implementation of caching.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetChurch(ctx context.Context, churchID uuid.UUID) (*models.Church, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Church), args.Error(1)
}

func (m *MockCacheService) SetChurch(ctx context.Context, church *models.Church, ttl time.Duration) error {
	args := m.Called(ctx, church, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteChurch(ctx context.Context, churchID uuid.UUID) error {
	args := m.Called(ctx, churchID)
	return args.Error(0)
}

func (m *MockCacheService) GetDashboardStats(ctx context.Context, churchID uuid.UUID) (map[string]interface{}, error) {
	args := m.Called(ctx, churchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetDashboardStats(ctx context.Context, churchID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, churchID, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateChurchCache(ctx context.Context, churchID uuid.UUID) error {
	args := m.Called(ctx, churchID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo     *MockUserRepository
	mockUserRoleRepo *MockUserRoleRepository
	mockCacheSvc     *MockCacheService
	service          AuthService
	ctx              context.Context
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockUserRoleRepo = new(MockUserRoleRepository)
	suite.mockCacheSvc = new(MockCacheService)
	suite.mockUserRepo.Test(suite.T())
	suite.mockUserRoleRepo.Test(suite.T())
	suite.mockCacheSvc.Test(suite.T())
	suite.service = NewAuthService(suite.mockUserRepo, suite.mockUserRoleRepo, suite.mockCacheSvc, "test-secret", 3600, 30*24*3600)
	suite.ctx = context.Background()
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockUserRoleRepo.AssertExpectations(suite.T())
	suite.mockCacheSvc.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_RateLimited() {
	suite.mockCacheSvc.On("IsRateLimited", suite.ctx, "login_attempts:pastor@igreja.com", 10, time.Minute).
		Return(true, nil)

	tokens, err := suite.service.Login(suite.ctx, "Pastor@Igreja.com", "senha-forte")

	assert.ErrorIs(suite.T(), err, ErrTooManyAttempts)
	assert.Nil(suite.T(), tokens)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetByEmail", mock.Anything, mock.Anything)
}

// A generated refresh token must come back through RefreshToken: the
// stored value round-trips and the old token is consumed.
func (suite *AuthServiceTestSuite) TestRefreshToken_RoundTrip() {
	userID := uuid.New()
	churchID := uuid.New()

	var storedKey, storedValue string
	suite.mockCacheSvc.On("SetString", suite.ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			storedKey = args.String(1)
			storedValue = args.String(2)
		})

	tokens, err := suite.service.GenerateTokens(suite.ctx, userID, churchID)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(tokens.RefreshToken)

	suite.mockCacheSvc.On("GetString", suite.ctx, storedKey).Return(storedValue, nil)
	suite.mockCacheSvc.On("Delete", suite.ctx, storedKey).Return(nil)
	suite.mockUserRoleRepo.On("ResolveChurchID", suite.ctx, userID).Return(churchID, nil)

	refreshed, err := suite.service.RefreshToken(suite.ctx, tokens.RefreshToken)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), userID.String(), refreshed.UserID)
	assert.Equal(suite.T(), churchID.String(), refreshed.ChurchID)
	assert.NotEqual(suite.T(), tokens.RefreshToken, refreshed.RefreshToken)
}

func (suite *AuthServiceTestSuite) TestRefreshToken_Unknown() {
	suite.mockCacheSvc.On("GetString", suite.ctx, mock.AnythingOfType("string")).Return("", nil)

	tokens, err := suite.service.RefreshToken(suite.ctx, "nonexistent-token")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), tokens)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
