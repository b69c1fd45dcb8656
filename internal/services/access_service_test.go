package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockChurchRepository is a mock implementation of ChurchRepository
type MockChurchRepository struct {
	mock.Mock
}

func (m *MockChurchRepository) Create(ctx context.Context, church *models.Church) error {
	args := m.Called(ctx, church)
	return args.Error(0)
}

func (m *MockChurchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Church, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Church), args.Error(1)
}

func (m *MockChurchRepository) GetByOwner(ctx context.Context, ownerUserID uuid.UUID) (*models.Church, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Church), args.Error(1)
}

func (m *MockChurchRepository) Update(ctx context.Context, church *models.Church) error {
	args := m.Called(ctx, church)
	return args.Error(0)
}

func (m *MockChurchRepository) UpdateSubscription(ctx context.Context, id uuid.UUID, plan string, endDate *time.Time) error {
	args := m.Called(ctx, id, plan, endDate)
	return args.Error(0)
}

func (m *MockChurchRepository) SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	args := m.Called(ctx, id, logoURL)
	return args.Error(0)
}

func (m *MockChurchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockChurchRepository) List(ctx context.Context, limit, offset int) ([]*models.Church, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Church), args.Error(1)
}

type AccessServiceTestSuite struct {
	suite.Suite
	mockChurchRepo *MockChurchRepository
	service        AccessService
	ctx            context.Context
}

func (suite *AccessServiceTestSuite) SetupTest() {
	suite.mockChurchRepo = new(MockChurchRepository)
	suite.mockChurchRepo.Test(suite.T())
	suite.service = NewAccessService(suite.mockChurchRepo)
	suite.ctx = context.Background()
}

func (suite *AccessServiceTestSuite) TearDownTest() {
	suite.mockChurchRepo.AssertExpectations(suite.T())
}

func (suite *AccessServiceTestSuite) TestCheckAccess_ActiveTrial() {
	churchID := uuid.New()
	trialStart := time.Now().AddDate(0, 0, -3)
	church := &models.Church{
		ID:               churchID,
		Name:             "Igreja Central",
		SubscriptionPlan: models.PlanFree,
		TrialStartDate:   &trialStart,
	}

	suite.mockChurchRepo.On("GetByID", suite.ctx, churchID).Return(church, nil)

	status, err := suite.service.CheckAccess(suite.ctx, churchID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), status.Active)
	assert.True(suite.T(), status.InTrial)
	assert.NotNil(suite.T(), status.DaysLeft)
	assert.Equal(suite.T(), 12, *status.DaysLeft)
}

func (suite *AccessServiceTestSuite) TestCheckAccess_RepoErrorFailsClosed() {
	churchID := uuid.New()

	suite.mockChurchRepo.On("GetByID", suite.ctx, churchID).Return(nil, errors.New("connection refused"))

	status, err := suite.service.CheckAccess(suite.ctx, churchID)

	assert.Error(suite.T(), err)
	assert.NotNil(suite.T(), status)
	assert.False(suite.T(), status.Active)
}

func TestAccessServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceTestSuite))
}

// The gating rules themselves are pure, so the decision table is tested
// directly against EvaluateAccess with a fixed clock.
func TestEvaluateAccess(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

	date := func(year int, month time.Month, day int) *time.Time {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return &d
	}

	tests := []struct {
		name         string
		church       *models.Church
		wantActive   bool
		wantInTrial  bool
		wantDaysLeft *int
	}{
		{
			name:       "nil church is blocked",
			church:     nil,
			wantActive: false,
		},
		{
			name: "free plan with future end date",
			church: &models.Church{
				SubscriptionPlan:    models.PlanFree,
				SubscriptionEndDate: date(2026, 9, 7),
			},
			wantActive:   true,
			wantDaysLeft: intPtr(10),
		},
		{
			name: "free plan end date today still active",
			church: &models.Church{
				SubscriptionPlan:    models.PlanFree,
				SubscriptionEndDate: date(2026, 8, 28),
			},
			wantActive:   true,
			wantDaysLeft: intPtr(0),
		},
		{
			name: "free plan end date yesterday is expired",
			church: &models.Church{
				SubscriptionPlan:    models.PlanFree,
				SubscriptionEndDate: date(2026, 8, 27),
			},
			wantActive:   false,
			wantDaysLeft: intPtr(-1),
		},
		{
			name: "end date wins over trial window",
			church: &models.Church{
				SubscriptionPlan:    models.PlanFree,
				TrialStartDate:      date(2026, 8, 28),
				SubscriptionEndDate: date(2026, 8, 20),
			},
			wantActive:   false,
			wantDaysLeft: intPtr(-8),
		},
		{
			name: "trial started today",
			church: &models.Church{
				SubscriptionPlan: models.PlanFree,
				TrialStartDate:   date(2026, 8, 28),
			},
			wantActive:   true,
			wantInTrial:  true,
			wantDaysLeft: intPtr(15),
		},
		{
			name: "trial day 15 is the last active day",
			church: &models.Church{
				SubscriptionPlan: models.PlanFree,
				TrialStartDate:   date(2026, 8, 13),
			},
			wantActive:   true,
			wantInTrial:  true,
			wantDaysLeft: intPtr(0),
		},
		{
			name: "trial day 16 is expired",
			church: &models.Church{
				SubscriptionPlan: models.PlanFree,
				TrialStartDate:   date(2026, 8, 12),
			},
			wantActive:   false,
			wantInTrial:  true,
			wantDaysLeft: intPtr(-1),
		},
		{
			name: "free plan with no dates is blocked",
			church: &models.Church{
				SubscriptionPlan: models.PlanFree,
			},
			wantActive: false,
		},
		{
			name: "paid plan without end date fails open",
			church: &models.Church{
				SubscriptionPlan: models.PlanPro,
			},
			wantActive: true,
		},
		{
			name: "paid plan with future end date",
			church: &models.Church{
				SubscriptionPlan:    models.PlanBasic,
				SubscriptionEndDate: date(2026, 10, 1),
			},
			wantActive:   true,
			wantDaysLeft: intPtr(34),
		},
		{
			name: "paid plan past end date is expired",
			church: &models.Church{
				SubscriptionPlan:    models.PlanPremium,
				SubscriptionEndDate: date(2026, 8, 1),
			},
			wantActive:   false,
			wantDaysLeft: intPtr(-27),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := EvaluateAccess(tt.church, now)

			assert.Equal(t, tt.wantActive, status.Active)
			assert.Equal(t, tt.wantInTrial, status.InTrial)
			if tt.wantDaysLeft == nil {
				assert.Nil(t, status.DaysLeft)
			} else {
				assert.NotNil(t, status.DaysLeft)
				assert.Equal(t, *tt.wantDaysLeft, *status.DaysLeft)
			}
		})
	}
}

// The cutoff is the end of the expiry day, not the moment of the check.
func TestEvaluateAccess_TruncatesToWholeDays(t *testing.T) {
	endDate := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	church := &models.Church{
		SubscriptionPlan:    models.PlanPro,
		SubscriptionEndDate: &endDate,
	}

	lateEvening := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	status := EvaluateAccess(church, lateEvening)

	assert.True(t, status.Active)
	assert.Equal(t, 0, *status.DaysLeft)
}

// Day arithmetic must survive DST: in a zone that springs forward, two
// local midnights are only 23 hours apart, which must still count as a
// full day. 2026-03-08 is the US spring-forward date.
func TestEvaluateAccess_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	endDate := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)
	church := &models.Church{
		SubscriptionPlan:    models.PlanFree,
		SubscriptionEndDate: &endDate,
	}

	dayAfter := time.Date(2026, 3, 9, 12, 0, 0, 0, loc)
	status := EvaluateAccess(church, dayAfter)
	assert.False(t, status.Active)
	assert.Equal(t, -1, *status.DaysLeft)

	expiryDay := time.Date(2026, 3, 8, 12, 0, 0, 0, loc)
	status = EvaluateAccess(church, expiryDay)
	assert.True(t, status.Active)
	assert.Equal(t, 0, *status.DaysLeft)
}

func intPtr(i int) *int {
	return &i
}
