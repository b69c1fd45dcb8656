package services

import (
	"context"
	"testing"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateCheckout(ctx context.Context, churchID uuid.UUID, planID, customerEmail string, amount float64) (*CheckoutSession, error) {
	args := m.Called(ctx, churchID, planID, customerEmail, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

func (m *MockPaymentService) CancelSubscription(ctx context.Context, providerSubscriptionID string) error {
	args := m.Called(ctx, providerSubscriptionID)
	return args.Error(0)
}

func (m *MockPaymentService) WebhookVerify(rawData []byte, signature string) (*WebhookEvent, error) {
	args := m.Called(rawData, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WebhookEvent), args.Error(1)
}

type BillingServiceTestSuite struct {
	suite.Suite
	mockChurchRepo *MockChurchRepository
	mockPaymentSvc *MockPaymentService
	service        BillingService
	ctx            context.Context
	churchID       uuid.UUID
}

func (suite *BillingServiceTestSuite) SetupTest() {
	suite.mockChurchRepo = new(MockChurchRepository)
	suite.mockPaymentSvc = new(MockPaymentService)
	suite.mockChurchRepo.Test(suite.T())
	suite.mockPaymentSvc.Test(suite.T())
	suite.service = NewBillingService(suite.mockChurchRepo, suite.mockPaymentSvc, nil)
	suite.ctx = context.Background()
	suite.churchID = uuid.New()
}

func (suite *BillingServiceTestSuite) TearDownTest() {
	suite.mockChurchRepo.AssertExpectations(suite.T())
	suite.mockPaymentSvc.AssertExpectations(suite.T())
}

func (suite *BillingServiceTestSuite) TestCancelSubscription() {
	suite.mockChurchRepo.On("GetByID", suite.ctx, suite.churchID).
		Return(&models.Church{ID: suite.churchID, SubscriptionPlan: models.PlanPro}, nil)
	suite.mockPaymentSvc.On("CancelSubscription", suite.ctx, "sub_123").Return(nil)

	err := suite.service.CancelSubscription(suite.ctx, suite.churchID, "sub_123")

	assert.NoError(suite.T(), err)
}

func (suite *BillingServiceTestSuite) TestCancelSubscription_FreePlan() {
	suite.mockChurchRepo.On("GetByID", suite.ctx, suite.churchID).
		Return(&models.Church{ID: suite.churchID, SubscriptionPlan: models.PlanFree}, nil)

	err := suite.service.CancelSubscription(suite.ctx, suite.churchID, "sub_123")

	assert.Error(suite.T(), err)
	suite.mockPaymentSvc.AssertNotCalled(suite.T(), "CancelSubscription", mock.Anything, mock.Anything)
}

func (suite *BillingServiceTestSuite) TestCancelSubscription_MissingSubscriptionID() {
	err := suite.service.CancelSubscription(suite.ctx, suite.churchID, "")

	assert.Error(suite.T(), err)
	suite.mockPaymentSvc.AssertNotCalled(suite.T(), "CancelSubscription", mock.Anything, mock.Anything)
}

func TestBillingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillingServiceTestSuite))
}
