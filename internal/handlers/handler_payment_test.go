package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/komiteku/komite-backend/internal/apperrors"
	"github.com/komiteku/komite-backend/internal/core/domain"
	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/handlers"
	"github.com/komiteku/komite-backend/internal/platform/config"
	"github.com/komiteku/komite-backend/internal/utils"
)

// --- Mock PaymentService ---

type MockPaymentService struct {
	mock.Mock
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

func (m *MockPaymentService) GetStudentBalance(ctx context.Context, studentID string) (*domain.StudentBalance, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentBalance), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context) ([]domain.PaymentDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentDetail), args.Error(1)
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, collectorUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, req, collectorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) EditPayment(ctx context.Context, paymentID string, req dto.EditPaymentRequest, updaterUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, req, updaterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

// --- Test Suite ---

type PaymentHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockPaymentService *MockPaymentService
	jwtSecret          string
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router = gin.New()

	suite.mockPaymentService = new(MockPaymentService)

	cfg := &config.Config{
		JWTSecret:      suite.jwtSecret,
		LoginRateLimit: "5-M",
	}
	container := &portssvc.ServiceContainer{
		Payment: suite.mockPaymentService,
	}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *PaymentHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "komite-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *PaymentHandlerTestSuite) doJSON(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_Success() {
	collectorID := uuid.NewString()
	studentID := uuid.NewString()

	expected := &domain.Payment{
		PaymentID:   uuid.NewString(),
		StudentID:   studentID,
		Amount:      150000,
		CollectedBy: collectorID,
		Method:      domain.DefaultPaymentMethod,
		PaidAt:      time.Now().UTC(),
	}
	suite.mockPaymentService.On("RecordPayment",
		mock.Anything,
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return req.StudentID == studentID && req.Amount == 150000
		}),
		collectorID,
	).Return(expected, nil).Once()

	token := suite.generateTestToken(collectorID, domain.RoleRepresentative)
	w := suite.doJSON(http.MethodPost, "/api/v1/payments", token, gin.H{
		"studentID": studentID,
		"amount":    150000,
	})

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.PaymentID, resp.PaymentID)
	suite.Equal(collectorID, resp.CollectedBy)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_BalanceExceeded() {
	collectorID := uuid.NewString()
	studentID := uuid.NewString()

	suite.mockPaymentService.On("RecordPayment", mock.Anything, mock.Anything, collectorID).
		Return(nil, apperrors.NewBalanceExceededError(100000)).Once()

	token := suite.generateTestToken(collectorID, domain.RoleRepresentative)
	w := suite.doJSON(http.MethodPost, "/api/v1/payments", token, gin.H{
		"studentID": studentID,
		"amount":    150000,
	})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.Remaining)
	suite.Equal(int64(100000), *resp.Remaining)
}

func (suite *PaymentHandlerTestSuite) TestRecordPayment_Unauthenticated() {
	w := suite.doJSON(http.MethodPost, "/api/v1/payments", "", gin.H{
		"studentID": uuid.NewString(),
		"amount":    150000,
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestDeletePayment_RequiresAdmin() {
	paymentID := uuid.NewString()

	token := suite.generateTestToken(uuid.NewString(), domain.RoleRepresentative)
	w := suite.doJSON(http.MethodDelete, "/api/v1/payments/"+paymentID, token, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "DeletePayment", mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestDeletePayment_AdminSucceeds() {
	paymentID := uuid.NewString()
	suite.mockPaymentService.On("DeletePayment", mock.Anything, paymentID).Return(nil).Once()

	token := suite.generateTestToken(uuid.NewString(), domain.RoleAdmin)
	w := suite.doJSON(http.MethodDelete, "/api/v1/payments/"+paymentID, token, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestEditPayment_NotFound() {
	paymentID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockPaymentService.On("EditPayment", mock.Anything, paymentID, mock.Anything, userID).
		Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken(userID, domain.RoleRepresentative)
	w := suite.doJSON(http.MethodPut, "/api/v1/payments/"+paymentID, token, gin.H{"amount": 1000})

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
