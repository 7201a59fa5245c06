package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/dto"
	"github.com/openbooks/ledger_app/internal/handlers"
	"github.com/openbooks/ledger_app/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockAccountService = new(MockAccountService)

	// Only the account facade is exercised here; the other facades stay nil
	// because route registration never dereferences them.
	handlers.RegisterRoutes(suite.router, &config.Config{}, &portssvc.ServiceContainer{
		Account: suite.mockAccountService,
	})
}

// doJSON performs a request carrying the identity header the v1 routes require.
func (suite *AccountHandlerTestSuite) doJSON(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Operating Cash",
		AccountType: domain.Asset,
	}
	created := &domain.Account{
		AccountID:    uuid.NewString(),
		Code:         req.Code,
		Name:         req.Name,
		AccountType:  req.AccountType,
		CurrencyCode: "USD",
		IsActive:     true,
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, req, userID).Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", userID, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1010", resp.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MissingIdentityHeader() {
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Operating Cash",
		AccountType: domain.Asset,
	}

	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", "", req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_MalformedCurrencyCode() {
	req := dto.CreateAccountRequest{
		Code:         "1010",
		Name:         "Operating Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "dollars",
	}

	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", "user-1", req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:        "1010",
		Name:        "Operating Cash",
		AccountType: domain.Asset,
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, req, userID).
		Return(nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/accounts", userID, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	userID := uuid.NewString()
	accountID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, fmt.Errorf("failed to find account %s: %w", accountID, apperrors.ErrNotFound)).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/accounts/"+accountID, userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	userID := uuid.NewString()
	expected := &dto.ListAccountsResponse{
		Accounts: []dto.AccountResponse{
			{AccountID: uuid.NewString(), Code: "1010", Name: "Cash", AccountType: domain.Asset},
			{AccountID: uuid.NewString(), Code: "1020", Name: "Savings", AccountType: domain.Asset},
		},
		NextToken: "next-page",
	}

	suite.mockAccountService.On("ListAccounts", mock.Anything, mock.MatchedBy(func(p dto.ListAccountsParams) bool {
		return p.Limit == 2 && p.NextToken == ""
	})).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/accounts?limit=2", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	suite.Equal("next-page", resp.NextToken)
	suite.mockAccountService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
