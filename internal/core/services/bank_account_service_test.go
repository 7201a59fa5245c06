package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/core/services"
	"github.com/openbooks/ledger_app/internal/dto"
)

// MockBankAccountRepository is a mock type for the BankAccountRepositoryFacade interface
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) UpdateBankAccountStatus(ctx context.Context, account domain.BankAccount, expected domain.BankAccountStatus) error {
	args := m.Called(ctx, account, expected)
	return args.Error(0)
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

// --- Test Suite Setup ---

type BankAccountServiceTestSuite struct {
	suite.Suite
	mockBankRepo    *MockBankAccountRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.BankAccountSvcFacade

	ledgerAccountID string
}

func (suite *BankAccountServiceTestSuite) SetupTest() {
	suite.mockBankRepo = new(MockBankAccountRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewBankAccountService(suite.mockBankRepo, suite.mockAccountRepo, "USD")

	suite.ledgerAccountID = uuid.NewString()
}

func (suite *BankAccountServiceTestSuite) ledgerAccount() *domain.Account {
	return &domain.Account{
		AccountID:   suite.ledgerAccountID,
		Code:        "1010",
		Name:        "Operating Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
}

func (suite *BankAccountServiceTestSuite) activeBankAccount() *domain.BankAccount {
	account, err := domain.NewBankAccount(uuid.NewString(), suite.ledgerAccountID, "First National", "12345678", domain.BankAccountChecking, "USD", uuid.NewString(), time.Now().UTC())
	suite.Require().NoError(err)
	return account
}

// --- Test Cases ---

func (suite *BankAccountServiceTestSuite) TestCreateBankAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateBankAccountRequest{
		LedgerAccountID: suite.ledgerAccountID,
		BankName:        "First National",
		AccountNumber:   "12345678",
		AccountType:     domain.BankAccountChecking,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.ledgerAccountID).Return(suite.ledgerAccount(), nil).Once()
	suite.mockBankRepo.On("SaveBankAccount", ctx, mock.AnythingOfType("domain.BankAccount")).Return(nil).Once()

	account, err := suite.service.CreateBankAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.BankAccountActive, account.Status)
	suite.Equal(suite.ledgerAccountID, account.LedgerAccountID)
	suite.Equal("USD", account.CurrencyCode)
	suite.Nil(account.LastReconciledDate)
	suite.Equal(creatorUserID, account.CreatedBy)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func (suite *BankAccountServiceTestSuite) TestCreateBankAccount_LedgerAccountMissing() {
	ctx := context.Background()
	req := dto.CreateBankAccountRequest{
		LedgerAccountID: suite.ledgerAccountID,
		BankName:        "First National",
		AccountNumber:   "12345678",
		AccountType:     domain.BankAccountChecking,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.ledgerAccountID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateBankAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockBankRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *BankAccountServiceTestSuite) TestCreateBankAccount_NonAssetLedgerAccount() {
	ctx := context.Background()
	ledger := suite.ledgerAccount()
	ledger.AccountType = domain.Revenue
	req := dto.CreateBankAccountRequest{
		LedgerAccountID: suite.ledgerAccountID,
		BankName:        "First National",
		AccountNumber:   "12345678",
		AccountType:     domain.BankAccountChecking,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.ledgerAccountID).Return(ledger, nil).Once()

	account, err := suite.service.CreateBankAccount(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBankRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *BankAccountServiceTestSuite) TestUpdateBankAccount_Success() {
	ctx := context.Background()
	requestingUserID := uuid.NewString()
	account := suite.activeBankAccount()
	newName := "First National, Main Branch"

	suite.mockBankRepo.On("FindBankAccountByID", ctx, account.BankAccountID).Return(account, nil).Once()
	suite.mockBankRepo.On("UpdateBankAccount", ctx, mock.AnythingOfType("domain.BankAccount")).Return(nil).Once()

	updated, err := suite.service.UpdateBankAccount(ctx, account.BankAccountID, dto.UpdateBankAccountRequest{BankName: &newName}, requestingUserID)

	suite.Require().NoError(err)
	suite.Equal(newName, updated.BankName)
	suite.Equal(requestingUserID, updated.LastUpdatedBy)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func (suite *BankAccountServiceTestSuite) TestDeactivateThenReactivate() {
	ctx := context.Background()
	account := suite.activeBankAccount()

	suite.mockBankRepo.On("FindBankAccountByID", ctx, account.BankAccountID).Return(account, nil).Twice()
	suite.mockBankRepo.On("UpdateBankAccountStatus", ctx, mock.AnythingOfType("domain.BankAccount"), domain.BankAccountActive).Return(nil).Once()
	suite.mockBankRepo.On("UpdateBankAccountStatus", ctx, mock.AnythingOfType("domain.BankAccount"), domain.BankAccountInactive).Return(nil).Once()

	deactivated, err := suite.service.DeactivateBankAccount(ctx, account.BankAccountID, uuid.NewString())
	suite.Require().NoError(err)
	suite.Equal(domain.BankAccountInactive, deactivated.Status)

	reactivated, err := suite.service.ReactivateBankAccount(ctx, account.BankAccountID, uuid.NewString())
	suite.Require().NoError(err)
	suite.Equal(domain.BankAccountActive, reactivated.Status)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func (suite *BankAccountServiceTestSuite) TestCloseBankAccount_IsTerminal() {
	ctx := context.Background()
	account := suite.activeBankAccount()

	suite.mockBankRepo.On("FindBankAccountByID", ctx, account.BankAccountID).Return(account, nil).Twice()
	suite.mockBankRepo.On("UpdateBankAccountStatus", ctx, mock.AnythingOfType("domain.BankAccount"), domain.BankAccountActive).Return(nil).Once()

	closed, err := suite.service.CloseBankAccount(ctx, account.BankAccountID, uuid.NewString())
	suite.Require().NoError(err)
	suite.Equal(domain.BankAccountClosed, closed.Status)

	// A second close, and any other transition, is rejected outright.
	reopened, err := suite.service.ReactivateBankAccount(ctx, account.BankAccountID, uuid.NewString())
	suite.Require().Error(err)
	suite.Nil(reopened)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func (suite *BankAccountServiceTestSuite) TestListBankAccounts_ActiveOnly() {
	ctx := context.Background()
	accounts := []domain.BankAccount{*suite.activeBankAccount()}

	suite.mockBankRepo.On("ListBankAccounts", ctx, true).Return(accounts, nil).Once()

	resp, err := suite.service.ListBankAccounts(ctx, dto.ListBankAccountsParams{ActiveOnly: true})

	suite.Require().NoError(err)
	suite.Len(resp.BankAccounts, 1)
	suite.mockBankRepo.AssertExpectations(suite.T())
}

func TestBankAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankAccountServiceTestSuite))
}
