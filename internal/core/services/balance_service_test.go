package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/ledger_app/internal/apperrors"
	"github.com/openbooks/ledger_app/internal/core/domain"
	portssvc "github.com/openbooks/ledger_app/internal/core/ports/services"
	"github.com/openbooks/ledger_app/internal/core/services"
)

// MockBalanceRepository is a mock type for the AccountBalanceRepositoryFacade interface
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) FindBalance(ctx context.Context, accountID string, year, month int) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceRepository) ListBalancesForPeriod(ctx context.Context, year, month int) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceRepository) UpsertBalances(ctx context.Context, balances []domain.AccountBalance) error {
	args := m.Called(ctx, balances)
	return args.Error(0)
}

// --- Test Suite Setup ---

type BalanceServiceTestSuite struct {
	suite.Suite
	mockBalanceRepo *MockBalanceRepository
	mockJournalRepo *MockJournalEntryRepository
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockFiscalPeriodRepository
	service         portssvc.BalanceSvcFacade

	cashAccountID    string
	revenueAccountID string
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockBalanceRepo = new(MockBalanceRepository)
	suite.mockJournalRepo = new(MockJournalEntryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockFiscalPeriodRepository)
	suite.service = services.NewBalanceService(suite.mockBalanceRepo, suite.mockJournalRepo, suite.mockAccountRepo, suite.mockPeriodRepo)

	suite.cashAccountID = "acc-cash"
	suite.revenueAccountID = "acc-revenue"
}

func (suite *BalanceServiceTestSuite) accounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccountID:    {AccountID: suite.cashAccountID, Code: "1010", Name: "Cash", AccountType: domain.Asset, IsActive: true},
		suite.revenueAccountID: {AccountID: suite.revenueAccountID, Code: "4000", Name: "Sales", AccountType: domain.Revenue, IsActive: true},
	}
}

// --- Test Cases ---

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_FirstPeriod() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccountID, Amount: amount, TransactionType: domain.Debit},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccountID, Amount: amount, TransactionType: domain.Credit},
	}

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return(lines, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return([]domain.AccountBalance{}, nil).Once()
	suite.mockPeriodRepo.On("HasClosedPeriodBefore", ctx, 2025, 7).Return(false, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil).Once()

	var saved []domain.AccountBalance
	suite.mockBalanceRepo.On("UpsertBalances", ctx, mock.AnythingOfType("[]domain.AccountBalance")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.AccountBalance)
		}).Return(nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2025, 7, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(2, summary.AccountsProcessed)
	suite.True(summary.IsBalanced)
	suite.True(summary.TotalDebits.Equal(amount))
	suite.True(summary.TotalCredits.Equal(amount))

	suite.Require().Len(saved, 2)
	byAccount := map[string]domain.AccountBalance{}
	for _, b := range saved {
		byAccount[b.AccountID] = b
	}
	cash := byAccount[suite.cashAccountID]
	suite.True(cash.OpeningBalance.IsZero())
	suite.True(cash.ClosingBalance.Equal(amount)) // debit-normal: opening + debits - credits
	revenue := byAccount[suite.revenueAccountID]
	suite.True(revenue.ClosingBalance.Equal(amount)) // credit-normal: opening + credits - debits

	suite.mockBalanceRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_CarriesOpeningForward() {
	ctx := context.Background()
	amount := decimal.NewFromInt(200)
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccountID, Amount: amount, TransactionType: domain.Debit},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccountID, Amount: amount, TransactionType: domain.Credit},
	}
	prior := []domain.AccountBalance{
		{AccountID: suite.cashAccountID, Year: 2025, Month: 6, ClosingBalance: decimal.NewFromInt(1000)},
	}

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return(lines, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return(prior, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil).Once()

	var saved []domain.AccountBalance
	suite.mockBalanceRepo.On("UpsertBalances", ctx, mock.AnythingOfType("[]domain.AccountBalance")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.AccountBalance)
		}).Return(nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2025, 7, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(summary.IsBalanced)

	byAccount := map[string]domain.AccountBalance{}
	for _, b := range saved {
		byAccount[b.AccountID] = b
	}
	cash := byAccount[suite.cashAccountID]
	suite.True(cash.OpeningBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(cash.ClosingBalance.Equal(decimal.NewFromInt(1200)))
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_RollsForwardIdleAccounts() {
	ctx := context.Background()
	// No activity this month, but the cash account carried a balance in June.
	prior := []domain.AccountBalance{
		{AccountID: suite.cashAccountID, Year: 2025, Month: 6, ClosingBalance: decimal.NewFromInt(750)},
	}

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return([]domain.JournalLine{}, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return(prior, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.cashAccountID}).Return(suite.accounts(), nil).Once()

	var saved []domain.AccountBalance
	suite.mockBalanceRepo.On("UpsertBalances", ctx, mock.AnythingOfType("[]domain.AccountBalance")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.AccountBalance)
		}).Return(nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2025, 7, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(1, summary.AccountsProcessed)
	suite.True(summary.IsBalanced)

	suite.Require().Len(saved, 1)
	suite.Equal(suite.cashAccountID, saved[0].AccountID)
	suite.True(saved[0].OpeningBalance.Equal(decimal.NewFromInt(750)))
	suite.True(saved[0].DebitTotal.IsZero())
	suite.True(saved[0].CreditTotal.IsZero())
	suite.True(saved[0].ClosingBalance.Equal(decimal.NewFromInt(750)))
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_NothingToProcess() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return([]domain.JournalLine{}, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return([]domain.AccountBalance{}, nil).Once()
	suite.mockPeriodRepo.On("HasClosedPeriodBefore", ctx, 2025, 7).Return(false, nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2025, 7, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, summary.AccountsProcessed)
	suite.True(summary.IsBalanced)
	suite.mockBalanceRepo.AssertNotCalled(suite.T(), "UpsertBalances", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_ReportsUnbalancedPeriod() {
	ctx := context.Background()
	// A voided counter-line never rebalanced: debits exceed credits.
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccountID, Amount: decimal.NewFromInt(300), TransactionType: domain.Debit},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
	}

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return(lines, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return([]domain.AccountBalance{}, nil).Once()
	suite.mockPeriodRepo.On("HasClosedPeriodBefore", ctx, 2025, 7).Return(false, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil).Once()
	suite.mockBalanceRepo.On("UpsertBalances", ctx, mock.AnythingOfType("[]domain.AccountBalance")).Return(nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2025, 7, uuid.NewString())

	suite.Require().NoError(err)
	suite.False(summary.IsBalanced)
	suite.True(summary.TotalDebits.Equal(decimal.NewFromInt(300)))
	suite.True(summary.TotalCredits.Equal(decimal.NewFromInt(100)))
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_JanuaryLooksAtPriorDecember() {
	ctx := context.Background()

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2026, 1).Return([]domain.JournalLine{}, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 12).Return([]domain.AccountBalance{}, nil).Once()
	suite.mockPeriodRepo.On("HasClosedPeriodBefore", ctx, 2026, 1).Return(false, nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2026, 1, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, summary.AccountsProcessed)
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_RerunOverwritesIdenticalRows() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccountID, Amount: amount, TransactionType: domain.Debit},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccountID, Amount: amount, TransactionType: domain.Credit},
	}

	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return(lines, nil).Twice()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return([]domain.AccountBalance{}, nil).Twice()
	suite.mockPeriodRepo.On("HasClosedPeriodBefore", ctx, 2025, 7).Return(false, nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.accounts(), nil).Twice()

	var runs [][]domain.AccountBalance
	suite.mockBalanceRepo.On("UpsertBalances", ctx, mock.AnythingOfType("[]domain.AccountBalance")).
		Run(func(args mock.Arguments) {
			runs = append(runs, args.Get(1).([]domain.AccountBalance))
		}).Return(nil).Twice()

	userID := uuid.NewString()
	first, err := suite.service.CalculateForPeriod(ctx, 2025, 7, userID)
	suite.Require().NoError(err)
	second, err := suite.service.CalculateForPeriod(ctx, 2025, 7, userID)
	suite.Require().NoError(err)

	suite.Equal(first.AccountsProcessed, second.AccountsProcessed)
	suite.True(first.TotalDebits.Equal(second.TotalDebits))
	suite.True(first.TotalCredits.Equal(second.TotalCredits))
	suite.Equal(first.IsBalanced, second.IsBalanced)

	// Both runs upsert the same rows keyed on (account, year, month); nothing
	// accumulates across re-runs, only the audit stamps move.
	suite.Require().Len(runs, 2)
	suite.Require().Len(runs[0], 2)
	suite.Require().Len(runs[1], 2)
	for i := range runs[0] {
		a, b := runs[0][i], runs[1][i]
		suite.Equal(a.AccountID, b.AccountID)
		suite.Equal(a.Year, b.Year)
		suite.Equal(a.Month, b.Month)
		suite.True(a.OpeningBalance.Equal(b.OpeningBalance))
		suite.True(a.DebitTotal.Equal(b.DebitTotal))
		suite.True(a.CreditTotal.Equal(b.CreditTotal))
		suite.True(a.ClosingBalance.Equal(b.ClosingBalance))
	}
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCalculateForPeriod_PriorPeriodNeverCalculated() {
	ctx := context.Background()
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), AccountID: suite.cashAccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Debit},
		{LineID: uuid.NewString(), AccountID: suite.revenueAccountID, Amount: decimal.NewFromInt(100), TransactionType: domain.Credit},
	}

	// June closed without its balances ever being calculated, so July has
	// nothing to chain its opening balances onto.
	suite.mockJournalRepo.On("FindPostedLinesInPeriod", ctx, 2025, 7).Return(lines, nil).Once()
	suite.mockBalanceRepo.On("ListBalancesForPeriod", ctx, 2025, 6).Return([]domain.AccountBalance{}, nil).Once()
	suite.mockPeriodRepo.On("HasClosedPeriodBefore", ctx, 2025, 7).Return(true, nil).Once()

	summary, err := suite.service.CalculateForPeriod(ctx, 2025, 7, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBalanceRepo.AssertNotCalled(suite.T(), "UpsertBalances", mock.Anything, mock.Anything)
}

func (suite *BalanceServiceTestSuite) TestGetBalance_NotFound() {
	ctx := context.Background()

	suite.mockBalanceRepo.On("FindBalance", ctx, suite.cashAccountID, 2025, 7).Return(nil, apperrors.ErrNotFound).Once()

	balance, err := suite.service.GetBalance(ctx, suite.cashAccountID, 2025, 7)

	suite.Require().Error(err)
	suite.Nil(balance)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
