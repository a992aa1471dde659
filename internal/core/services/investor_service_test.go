package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/core/services"
	"github.com/comloan/loan_mgmt_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvestorRepository ---
type MockInvestorRepository struct {
	mock.Mock
}

func (m *MockInvestorRepository) FindInvestorByID(ctx context.Context, investorID string) (*domain.Investor, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Investor), args.Error(1)
}

func (m *MockInvestorRepository) ListInvestors(ctx context.Context) ([]domain.Investor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Investor), args.Error(1)
}

func (m *MockInvestorRepository) ListInvestorIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockInvestorRepository) ListTransactions(ctx context.Context, investorID string) ([]domain.InvestorTransaction, error) {
	args := m.Called(ctx, investorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvestorTransaction), args.Error(1)
}

func (m *MockInvestorRepository) SaveInvestor(ctx context.Context, investor domain.Investor) error {
	args := m.Called(ctx, investor)
	return args.Error(0)
}

func (m *MockInvestorRepository) UpdateInvestor(ctx context.Context, investor domain.Investor) error {
	args := m.Called(ctx, investor)
	return args.Error(0)
}

func (m *MockInvestorRepository) SaveTransactionAndUpdateFunds(ctx context.Context, txn domain.InvestorTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockInvestorRepository) SaveProfitAccrual(ctx context.Context, investor domain.Investor, txn domain.InvestorTransaction, expectedLastCalculation *time.Time) error {
	args := m.Called(ctx, investor, txn, expectedLastCalculation)
	return args.Error(0)
}

func (m *MockInvestorRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInvestorRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvestorRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite ---
type InvestorServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInvestorRepository
	clock    fixedClock
	service  portssvc.InvestorSvcFacade
}

func (suite *InvestorServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInvestorRepository)
	suite.clock = newFixedClock(2025, time.June, 15)
	suite.service = services.NewInvestorService(suite.mockRepo, suite.clock)
}

// fundedInvestor is an investor who deposited 10000 GHS at creation,
// createdDaysAgo days before the suite clock.
func (suite *InvestorServiceTestSuite) fundedInvestor(createdDaysAgo int) *domain.Investor {
	created := suite.clock.Now().AddDate(0, 0, -createdDaysAgo)
	investorID := uuid.NewString()
	return &domain.Investor{
		InvestorID:             investorID,
		FirstName:              "Ama",
		LastName:               "Mensah",
		PhoneNumber:            "+233241234567",
		Currency:               domain.CurrencyGHS,
		InvestmentPeriodMonths: 12,
		FundsAvailable:         decimal.NewFromInt(10000),
		ProfitEarned:           decimal.Zero,
		Transactions: []domain.InvestorTransaction{
			{
				TransactionID: uuid.NewString(),
				InvestorID:    investorID,
				Type:          domain.TxnDeposit,
				Amount:        decimal.NewFromInt(10000),
				Date:          created,
			},
		},
		AuditFields: domain.AuditFields{
			CreatedAt: created,
			CreatedBy: uuid.NewString(),
		},
	}
}

// --- Test Cases ---

func (suite *InvestorServiceTestSuite) TestCreateInvestor_WithInitialDeposit() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateInvestorRequest{
		FirstName:              "Kofi",
		LastName:               "Owusu",
		PhoneNumber:            "0241234567",
		Currency:               domain.CurrencyGHS,
		InvestmentPeriodMonths: 12,
		InitialDeposit:         decimal.NewFromInt(5000),
	}

	suite.mockRepo.On("SaveInvestor", ctx, mock.MatchedBy(func(inv domain.Investor) bool {
		// The row itself starts at zero; the deposit flows through the ledger.
		return inv.FundsAvailable.IsZero() && inv.PhoneNumber == "+233241234567"
	})).Return(nil).Once()
	suite.mockRepo.On("SaveTransactionAndUpdateFunds", ctx, mock.MatchedBy(func(txn domain.InvestorTransaction) bool {
		return txn.Type == domain.TxnDeposit && txn.Amount.Equal(decimal.NewFromInt(5000))
	})).Return(nil).Once()

	investor, err := suite.service.CreateInvestor(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.True(investor.FundsAvailable.Equal(decimal.NewFromInt(5000)))
	suite.True(investor.TotalInvested().Equal(decimal.NewFromInt(5000)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_NoDepositSkipsLedger() {
	ctx := context.Background()
	req := dto.CreateInvestorRequest{
		FirstName:              "Kofi",
		LastName:               "Owusu",
		PhoneNumber:            "0241234567",
		Currency:               domain.CurrencyGHS,
		InvestmentPeriodMonths: 6,
	}

	suite.mockRepo.On("SaveInvestor", ctx, mock.AnythingOfType("domain.Investor")).Return(nil).Once()

	investor, err := suite.service.CreateInvestor(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(investor.FundsAvailable.IsZero())
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveTransactionAndUpdateFunds", mock.Anything, mock.Anything)
}

func (suite *InvestorServiceTestSuite) TestCreateInvestor_NegativeDeposit() {
	ctx := context.Background()
	req := dto.CreateInvestorRequest{
		FirstName:      "Kofi",
		LastName:       "Owusu",
		PhoneNumber:    "0241234567",
		Currency:       domain.CurrencyGHS,
		InitialDeposit: decimal.NewFromInt(-1),
	}

	investor, err := suite.service.CreateInvestor(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(investor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvestorServiceTestSuite) TestRecordTopup_Success() {
	ctx := context.Background()
	investor := suite.fundedInvestor(30)

	suite.mockRepo.On("FindInvestorByID", ctx, investor.InvestorID).Return(investor, nil).Once()
	suite.mockRepo.On("SaveTransactionAndUpdateFunds", ctx, mock.MatchedBy(func(txn domain.InvestorTransaction) bool {
		return txn.Type == domain.TxnTopup && txn.Amount.Equal(decimal.NewFromInt(2000))
	})).Return(nil).Once()

	txn, err := suite.service.RecordTopup(ctx, investor.InvestorID, dto.InvestorTransactionRequest{
		Amount: decimal.NewFromInt(2000),
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.TxnTopup, txn.Type)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvestorServiceTestSuite) TestRecordWithdrawal_Overdraft() {
	ctx := context.Background()
	investor := suite.fundedInvestor(30)

	suite.mockRepo.On("FindInvestorByID", ctx, investor.InvestorID).Return(investor, nil).Once()
	suite.mockRepo.On("SaveTransactionAndUpdateFunds", ctx, mock.AnythingOfType("domain.InvestorTransaction")).
		Return(apperrors.ErrInsufficientFunds).Once()

	txn, err := suite.service.RecordWithdrawal(ctx, investor.InvestorID, dto.InvestorTransactionRequest{
		Amount: decimal.NewFromInt(999999),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *InvestorServiceTestSuite) TestRecordWithdrawal_NonPositiveAmount() {
	ctx := context.Background()

	txn, err := suite.service.RecordWithdrawal(ctx, uuid.NewString(), dto.InvestorTransactionRequest{
		Amount: decimal.Zero,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindInvestorByID", mock.Anything, mock.Anything)
}

func (suite *InvestorServiceTestSuite) TestCalculateQuarterlyProfit_TwoQuarters() {
	ctx := context.Background()
	// 200 days since creation, no checkpoint: two full quarters.
	investor := suite.fundedInvestor(200)

	suite.mockRepo.On("FindInvestorByID", ctx, investor.InvestorID).Return(investor, nil).Once()
	suite.mockRepo.On("SaveProfitAccrual", ctx,
		mock.MatchedBy(func(inv domain.Investor) bool {
			return inv.ProfitEarned.Equal(decimal.NewFromInt(800)) &&
				inv.FundsAvailable.Equal(decimal.NewFromInt(10800)) &&
				!inv.ProfitPaid &&
				inv.LastProfitCalculation != nil
		}),
		mock.MatchedBy(func(txn domain.InvestorTransaction) bool {
			return txn.Type == domain.TxnProfit && txn.Amount.Equal(decimal.NewFromInt(800))
		}),
		(*time.Time)(nil),
	).Return(nil).Once()

	profit, err := suite.service.CalculateQuarterlyProfit(ctx, investor.InvestorID)

	suite.Require().NoError(err)
	suite.True(profit.Equal(decimal.NewFromInt(800)), "got %s", profit)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InvestorServiceTestSuite) TestCalculateQuarterlyProfit_NoFullQuarter() {
	ctx := context.Background()
	investor := suite.fundedInvestor(45)

	suite.mockRepo.On("FindInvestorByID", ctx, investor.InvestorID).Return(investor, nil).Once()

	profit, err := suite.service.CalculateQuarterlyProfit(ctx, investor.InvestorID)

	suite.Require().NoError(err)
	suite.True(profit.IsZero())
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveProfitAccrual", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvestorServiceTestSuite) TestCalculateQuarterlyProfit_CheckpointConflict() {
	ctx := context.Background()
	investor := suite.fundedInvestor(200)

	suite.mockRepo.On("FindInvestorByID", ctx, investor.InvestorID).Return(investor, nil).Once()
	suite.mockRepo.On("SaveProfitAccrual", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Once()

	_, err := suite.service.CalculateQuarterlyProfit(ctx, investor.InvestorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *InvestorServiceTestSuite) TestMarkProfitPaid() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	investor := suite.fundedInvestor(200)
	investor.ProfitEarned = decimal.NewFromInt(800)

	suite.mockRepo.On("FindInvestorByID", ctx, investor.InvestorID).Return(investor, nil).Once()
	suite.mockRepo.On("UpdateInvestor", ctx, mock.MatchedBy(func(inv domain.Investor) bool {
		return inv.ProfitPaid && inv.ProfitPaidDate != nil && inv.LastUpdatedBy == actorUserID
	})).Return(nil).Once()

	updated, err := suite.service.MarkProfitPaid(ctx, investor.InvestorID, actorUserID)

	suite.Require().NoError(err)
	suite.True(updated.ProfitPaid)
	suite.NotNil(updated.ProfitPaidDate)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestInvestorService(t *testing.T) {
	suite.Run(t, new(InvestorServiceTestSuite))
}
