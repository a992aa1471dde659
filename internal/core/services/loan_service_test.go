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

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansDueBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindLoanByNaturalKey(ctx context.Context, borrowerID string, startDate time.Time, principal decimal.Decimal) (*domain.Loan, error) {
	args := m.Called(ctx, borrowerID, startDate, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, loan, expectedUpdatedAt)
	return args.Error(0)
}

func (m *MockLoanRepository) DeleteLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveRepayment(ctx context.Context, repayment domain.Repayment, asOf time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, repayment, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLoanRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLoanRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite ---
type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockBorrowerRepo *MockBorrowerRepository
	clock            fixedClock
	service          portssvc.LoanSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockBorrowerRepo = new(MockBorrowerRepository)
	suite.clock = newFixedClock(2025, time.June, 15)
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockBorrowerRepo, suite.clock)
}

func (suite *LoanServiceTestSuite) borrowerExists(borrowerID string) {
	suite.mockBorrowerRepo.On("FindBorrowerByID", mock.Anything, borrowerID).
		Return(&domain.Borrower{BorrowerID: borrowerID}, nil).Once()
}

// --- Test Cases ---

func (suite *LoanServiceTestSuite) TestCreateLoan_DefaultsRateAndProduct() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	borrowerID := uuid.NewString()
	suite.borrowerExists(borrowerID)

	req := dto.CreateLoanRequest{
		BorrowerID: borrowerID,
		Currency:   domain.CurrencyGHS,
		Principal:  decimal.NewFromInt(1000),
		StartDate:  time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC),
		TermMonths: 3,
	}

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.BorrowerID == borrowerID &&
			l.InterestRate.Equal(decimal.RequireFromString("10.00")) &&
			l.ProductName == "Standard" &&
			l.OriginalTermMonths == 3 &&
			l.Status == domain.LoanStatusActive
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.True(loan.InterestRate.Equal(decimal.RequireFromString("10.00")))
	// Start date is truncated to midnight UTC.
	suite.Equal(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), loan.StartDate)
	suite.Equal(creatorUserID, loan.CreatedBy)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_USDDefaultRate() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	suite.borrowerExists(borrowerID)

	req := dto.CreateLoanRequest{
		BorrowerID: borrowerID,
		Currency:   domain.CurrencyUSD,
		Principal:  decimal.NewFromInt(500),
		StartDate:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		TermMonths: 6,
	}

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.InterestRate.Equal(decimal.RequireFromString("9.00"))
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(loan.InterestRate.Equal(decimal.RequireFromString("9.00")))
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// A zero-principal loan is valid: zero interest, nothing to pay, settled
// from day one.
func (suite *LoanServiceTestSuite) TestCreateLoan_ZeroPrincipalImmediatelyPaid() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	suite.borrowerExists(borrowerID)

	req := dto.CreateLoanRequest{
		BorrowerID: borrowerID,
		Currency:   domain.CurrencyGHS,
		Principal:  decimal.Zero,
		StartDate:  time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		TermMonths: 3,
	}

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.Principal.IsZero() && l.Status == domain.LoanStatusPaid
	})).Return(nil).Once()

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.LoanStatusPaid, loan.Status)
	suite.True(loan.TotalToPay().IsZero())
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_NegativePrincipal() {
	ctx := context.Background()
	req := dto.CreateLoanRequest{
		BorrowerID: uuid.NewString(),
		Currency:   domain.CurrencyGHS,
		Principal:  decimal.NewFromInt(-100),
		StartDate:  suite.clock.Now(),
		TermMonths: 3,
	}

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestCreateLoan_UnknownBorrower() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	suite.mockBorrowerRepo.On("FindBorrowerByID", mock.Anything, borrowerID).
		Return(nil, apperrors.ErrNotFound).Once()

	req := dto.CreateLoanRequest{
		BorrowerID: borrowerID,
		Currency:   domain.CurrencyGHS,
		Principal:  decimal.NewFromInt(1000),
		StartDate:  suite.clock.Now(),
		TermMonths: 3,
	}

	loan, err := suite.service.CreateLoan(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(loan)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LoanServiceTestSuite) existingLoan() *domain.Loan {
	loan := &domain.Loan{
		LoanID:             uuid.NewString(),
		BorrowerID:         uuid.NewString(),
		ProductName:        "Standard",
		Currency:           domain.CurrencyGHS,
		Principal:          decimal.NewFromInt(1000),
		InterestRate:       decimal.RequireFromString("10.00"),
		StartDate:          time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
		TermMonths:         3,
		OriginalTermMonths: 3,
		Status:             domain.LoanStatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC),
			LastUpdatedAt: time.Date(2025, time.May, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	return loan
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_TopupAndRollover() {
	ctx := context.Background()
	updaterUserID := uuid.NewString()
	loan := suite.existingLoan()
	extra := decimal.NewFromInt(500)
	yes := true

	readAt := loan.LastUpdatedAt
	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	// The repository gets the timestamp the loan was read at, guarding the
	// write against a concurrent update.
	suite.mockLoanRepo.On("UpdateLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.Principal.Equal(decimal.NewFromInt(1500)) &&
			l.IsRollover && l.RolloverCount == 1 && l.TermMonths == 6
	}), readAt).Return(nil).Once()

	updated, changes, err := suite.service.UpdateLoan(ctx, loan.LoanID, dto.UpdateLoanRequest{
		AdditionalPrincipal: &extra,
		IsRollover:          &yes,
	}, updaterUserID)

	suite.Require().NoError(err)
	suite.True(updated.Principal.Equal(decimal.NewFromInt(1500)))
	suite.Equal(6, updated.EffectiveTermMonths())
	suite.Equal(updaterUserID, updated.LastUpdatedBy)

	fields := make(map[string]bool)
	for _, c := range changes {
		fields[c.Field] = true
	}
	suite.True(fields["principal"])
	suite.True(fields["rollover_count"])
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_NoChangesSkipsWrite() {
	ctx := context.Background()
	loan := suite.existingLoan()

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	updated, changes, err := suite.service.UpdateLoan(ctx, loan.LoanID, dto.UpdateLoanRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.NotNil(updated)
	suite.Empty(changes)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "UpdateLoan", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestUpdateLoan_NegativeTopup() {
	ctx := context.Background()
	negative := decimal.NewFromInt(-50)

	_, _, err := suite.service.UpdateLoan(ctx, uuid.NewString(), dto.UpdateLoanRequest{
		AdditionalPrincipal: &negative,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// settleAgainstLedger replays a ledger through the loan the way the repository
// does inside its transaction: attach the committed repayments, then derive
// the status.
func settleAgainstLedger(loan domain.Loan, ledger []domain.Repayment, asOf time.Time) *domain.Loan {
	loan.Repayments = append([]domain.Repayment(nil), ledger...)
	loan.UpdateStatus(asOf)
	return &loan
}

func (suite *LoanServiceTestSuite) TestAddRepayment_SettlesLoan() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	loan := suite.existingLoan()
	now := suite.clock.Now()
	// 1000 principal at 10.00 over 3 months: 1300 settles it.
	req := dto.CreateRepaymentRequest{
		Amount: decimal.NewFromInt(1300),
		Method: domain.MethodCash,
	}

	suite.mockLoanRepo.On("SaveRepayment", ctx,
		mock.MatchedBy(func(r domain.Repayment) bool {
			return r.LoanID == loan.LoanID &&
				r.Amount.Equal(decimal.NewFromInt(1300)) &&
				r.CreatedBy == creatorUserID
		}),
		now,
	).Return(settleAgainstLedger(*loan, []domain.Repayment{
		{LoanID: loan.LoanID, Amount: decimal.NewFromInt(1300), Method: domain.MethodCash},
	}, now), nil).Once()

	repayment, updated, err := suite.service.AddRepayment(ctx, loan.LoanID, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.LoanStatusPaid, updated.Status)
	// Repayment date defaults to today at midnight.
	suite.Equal(domain.DateOf(suite.clock.Now()), repayment.Date)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// Two writers each paying half of the 1300.00 total must end with the loan
// settled: the status comes from the ledger as committed under the loan row
// lock, not from either writer's pre-write snapshot.
func (suite *LoanServiceTestSuite) TestAddRepayment_ConcurrentHalvesSettleLoan() {
	ctx := context.Background()
	loan := suite.existingLoan()
	now := suite.clock.Now()
	half := decimal.RequireFromString("650.00")
	req := dto.CreateRepaymentRequest{Amount: half, Method: domain.MethodCash}

	firstLedger := []domain.Repayment{
		{LoanID: loan.LoanID, Amount: half, Method: domain.MethodCash},
	}
	secondLedger := append(firstLedger,
		domain.Repayment{LoanID: loan.LoanID, Amount: half, Method: domain.MethodCash})

	// The first writer's transaction sees one committed repayment, the
	// second sees both.
	suite.mockLoanRepo.On("SaveRepayment", ctx, mock.AnythingOfType("domain.Repayment"), now).
		Return(settleAgainstLedger(*loan, firstLedger, now), nil).Once()
	suite.mockLoanRepo.On("SaveRepayment", ctx, mock.AnythingOfType("domain.Repayment"), now).
		Return(settleAgainstLedger(*loan, secondLedger, now), nil).Once()

	_, first, err := suite.service.AddRepayment(ctx, loan.LoanID, req, uuid.NewString())
	suite.Require().NoError(err)
	suite.Equal(domain.LoanStatusActive, first.Status)

	_, second, err := suite.service.AddRepayment(ctx, loan.LoanID, req, uuid.NewString())
	suite.Require().NoError(err)
	suite.Equal(domain.LoanStatusPaid, second.Status)
	suite.True(second.TotalPaid().Equal(decimal.RequireFromString("1300.00")))
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

// A top-up that raced a concurrent writer surfaces the repository's conflict
// instead of silently overwriting it.
func (suite *LoanServiceTestSuite) TestUpdateLoan_ConcurrentWriteConflict() {
	ctx := context.Background()
	loan := suite.existingLoan()
	extra := decimal.NewFromInt(200)

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()
	suite.mockLoanRepo.On("UpdateLoan", ctx, mock.Anything, loan.LastUpdatedAt).
		Return(apperrors.ErrConflict).Once()

	_, _, err := suite.service.UpdateLoan(ctx, loan.LoanID, dto.UpdateLoanRequest{
		AdditionalPrincipal: &extra,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestAddRepayment_RejectsNonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateRepaymentRequest{
		Amount: decimal.Zero,
		Method: domain.MethodCash,
	}

	_, _, err := suite.service.AddRepayment(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveRepayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LoanServiceTestSuite) TestAddRepayment_RejectsUnknownMethod() {
	ctx := context.Background()
	req := dto.CreateRepaymentRequest{
		Amount: decimal.NewFromInt(100),
		Method: domain.RepaymentMethod("barter"),
	}

	_, _, err := suite.service.AddRepayment(ctx, uuid.NewString(), req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestListRepayments_RunningBalance() {
	ctx := context.Background()
	loan := suite.existingLoan()
	loan.Repayments = []domain.Repayment{
		{RepaymentID: uuid.NewString(), LoanID: loan.LoanID, Date: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(400), Method: domain.MethodCash},
		{RepaymentID: uuid.NewString(), LoanID: loan.LoanID, Date: time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(300), Method: domain.MethodMobileMoney},
	}

	suite.mockLoanRepo.On("FindLoanByID", ctx, loan.LoanID).Return(loan, nil).Once()

	balances, err := suite.service.ListRepayments(ctx, loan.LoanID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	// Date ascending: the May repayment first.
	suite.True(balances[0].Amount.Equal(decimal.NewFromInt(300)))
	suite.True(balances[0].RunningBalance.Equal(decimal.NewFromInt(700)))
	suite.True(balances[1].RunningBalance.Equal(decimal.NewFromInt(300)))
}

// --- Run Suite ---
func TestLoanService(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
