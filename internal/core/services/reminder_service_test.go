package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
	"github.com/comloan/loan_mgmt_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPaymentDue(ctx context.Context, reminder portssvc.PaymentReminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

// --- Test Suite ---
type ReminderServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockBorrowerRepo *MockBorrowerRepository
	mockNotifier     *MockNotifier
	clock            fixedClock
	service          portssvc.ReminderSvc
}

func (suite *ReminderServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockBorrowerRepo = new(MockBorrowerRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.clock = newFixedClock(2025, time.June, 15)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewReminderService(suite.mockLoanRepo, suite.mockBorrowerRepo, suite.mockNotifier, suite.clock, logger)
}

func (suite *ReminderServiceTestSuite) dueLoan(status domain.LoanStatus) domain.Loan {
	return domain.Loan{
		LoanID:             uuid.NewString(),
		BorrowerID:         uuid.NewString(),
		Currency:           domain.CurrencyGHS,
		Principal:          decimal.NewFromInt(1000),
		InterestRate:       decimal.RequireFromString("10.00"),
		StartDate:          time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
		TermMonths:         3,
		OriginalTermMonths: 3,
		Status:             status,
	}
}

// --- Test Cases ---

func (suite *ReminderServiceTestSuite) TestSendDueReminders_NotifiesUnpaidLoans() {
	ctx := context.Background()
	active := suite.dueLoan(domain.LoanStatusActive)
	paid := suite.dueLoan(domain.LoanStatusPaid)
	borrower := &domain.Borrower{
		BorrowerID:  active.BorrowerID,
		FirstName:   "Ama",
		LastName:    "Mensah",
		PhoneNumber: "+233241234567",
	}
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	suite.mockLoanRepo.On("ListLoansDueBetween", ctx, today, today.AddDate(0, 0, 7)).
		Return([]domain.Loan{active, paid}, nil).Once()
	suite.mockBorrowerRepo.On("FindBorrowerByID", ctx, active.BorrowerID).
		Return(borrower, nil).Once()
	suite.mockNotifier.On("NotifyPaymentDue", ctx, mock.MatchedBy(func(r portssvc.PaymentReminder) bool {
		return r.LoanID == active.LoanID &&
			r.BorrowerName == "Ama Mensah" &&
			r.PhoneNumber == "+233241234567" &&
			r.AmountDue == "1300.00"
	})).Return(nil).Once()

	sent, err := suite.service.SendDueReminders(ctx, 7)

	suite.Require().NoError(err)
	suite.Equal(1, sent)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestSendDueReminders_BorrowerLookupFailureSkipsLoan() {
	ctx := context.Background()
	loan := suite.dueLoan(domain.LoanStatusActive)

	suite.mockLoanRepo.On("ListLoansDueBetween", ctx, mock.Anything, mock.Anything).
		Return([]domain.Loan{loan}, nil).Once()
	suite.mockBorrowerRepo.On("FindBorrowerByID", ctx, loan.BorrowerID).
		Return(nil, apperrors.ErrNotFound).Once()

	sent, err := suite.service.SendDueReminders(ctx, 7)

	suite.Require().NoError(err)
	suite.Equal(0, sent)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyPaymentDue", mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestSendDueReminders_ListFailure() {
	ctx := context.Background()

	suite.mockLoanRepo.On("ListLoansDueBetween", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	sent, err := suite.service.SendDueReminders(ctx, 7)

	suite.Require().Error(err)
	suite.Equal(0, sent)
}

// --- Run Suite ---
func TestReminderService(t *testing.T) {
	suite.Run(t, new(ReminderServiceTestSuite))
}
