package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/apperrors"
	"github.com/comloan/loan_mgmt_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock InvestorProfitSvc ---
type MockProfitCalculator struct {
	mock.Mock
}

func (m *MockProfitCalculator) CalculateQuarterlyProfit(ctx context.Context, investorID string) (decimal.Decimal, error) {
	args := m.Called(ctx, investorID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ReminderSvc ---
type MockReminderSvc struct {
	mock.Mock
}

func (m *MockReminderSvc) SendDueReminders(ctx context.Context, withinDays int) (int, error) {
	args := m.Called(ctx, withinDays)
	return args.Int(0), args.Error(1)
}

// --- Test Suite ---
type ProfitRunnerTestSuite struct {
	suite.Suite
	mockInvestorRepo *MockInvestorRepository
	mockProfit       *MockProfitCalculator
	mockReminder     *MockReminderSvc
	runner           *services.ProfitRunner
}

func (suite *ProfitRunnerTestSuite) SetupTest() {
	suite.mockInvestorRepo = new(MockInvestorRepository)
	suite.mockProfit = new(MockProfitCalculator)
	suite.mockReminder = new(MockReminderSvc)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.runner = services.NewProfitRunner(
		suite.mockInvestorRepo, suite.mockProfit, suite.mockReminder,
		logger, time.Hour, 7,
	)
}

// --- Test Cases ---

func (suite *ProfitRunnerTestSuite) TestRunOnce_SweepsAllInvestors() {
	ctx := context.Background()
	ids := []string{"inv-1", "inv-2", "inv-3"}

	suite.mockInvestorRepo.On("ListInvestorIDs", ctx).Return(ids, nil).Once()
	suite.mockProfit.On("CalculateQuarterlyProfit", ctx, "inv-1").
		Return(decimal.NewFromInt(800), nil).Once()
	suite.mockProfit.On("CalculateQuarterlyProfit", ctx, "inv-2").
		Return(decimal.Zero, nil).Once()
	// A concurrent accrual already advanced this one's checkpoint.
	suite.mockProfit.On("CalculateQuarterlyProfit", ctx, "inv-3").
		Return(decimal.Zero, apperrors.ErrConflict).Once()
	suite.mockReminder.On("SendDueReminders", ctx, 7).Return(1, nil).Once()

	suite.runner.RunOnce(ctx)

	suite.mockProfit.AssertExpectations(suite.T())
	suite.mockReminder.AssertExpectations(suite.T())
}

func (suite *ProfitRunnerTestSuite) TestRunOnce_OneFailureDoesNotBlockOthers() {
	ctx := context.Background()
	ids := []string{"inv-1", "inv-2"}

	suite.mockInvestorRepo.On("ListInvestorIDs", ctx).Return(ids, nil).Once()
	suite.mockProfit.On("CalculateQuarterlyProfit", ctx, "inv-1").
		Return(decimal.Zero, apperrors.ErrNotFound).Once()
	suite.mockProfit.On("CalculateQuarterlyProfit", ctx, "inv-2").
		Return(decimal.NewFromInt(400), nil).Once()
	suite.mockReminder.On("SendDueReminders", ctx, 7).Return(0, nil).Once()

	suite.runner.RunOnce(ctx)

	suite.mockProfit.AssertExpectations(suite.T())
}

func (suite *ProfitRunnerTestSuite) TestRunOnce_ListFailureAbortsSweep() {
	ctx := context.Background()

	suite.mockInvestorRepo.On("ListInvestorIDs", ctx).Return(nil, apperrors.ErrNotFound).Once()

	suite.runner.RunOnce(ctx)

	suite.mockProfit.AssertNotCalled(suite.T(), "CalculateQuarterlyProfit", mock.Anything, mock.Anything)
	suite.mockReminder.AssertNotCalled(suite.T(), "SendDueReminders", mock.Anything, mock.Anything)
}

func (suite *ProfitRunnerTestSuite) TestStart_StopsOnContextCancel() {
	ctx, cancel := context.WithCancel(context.Background())

	suite.mockInvestorRepo.On("ListInvestorIDs", mock.Anything).Return([]string{}, nil)
	suite.mockReminder.On("SendDueReminders", mock.Anything, 7).Return(0, nil)

	done := make(chan struct{})
	go func() {
		suite.runner.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		suite.FailNow("runner did not stop after context cancellation")
	}
}

// --- Run Suite ---
func TestProfitRunner(t *testing.T) {
	suite.Run(t, new(ProfitRunnerTestSuite))
}
