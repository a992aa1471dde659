package services_test

import (
	"bytes"
	"context"
	"strings"
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

const importHeader = "first_name,last_name,email,borrower_phone,product_name,currency,principal,interest_rate,start_date,term_months,is_rollover,rollover_count,description\n"

// --- Test Suite ---
type LoanImportServiceTestSuite struct {
	suite.Suite
	mockLoanRepo     *MockLoanRepository
	mockBorrowerRepo *MockBorrowerRepository
	clock            fixedClock
	service          portssvc.LoanImportSvc
}

func (suite *LoanImportServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockBorrowerRepo = new(MockBorrowerRepository)
	suite.clock = newFixedClock(2025, time.June, 15)
	borrowerSvc := services.NewBorrowerService(suite.mockBorrowerRepo, suite.clock)
	suite.service = services.NewLoanImportService(suite.mockLoanRepo, borrowerSvc, suite.clock)
}

// --- Test Cases ---

func (suite *LoanImportServiceTestSuite) TestImport_CreatesLoan() {
	ctx := context.Background()
	borrower := &domain.Borrower{BorrowerID: uuid.NewString(), FirstName: "Ama", LastName: "Mensah", PhoneNumber: "+233241234567"}
	csv := importHeader + "Ama,Mensah,,0241234567,,GHS,\"1,000\",,2025-01-15,3,,,\n"

	suite.mockBorrowerRepo.On("FindBorrowerByPhone", mock.Anything, "+233241234567").
		Return(borrower, nil).Once()
	suite.mockLoanRepo.On("FindLoanByNaturalKey", mock.Anything, borrower.BorrowerID,
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(1000)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("SaveLoan", mock.Anything, mock.MatchedBy(func(l domain.Loan) bool {
		return l.BorrowerID == borrower.BorrowerID &&
			l.Principal.Equal(decimal.NewFromInt(1000)) &&
			l.InterestRate.Equal(decimal.RequireFromString("10.00")) &&
			l.ProductName == "Standard" &&
			l.TermMonths == 3
	})).Return(nil).Once()

	report, err := suite.service.ImportLoansCSV(ctx, strings.NewReader(csv), uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(1, report.Created)
	suite.Equal(0, report.Updated)
	suite.Empty(report.Errors)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanImportServiceTestSuite) TestImport_SlashDateFormats() {
	ctx := context.Background()
	borrower := &domain.Borrower{BorrowerID: uuid.NewString(), PhoneNumber: "+233241234567"}
	// Day-first format: 15 January.
	csv := importHeader + "Ama,Mensah,,0241234567,,GHS,500,,15/01/2025,3,,,\n"

	suite.mockBorrowerRepo.On("FindBorrowerByPhone", mock.Anything, "+233241234567").
		Return(borrower, nil).Once()
	suite.mockLoanRepo.On("FindLoanByNaturalKey", mock.Anything, borrower.BorrowerID,
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(500)).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("SaveLoan", mock.Anything, mock.AnythingOfType("domain.Loan")).Return(nil).Once()

	report, err := suite.service.ImportLoansCSV(ctx, strings.NewReader(csv), uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(1, report.Created)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanImportServiceTestSuite) TestImport_UpdatesExistingLoan() {
	ctx := context.Background()
	borrower := &domain.Borrower{BorrowerID: uuid.NewString(), PhoneNumber: "+233241234567"}
	existing := &domain.Loan{
		LoanID:             uuid.NewString(),
		BorrowerID:         borrower.BorrowerID,
		ProductName:        "Standard",
		Currency:           domain.CurrencyGHS,
		Principal:          decimal.NewFromInt(1000),
		InterestRate:       decimal.RequireFromString("10.00"),
		StartDate:          time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		TermMonths:         3,
		OriginalTermMonths: 3,
	}
	// Same natural key, rolled over with a longer term.
	csv := importHeader + "Ama,Mensah,,0241234567,,GHS,1000,,2025-01-15,6,1,1,\n"

	suite.mockBorrowerRepo.On("FindBorrowerByPhone", mock.Anything, "+233241234567").
		Return(borrower, nil).Once()
	suite.mockLoanRepo.On("FindLoanByNaturalKey", mock.Anything, borrower.BorrowerID,
		existing.StartDate, decimal.NewFromInt(1000)).
		Return(existing, nil).Once()
	suite.mockLoanRepo.On("UpdateLoan", mock.Anything, mock.MatchedBy(func(l domain.Loan) bool {
		return l.LoanID == existing.LoanID && l.TermMonths == 6 && l.IsRollover && l.RolloverCount == 1
	}), existing.LastUpdatedAt).Return(nil).Once()

	report, err := suite.service.ImportLoansCSV(ctx, strings.NewReader(csv), uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, report.Created)
	suite.Equal(1, report.Updated)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanImportServiceTestSuite) TestImport_BadRowsReportedGoodRowsProceed() {
	ctx := context.Background()
	borrower := &domain.Borrower{BorrowerID: uuid.NewString(), PhoneNumber: "+233241234567"}
	csv := importHeader +
		"Ama,Mensah,,0241234567,,GHS,abc,,2025-01-15,3,,,\n" +
		"Ama,Mensah,,0241234567,,GHS,500,,2025-01-20,3,,,\n" +
		"Kofi,Owusu,,,,GHS,700,,not-a-date,3,,,\n"

	suite.mockBorrowerRepo.On("FindBorrowerByPhone", mock.Anything, "+233241234567").
		Return(borrower, nil)
	suite.mockBorrowerRepo.On("FindBorrowersByName", mock.Anything, "Kofi", "Owusu", "").
		Return([]domain.Borrower{{BorrowerID: uuid.NewString()}}, nil).Once()
	suite.mockLoanRepo.On("FindLoanByNaturalKey", mock.Anything, borrower.BorrowerID,
		mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockLoanRepo.On("SaveLoan", mock.Anything, mock.AnythingOfType("domain.Loan")).Return(nil).Once()

	report, err := suite.service.ImportLoansCSV(ctx, strings.NewReader(csv), uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(1, report.Created)
	suite.Require().Len(report.Errors, 2)
	suite.Equal(2, report.Errors[0].Row)
	suite.Equal(4, report.Errors[1].Row)
}

func (suite *LoanImportServiceTestSuite) TestImport_UnresolvedBorrowerReported() {
	ctx := context.Background()
	csv := importHeader + "Esi,Asante,,,,GHS,500,,2025-01-15,3,,,\n"

	suite.mockBorrowerRepo.On("FindBorrowersByName", mock.Anything, "Esi", "Asante", "").
		Return([]domain.Borrower{}, nil).Once()

	report, err := suite.service.ImportLoansCSV(ctx, strings.NewReader(csv), uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(0, report.Created)
	suite.Require().Len(report.Errors, 1)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan", mock.Anything, mock.Anything)
}

func (suite *LoanImportServiceTestSuite) TestExport_IncludesComputedFields() {
	ctx := context.Background()
	loan := domain.Loan{
		LoanID:             uuid.NewString(),
		BorrowerID:         uuid.NewString(),
		ProductName:        "Standard",
		Currency:           domain.CurrencyGHS,
		Principal:          decimal.NewFromInt(1000),
		InterestRate:       decimal.RequireFromString("10.00"),
		StartDate:          time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		TermMonths:         3,
		OriginalTermMonths: 3,
		Status:             domain.LoanStatusActive,
	}

	suite.mockLoanRepo.On("ListLoans", ctx).Return([]domain.Loan{loan}, nil).Once()

	var buf bytes.Buffer
	err := suite.service.ExportLoansCSV(ctx, &buf)

	suite.Require().NoError(err)
	out := buf.String()
	suite.Contains(out, "total_to_pay")
	suite.Contains(out, "1300.00")
	suite.Contains(out, "2025-04-15")
	suite.Contains(out, loan.LoanID)
}

func (suite *LoanImportServiceTestSuite) TestTemplate_HeaderOnly() {
	var buf bytes.Buffer
	err := suite.service.WriteLoanTemplateCSV(&buf)

	suite.Require().NoError(err)
	suite.Equal(importHeader, buf.String())
}

// --- Run Suite ---
func TestLoanImportService(t *testing.T) {
	suite.Run(t, new(LoanImportServiceTestSuite))
}
