package services

import (
	"context"
	"io"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/comloan/loan_mgmt_app/internal/dto"
)

// LoanReaderSvc defines read operations for loans.
type LoanReaderSvc interface {
	// GetLoanByID retrieves a loan with repayments loaded.
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves all loans.
	ListLoans(ctx context.Context) ([]domain.Loan, error)

	// ListRepayments retrieves a loan's repayments with the informational
	// running balance, date ascending.
	ListRepayments(ctx context.Context, loanID string) ([]domain.RepaymentBalance, error)
}

// LoanWriterSvc defines write operations for loans.
type LoanWriterSvc interface {
	// CreateLoan persists a new loan, defaulting the interest rate by
	// currency and pinning the original term.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, creatorUserID string) (*domain.Loan, error)

	// UpdateLoan applies additional principal, rollover and descriptive
	// changes, recomputes the derived status and returns the audit diff.
	UpdateLoan(ctx context.Context, loanID string, req dto.UpdateLoanRequest, updaterUserID string) (*domain.Loan, domain.ChangeSet, error)

	// DeleteLoan removes a loan and its repayments.
	DeleteLoan(ctx context.Context, loanID string) error

	// AddRepayment appends a repayment and recomputes the loan status, both
	// persisted atomically.
	AddRepayment(ctx context.Context, loanID string, req dto.CreateRepaymentRequest, creatorUserID string) (*domain.Repayment, *domain.Loan, error)
}

// LoanSvcFacade combines all loan-related service interfaces.
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}

// LoanImportSvc handles bulk CSV import/export of loans.
type LoanImportSvc interface {
	// ImportLoansCSV reads loan rows from r and creates or updates loans with
	// partial-success semantics: bad rows are reported, good rows proceed.
	ImportLoansCSV(ctx context.Context, r io.Reader, actorUserID string) (*dto.LoanImportReport, error)

	// ExportLoansCSV writes all loans, including computed fields, to w.
	ExportLoansCSV(ctx context.Context, w io.Writer) error

	// WriteLoanTemplateCSV writes the import header template to w.
	WriteLoanTemplateCSV(w io.Writer) error
}
