package repositories

import (
	"context"
	"time"

	"github.com/comloan/loan_mgmt_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanReader defines read operations for loan data.
type LoanReader interface {
	// FindLoanByID retrieves a loan with its repayments loaded, date ascending.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves all loans with repayments loaded.
	ListLoans(ctx context.Context) ([]domain.Loan, error)

	// ListLoansByBorrower retrieves all loans for one borrower.
	ListLoansByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error)

	// ListLoansDueBetween retrieves unpaid loans whose due date falls in [from, to].
	ListLoansDueBetween(ctx context.Context, from, to time.Time) ([]domain.Loan, error)

	// FindLoanByNaturalKey retrieves a loan by its import identity
	// (borrower, start date, principal). Used by bulk import upserts.
	FindLoanByNaturalKey(ctx context.Context, borrowerID string, startDate time.Time, principal decimal.Decimal) (*domain.Loan, error)
}

// LoanWriter defines write operations for loan data.
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoan persists mutations to an existing loan (principal, term,
	// rollover state, derived status, description). expectedUpdatedAt is the
	// last_updated_at the caller read the loan at; the write fails with
	// ErrConflict when another writer got there first.
	UpdateLoan(ctx context.Context, loan domain.Loan, expectedUpdatedAt time.Time) error

	// DeleteLoan removes a loan and cascades to its repayments.
	DeleteLoan(ctx context.Context, loanID string) error

	// SaveRepayment appends a repayment and, in the same transaction under a
	// loan row lock, re-derives the loan status from the committed ledger as
	// of the given time. It returns the loan as persisted.
	SaveRepayment(ctx context.Context, repayment domain.Repayment, asOf time.Time) (*domain.Loan, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}

// LoanRepositoryWithTx extends LoanRepositoryFacade with transaction capabilities.
type LoanRepositoryWithTx interface {
	LoanRepositoryFacade
	TransactionManager
}
