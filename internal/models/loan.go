package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a loan row. Derived values (due date, totals, remaining
// amounts) are computed in the domain, not stored; status is persisted so it
// can be filtered on.
type Loan struct {
	LoanID             string          `db:"loan_id"`
	BorrowerID         string          `db:"borrower_id"` // FK -> Borrower.borrower_id
	ProductName        string          `db:"product_name"`
	Currency           string          `db:"currency"`
	Principal          decimal.Decimal `db:"principal"`
	InterestRate       decimal.Decimal `db:"interest_rate"` // Flat monthly rate, percent
	StartDate          time.Time       `db:"start_date"`
	TermMonths         int             `db:"term_months"`
	OriginalTermMonths int             `db:"original_term_months"`
	RolloverCount      int             `db:"rollover_count"`
	IsRollover         bool            `db:"is_rollover"`
	Status             string          `db:"status"`
	Description        string          `db:"description"`
	AuditFields
}

// Repayment represents one repayment row of a loan's ledger.
type Repayment struct {
	RepaymentID string          `db:"repayment_id"`
	LoanID      string          `db:"loan_id"` // FK -> Loan.loan_id
	Date        time.Time       `db:"payment_date"`
	Amount      decimal.Decimal `db:"amount"`
	Method      string          `db:"method"`
	AuditFields
}
