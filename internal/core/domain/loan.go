package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan. It is always derived from the
// repayment position and due date, never set directly by callers.
type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "active"
	LoanStatusPaid    LoanStatus = "paid"
	LoanStatusOverdue LoanStatus = "overdue"
)

var oneHundred = decimal.NewFromInt(100)

// Loan represents a micro-loan issued to a borrower.
//
// Interest is a flat monthly rate applied to the full principal for every month
// of the effective term (simple, not amortizing). A rollover re-applies one
// full original term; there is no historical interest ledger, so totals are
// always recomputed from the current principal.
type Loan struct {
	LoanID             string          `json:"loanID"`     // Primary Key (UUID)
	BorrowerID         string          `json:"borrowerID"` // FK -> borrowers.borrower_id (Not Null)
	ProductName        string          `json:"productName"`
	Currency           Currency        `json:"currency"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interestRate"` // Monthly rate, percent
	StartDate          time.Time       `json:"startDate"`
	TermMonths         int             `json:"termMonths"`
	OriginalTermMonths int             `json:"originalTermMonths"` // Pinned on first save
	RolloverCount      int             `json:"rolloverCount"`
	IsRollover         bool            `json:"isRollover"`
	Status             LoanStatus      `json:"status"`
	Description        string          `json:"description"`
	Repayments         []Repayment     `json:"repayments,omitempty"` // Owned, date ascending
	AuditFields
}

// MonthlyInterestPayment is principal * rate / 100, using the rate as a flat
// monthly rate.
func (l *Loan) MonthlyInterestPayment() decimal.Decimal {
	return l.Principal.Mul(l.InterestRate).Div(oneHundred)
}

// EffectiveTermMonths is the original term plus one full original term per
// rollover.
func (l *Loan) EffectiveTermMonths() int {
	return l.OriginalTermMonths * (1 + l.RolloverCount)
}

// DueDate is the start date plus the effective term in calendar months,
// clipped to month-end when the target month is shorter.
func (l *Loan) DueDate() time.Time {
	return AddMonths(l.StartDate, l.EffectiveTermMonths())
}

// TotalInterest is the monthly interest payment over the full effective term.
func (l *Loan) TotalInterest() decimal.Decimal {
	return l.MonthlyInterestPayment().Mul(decimal.NewFromInt(int64(l.EffectiveTermMonths())))
}

// TotalToPay is principal plus total interest.
func (l *Loan) TotalToPay() decimal.Decimal {
	return l.Principal.Add(l.TotalInterest())
}

// TotalPaid sums all repayments recorded against the loan.
func (l *Loan) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.Repayments {
		total = total.Add(r.Amount)
	}
	return total
}

// RemainingToPay is max(0, totalToPay - totalPaid), or exactly zero once the
// loan is paid.
func (l *Loan) RemainingToPay() decimal.Decimal {
	if l.Status == LoanStatusPaid {
		return decimal.Zero
	}
	remaining := l.TotalToPay().Sub(l.TotalPaid())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// RemainingTermMonths is the number of whole calendar months between asOf and
// the due date, floored at zero.
func (l *Loan) RemainingTermMonths(asOf time.Time) int {
	due := l.DueDate()
	if !DateOf(asOf).Before(DateOf(due)) {
		return 0
	}
	months := (due.Year()-asOf.Year())*12 + int(due.Month()) - int(asOf.Month())
	if months < 0 {
		return 0
	}
	return months
}

// RemainingInterest is the interest still to accrue over the remaining term.
func (l *Loan) RemainingInterest(asOf time.Time) decimal.Decimal {
	if l.Status == LoanStatusPaid {
		return decimal.Zero
	}
	return l.MonthlyInterestPayment().Mul(decimal.NewFromInt(int64(l.RemainingTermMonths(asOf))))
}

// DeriveLoanStatus is the pure status function: paid once totalPaid covers
// totalToPay, overdue past the due date, active otherwise.
func DeriveLoanStatus(totalToPay, totalPaid decimal.Decimal, dueDate, asOf time.Time) LoanStatus {
	switch {
	case totalPaid.GreaterThanOrEqual(totalToPay):
		return LoanStatusPaid
	case DateOf(asOf).After(DateOf(dueDate)):
		return LoanStatusOverdue
	default:
		return LoanStatusActive
	}
}

// UpdateStatus recomputes the derived status as of the given time. It must be
// called after any mutation to principal, term or rollover state, and after
// appending a repayment, before the loan is persisted.
func (l *Loan) UpdateStatus(asOf time.Time) LoanStatus {
	l.Status = DeriveLoanStatus(l.TotalToPay(), l.TotalPaid(), l.DueDate(), asOf)
	return l.Status
}

// ApplyAdditionalPrincipal increases the principal by amount. A zero amount is
// a no-op; negative amounts are rejected by the service layer before this is
// reached, so the method only guards the invariant.
func (l *Loan) ApplyAdditionalPrincipal(amount decimal.Decimal) bool {
	if amount.LessThanOrEqual(decimal.Zero) {
		return false
	}
	l.Principal = l.Principal.Add(amount)
	return true
}

// ApplyRollover extends the loan by one full original term. It is a no-op when
// the loan has already been rolled over.
func (l *Loan) ApplyRollover() bool {
	if l.IsRollover {
		return false
	}
	l.RolloverCount++
	l.IsRollover = true
	return true
}
