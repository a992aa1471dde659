package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentMethod is the channel a repayment arrived through.
type RepaymentMethod string

const (
	MethodCash         RepaymentMethod = "cash"
	MethodBankTransfer RepaymentMethod = "bank_transfer"
	MethodMobileMoney  RepaymentMethod = "mobile_money"
)

// IsValid reports whether m is a supported repayment method.
func (m RepaymentMethod) IsValid() bool {
	return m == MethodCash || m == MethodBankTransfer || m == MethodMobileMoney
}

// Repayment is a single payment against a loan. Repayments are append-only:
// there is no edit or delete path once recorded.
type Repayment struct {
	RepaymentID string          `json:"repaymentID"` // Primary Key (UUID)
	LoanID      string          `json:"loanID"`      // FK -> loans.loan_id (Not Null)
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"` // Positive
	Method      RepaymentMethod `json:"method"`
	AuditFields
}

// RepaymentBalance is one line of the informational running-balance view:
// the repayment plus the balance left after subtracting it from the opening
// principal. It does not affect totalToPay, which is term-based.
type RepaymentBalance struct {
	Repayment
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// RunningBalances walks the repayments date-ascending, subtracting each from
// the loan's opening principal.
func RunningBalances(openingPrincipal decimal.Decimal, repayments []Repayment) []RepaymentBalance {
	ordered := make([]Repayment, len(repayments))
	copy(ordered, repayments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	balances := make([]RepaymentBalance, len(ordered))
	balance := openingPrincipal
	for i, r := range ordered {
		balance = balance.Sub(r.Amount)
		balances[i] = RepaymentBalance{Repayment: r, RunningBalance: balance}
	}
	return balances
}
