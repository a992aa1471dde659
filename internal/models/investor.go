package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investor represents an investor row. FundsAvailable is kept consistent with
// the transaction ledger by the repository; LastProfitCalculation is the
// accrual idempotence checkpoint.
type Investor struct {
	InvestorID             string          `db:"investor_id"`
	FirstName              string          `db:"first_name"`
	LastName               string          `db:"last_name"`
	PhoneNumber            string          `db:"phone_number"`
	Email                  string          `db:"email"`
	Region                 string          `db:"region"`
	Currency               string          `db:"currency"`
	InvestmentPeriodMonths int             `db:"investment_period_months"`
	FundsAvailable         decimal.Decimal `db:"funds_available"`
	ProfitEarned           decimal.Decimal `db:"profit_earned"`
	ProfitPaid             bool            `db:"profit_paid"`
	ProfitPaidDate         *time.Time      `db:"profit_paid_date"`        // Nullable
	LastProfitCalculation  *time.Time      `db:"last_profit_calculation"` // Nullable
	AuditFields
}

// InvestorTransaction represents one ledger row of an investor's statement.
type InvestorTransaction struct {
	TransactionID string          `db:"transaction_id"`
	InvestorID    string          `db:"investor_id"` // FK -> Investor.investor_id
	Type          string          `db:"txn_type"`
	Amount        decimal.Decimal `db:"amount"`
	Date          time.Time       `db:"txn_date"`
	CreatedBy     string          `db:"created_by"`
}
