package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUSDToGHSRate seeds the USD->GHS rate when none has been recorded yet.
var DefaultUSDToGHSRate = decimal.RequireFromString("15.0000")

// ExchangeRate is a currency conversion rate, stored with 4 decimal places.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrency   Currency        `json:"fromCurrency"`
	ToCurrency     Currency        `json:"toCurrency"`
	Rate           decimal.Decimal `json:"rate"`
	LastUpdated    time.Time       `json:"lastUpdated"`
	AuditFields
}

// Convert applies the rate to an amount, rounding to 2 decimal places.
func (r *ExchangeRate) Convert(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Rate).Round(2)
}
