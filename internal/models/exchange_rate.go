package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two supported currencies.
// One row per ordered pair; updates overwrite in place.
type ExchangeRate struct {
	ExchangeRateID string          `db:"exchange_rate_id"`
	FromCurrency   string          `db:"from_currency"`
	ToCurrency     string          `db:"to_currency"`
	Rate           decimal.Decimal `db:"rate"` // Stored to 4 decimal places
	LastUpdated    time.Time       `db:"last_updated"`
	AuditFields
}
