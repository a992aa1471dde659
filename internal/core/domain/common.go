package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// Currency is the ISO-ish currency code of a loan or investment.
type Currency string

const (
	CurrencyGHS Currency = "GHS"
	CurrencyUSD Currency = "USD"
)

var (
	defaultRateGHS = decimal.RequireFromString("10.00")
	defaultRateUSD = decimal.RequireFromString("9.00")
)

// IsValid reports whether c is one of the supported currencies.
func (c Currency) IsValid() bool {
	return c == CurrencyGHS || c == CurrencyUSD
}

// DefaultMonthlyRate returns the default monthly interest rate (percent) for
// loans in this currency: GHS 10.00, USD 9.00. Unknown currencies fall back to
// the GHS rate, matching historic behaviour.
func (c Currency) DefaultMonthlyRate() decimal.Decimal {
	if c == CurrencyUSD {
		return defaultRateUSD
	}
	return defaultRateGHS
}

// FieldChange records a single field mutation for the audit trail.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// ChangeSet is the structured diff returned by update operations, consumable
// by an external audit log.
type ChangeSet []FieldChange

// AddMonths adds calendar months to t, clipping the day-of-month to the last
// valid day of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOf truncates t to midnight in its own location, for date-only comparisons.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
