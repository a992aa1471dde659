package utils

import (
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with the given number of decimal
// places, e.g. 12.3456 at precision 2 renders "12.35".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).StringFixed(int32(precision))
}
