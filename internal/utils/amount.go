package utils

import (
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of decimal places every amount is stored with.
const AmountPrecision = 2

// RoundAmount rounds half away from zero to AmountPrecision places.
// Example: 12.345 returns 12.35
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(AmountPrecision)
}

// FormatAmount renders an amount with exactly AmountPrecision places.
// Example: 1000 returns "1000.00"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPrecision)
}
