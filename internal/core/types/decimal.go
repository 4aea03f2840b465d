// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary or decimal value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Scales used across all billing math.
//
// Intermediate line computations keep four fractional digits so that
// multiplications and divisions do not compound rounding error; only the
// final values presented or stored in a currency are reduced to two.
const (
	// LineScale is the scale for intermediate line math (matches NUMERIC(19,4)).
	LineScale int32 = 4

	// CurrencyScale is the scale for currency presentation and storage.
	CurrencyScale int32 = 2
)

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// One returns Money value of 1 (default line quantity).
func One() Money {
	return decimal.NewFromInt(1)
}

// Hundred is used for percentage math (rate/100, value/100).
func Hundred() Money {
	return decimal.NewFromInt(100)
}

// RoundLine rounds to line scale (4 digits).
// decimal.Round rounds half away from zero, which for the non-negative
// amounts produced by the calculator is exactly half-up.
func RoundLine(m Money) Money {
	return m.Round(LineScale)
}

// RoundCurrency rounds to currency scale (2 digits), half-up.
// This is the single final-rounding policy for all stored/presented amounts.
func RoundCurrency(m Money) Money {
	return m.Round(CurrencyScale)
}

// IsNegative reports whether m is strictly below zero.
func IsNegative(m Money) bool {
	return m.Sign() < 0
}
