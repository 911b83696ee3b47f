package valueobjects

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in integer minor currency units (cents).
// Ledger arithmetic stays in int64 so sums are exact; decimal is used only at
// the string boundary.
type Money struct {
	minorUnits int64
}

// minorFactor shifts a decimal major-unit amount into cents.
var minorFactor = decimal.NewFromInt(100)

// NewMoney creates Money from an amount already expressed in minor units.
func NewMoney(minorUnits int64) Money {
	return Money{minorUnits: minorUnits}
}

// ParseMoney parses a decimal string in major units ("12.34") into Money.
// Fractional minor units are truncated toward zero, so "10.999" becomes 1099
// cents. The empty string and non-numeric input are rejected.
func ParseMoney(s string) (Money, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Money{}, fmt.Errorf("amount is empty")
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	cents := d.Mul(minorFactor).Truncate(0)
	if !cents.IsInteger() {
		return Money{}, fmt.Errorf("invalid amount %q", s)
	}
	return Money{minorUnits: cents.IntPart()}, nil
}

// ParsePositiveMoney parses like ParseMoney and additionally requires the
// result to be strictly positive after truncation.
func ParsePositiveMoney(s string) (Money, error) {
	m, err := ParseMoney(s)
	if err != nil {
		return Money{}, err
	}
	if m.minorUnits <= 0 {
		return Money{}, fmt.Errorf("amount must be positive, got %q", s)
	}
	return m, nil
}

// MinorUnits returns the amount in cents.
func (m Money) MinorUnits() int64 {
	return m.minorUnits
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.minorUnits > 0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{minorUnits: m.minorUnits + other.minorUnits}
}

// String formats the amount in major units with two decimal places.
func (m Money) String() string {
	return decimal.NewFromInt(m.minorUnits).Div(minorFactor).StringFixed(2)
}
