// Package money converts prices between major currency units (what callers
// pass around, e.g. 150.00 dollars) and minor units (what the database
// stores, e.g. 15000 cents).
//
// The conversion happens exactly once at the repository boundary, in both
// directions, so read filters and writes always agree.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of decimal places in a major unit (cents).
const MinorUnitExponent = 2

// ErrOutOfRange is returned by ToMinor when the amount does not fit in int64 minor units.
var ErrOutOfRange = errors.New("money: amount out of int64 minor-unit range")

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ToMinor converts a major-unit amount into minor units, rounding half away
// from zero to the nearest minor unit. Amounts outside the int64 range
// return ErrOutOfRange.
//
//	ToMinor(decimal.RequireFromString("150"))    == 15000
//	ToMinor(decimal.RequireFromString("99.995")) == 10000
func ToMinor(amount decimal.Decimal) (int64, error) {
	minor := amount.Shift(MinorUnitExponent).Round(0)
	if minor.LessThan(minMinor) || minor.GreaterThan(maxMinor) {
		return 0, ErrOutOfRange
	}
	return minor.IntPart(), nil
}

// IsWholeMinor reports whether amount has no precision below one minor unit,
// i.e. ToMinor converts it without rounding.
func IsWholeMinor(amount decimal.Decimal) bool {
	return amount.Round(MinorUnitExponent).Equal(amount)
}

// FromMinor converts a stored minor-unit amount back into major units.
//
//	FromMinor(15000).String() == "150"
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}
