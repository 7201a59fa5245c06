package domain

import "github.com/shopspring/decimal"

// AmountEpsilon is the tolerance applied when comparing monetary totals.
// Balance checks treat two amounts within this distance as equal.
var AmountEpsilon = decimal.NewFromFloat(0.01)

// AmountsEqual reports whether two amounts are equal within AmountEpsilon.
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AmountEpsilon)
}

// IsZeroAmount reports whether an amount is zero within AmountEpsilon.
func IsZeroAmount(a decimal.Decimal) bool {
	return a.Abs().LessThanOrEqual(AmountEpsilon)
}
