package util

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentOf returns part / whole × 100. ok is false when whole is zero.
func PercentOf(part, whole decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if whole.IsZero() {
		return decimal.Zero, false
	}
	return part.Div(whole).Mul(hundred), true
}

// RequiredRecoveryPct is the gain needed to get back to break-even after a
// loss of lossPct percent. A total loss can never be recovered, so ok is
// false at or beyond 100.
func RequiredRecoveryPct(lossPct decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if !lossPct.IsPositive() {
		return decimal.Zero, true
	}
	if lossPct.GreaterThanOrEqual(hundred) {
		return decimal.Zero, false
	}
	return lossPct.Div(hundred.Sub(lossPct)).Mul(hundred), true
}
