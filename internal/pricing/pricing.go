// Package pricing computes invoice and return totals. Every function is
// pure: the same input always produces the same totals.
package pricing

import "github.com/shopspring/decimal"

type DiscountType string

const (
	DiscountAmount  DiscountType = "amount"
	DiscountPercent DiscountType = "percent"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Valid reports whether t is a known discount type. The empty value is
// accepted and treated as a flat amount.
func (t DiscountType) Valid() bool {
	switch t {
	case "", DiscountAmount, DiscountPercent:
		return true
	default:
		return false
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func clampRate(rate decimal.Decimal) decimal.Decimal {
	rate = nonNegative(rate)
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}

func percentOf(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

func discountAmount(subtotal, value decimal.Decimal, typ DiscountType) decimal.Decimal {
	value = nonNegative(value)
	if typ == DiscountPercent {
		return percentOf(subtotal, clampRate(value))
	}
	return value
}

// roundHalfUp rounds to the nearest integer with halves going toward
// positive infinity: 2.5 -> 3, -2.5 -> -2.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}
