package pricing

import "github.com/shopspring/decimal"

type ReturnLine struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

type ReturnInput struct {
	Lines                 []ReturnLine
	DiscountPercentage    decimal.Decimal
	TaxPercentage         decimal.Decimal
	ExtraChargesDeduction decimal.Decimal
	// RoundOff is a signed manual adjustment.
	RoundOff decimal.Decimal
}

type ReturnTotals struct {
	LineTotals            []decimal.Decimal
	ItemsSubtotal         decimal.Decimal
	DiscountAmount        decimal.Decimal
	TaxAmount             decimal.Decimal
	ExtraChargesDeduction decimal.Decimal
	RoundOff              decimal.Decimal
	RefundTotal           decimal.Decimal
}

// ReturnLineTotal prices a returned line. Quantity floors at 0, which
// means the line is not being returned.
func ReturnLineTotal(line ReturnLine) decimal.Decimal {
	qty := line.Quantity
	if qty < 0 {
		qty = 0
	}
	return nonNegative(line.UnitPrice).Mul(decimal.NewFromInt(qty))
}

// Return derives refund totals for sale and purchase returns. The refund
// never goes below zero.
func Return(in ReturnInput) ReturnTotals {
	if len(in.Lines) == 0 {
		return ReturnTotals{}
	}

	out := ReturnTotals{LineTotals: make([]decimal.Decimal, len(in.Lines))}
	for i, line := range in.Lines {
		out.LineTotals[i] = ReturnLineTotal(line)
		out.ItemsSubtotal = out.ItemsSubtotal.Add(out.LineTotals[i])
	}

	out.DiscountAmount = percentOf(out.ItemsSubtotal, clampRate(in.DiscountPercentage))
	afterDiscount := out.ItemsSubtotal.Sub(out.DiscountAmount)
	out.TaxAmount = percentOf(afterDiscount, clampRate(in.TaxPercentage))
	out.ExtraChargesDeduction = nonNegative(in.ExtraChargesDeduction)
	out.RoundOff = in.RoundOff

	out.RefundTotal = nonNegative(afterDiscount.
		Add(out.TaxAmount).
		Sub(out.ExtraChargesDeduction).
		Add(out.RoundOff))

	return out
}
