package pricing

import "github.com/shopspring/decimal"

type SaleLine struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// ExtraCharges are the flat add-ons a sale invoice may carry.
type ExtraCharges struct {
	Packing  decimal.Decimal `json:"packing"`
	Service  decimal.Decimal `json:"service"`
	Bag      decimal.Decimal `json:"bag"`
	Delivery decimal.Decimal `json:"delivery"`
}

// Normalize clamps every charge at zero.
func (c ExtraCharges) Normalize() ExtraCharges {
	return ExtraCharges{
		Packing:  nonNegative(c.Packing),
		Service:  nonNegative(c.Service),
		Bag:      nonNegative(c.Bag),
		Delivery: nonNegative(c.Delivery),
	}
}

func (c ExtraCharges) Total() decimal.Decimal {
	n := c.Normalize()
	return n.Packing.Add(n.Service).Add(n.Bag).Add(n.Delivery)
}

type SaleInput struct {
	Lines        []SaleLine
	Discount     decimal.Decimal
	DiscountType DiscountType
	Charges      ExtraCharges
	TaxEnabled   bool
	TaxRate      decimal.Decimal
	RoundOff     bool
	Paid         decimal.Decimal
}

type SaleTotals struct {
	LineTotals     []decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	ExtraTotal     decimal.Decimal
	AfterDiscount  decimal.Decimal
	TaxAmount      decimal.Decimal
	BeforeRound    decimal.Decimal
	RoundOffAmount decimal.Decimal
	GrandTotal     decimal.Decimal
	Paid           decimal.Decimal
	Balance        decimal.Decimal
	Status         Status
}

// SaleLineTotal is quantity x price minus the line discount, never below
// zero. Quantity floors at 1.
func SaleLineTotal(line SaleLine) decimal.Decimal {
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}
	gross := nonNegative(line.UnitPrice).Mul(decimal.NewFromInt(qty))
	return nonNegative(gross.Sub(nonNegative(line.Discount)))
}

// SaleInvoice derives sale invoice totals. The header discount applies to
// the item subtotal only; extra charges are added after it. Status is
// binary here: a sale invoice is either paid or pending.
func SaleInvoice(in SaleInput) SaleTotals {
	if len(in.Lines) == 0 {
		return SaleTotals{Status: StatusPending}
	}

	out := SaleTotals{LineTotals: make([]decimal.Decimal, len(in.Lines))}
	for i, line := range in.Lines {
		out.LineTotals[i] = SaleLineTotal(line)
		out.Subtotal = out.Subtotal.Add(out.LineTotals[i])
	}

	out.ExtraTotal = in.Charges.Total()
	out.DiscountAmount = discountAmount(out.Subtotal, in.Discount, in.DiscountType)
	out.AfterDiscount = out.Subtotal.Sub(out.DiscountAmount).Add(out.ExtraTotal)
	if in.TaxEnabled {
		out.TaxAmount = percentOf(out.AfterDiscount, clampRate(in.TaxRate))
	}
	out.BeforeRound = out.AfterDiscount.Add(out.TaxAmount)
	if in.RoundOff {
		out.RoundOffAmount = roundHalfUp(out.BeforeRound).Sub(out.BeforeRound)
	}
	out.GrandTotal = out.BeforeRound.Add(out.RoundOffAmount)

	out.Paid = nonNegative(in.Paid)
	out.Balance = out.GrandTotal.Sub(out.Paid)
	out.Status = StatusPending
	if !out.Balance.IsPositive() {
		out.Status = StatusPaid
	}

	return out
}
