package pricing

import "github.com/shopspring/decimal"

type PurchaseLine struct {
	Quantity int64
	UnitCost decimal.Decimal
}

type PurchaseInput struct {
	Lines        []PurchaseLine
	Discount     decimal.Decimal
	DiscountType DiscountType
	TaxEnabled   bool
	TaxRate      decimal.Decimal
	Shipping     decimal.Decimal
	Paid         decimal.Decimal
}

type PurchaseTotals struct {
	LineTotals     []decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Shipping       decimal.Decimal
	GrandTotal     decimal.Decimal
	Paid           decimal.Decimal
	Balance        decimal.Decimal
	Status         Status
}

func PurchaseLineTotal(line PurchaseLine) decimal.Decimal {
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}
	return nonNegative(line.UnitCost).Mul(decimal.NewFromInt(qty))
}

// PurchaseInvoice derives purchase totals. Tax is charged on the
// discounted subtotal and shipping is added untaxed. Unlike sales, a
// purchase invoice can be partially paid.
func PurchaseInvoice(in PurchaseInput) PurchaseTotals {
	if len(in.Lines) == 0 {
		return PurchaseTotals{Status: StatusPending}
	}

	out := PurchaseTotals{LineTotals: make([]decimal.Decimal, len(in.Lines))}
	for i, line := range in.Lines {
		out.LineTotals[i] = PurchaseLineTotal(line)
		out.Subtotal = out.Subtotal.Add(out.LineTotals[i])
	}

	out.DiscountAmount = discountAmount(out.Subtotal, in.Discount, in.DiscountType)
	taxable := out.Subtotal.Sub(out.DiscountAmount)
	if in.TaxEnabled {
		out.TaxAmount = percentOf(taxable, clampRate(in.TaxRate))
	}
	out.Shipping = nonNegative(in.Shipping)
	out.GrandTotal = taxable.Add(out.TaxAmount).Add(out.Shipping)

	out.Paid = nonNegative(in.Paid)
	out.Balance = out.GrandTotal.Sub(out.Paid)
	out.Status = PurchaseStatus(out.Paid, out.GrandTotal)

	return out
}

// PurchaseStatus is paid once paid covers total, partial for any
// positive payment below it, pending otherwise.
func PurchaseStatus(paid, total decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}
