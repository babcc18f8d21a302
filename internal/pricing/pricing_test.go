package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func scenarioA(paid string) SaleInput {
	return SaleInput{
		Lines:        []SaleLine{{Quantity: 3, UnitPrice: d("100")}},
		Discount:     d("10"),
		DiscountType: DiscountPercent,
		Paid:         d(paid),
	}
}

func TestSaleInvoicePartialPaymentStaysPending(t *testing.T) {
	got := SaleInvoice(scenarioA("250"))

	assertDecimal(t, "300", got.Subtotal, "subtotal")
	assertDecimal(t, "30", got.DiscountAmount, "discount")
	assertDecimal(t, "270", got.GrandTotal, "grand total")
	assertDecimal(t, "20", got.Balance, "balance")
	assert.Equal(t, StatusPending, got.Status)
}

func TestSaleInvoiceFullPaymentIsPaid(t *testing.T) {
	got := SaleInvoice(scenarioA("270"))

	assertDecimal(t, "0", got.Balance, "balance")
	assert.Equal(t, StatusPaid, got.Status)
}

func TestSaleInvoiceOverpaymentKeepsNegativeBalance(t *testing.T) {
	got := SaleInvoice(scenarioA("300"))

	assertDecimal(t, "-30", got.Balance, "balance")
	assert.Equal(t, StatusPaid, got.Status)
}

func TestSaleInvoiceFlatDiscountIgnoresCharges(t *testing.T) {
	got := SaleInvoice(SaleInput{
		Lines:        []SaleLine{{Quantity: 2, UnitPrice: d("50"), Discount: d("10")}},
		Discount:     d("5"),
		DiscountType: DiscountAmount,
		Charges:      ExtraCharges{Packing: d("3"), Delivery: d("7"), Bag: d("-4")},
		TaxEnabled:   true,
		TaxRate:      d("10"),
	})

	assertDecimal(t, "90", got.Subtotal, "subtotal")
	assertDecimal(t, "10", got.ExtraTotal, "extra total")
	assertDecimal(t, "5", got.DiscountAmount, "discount")
	assertDecimal(t, "95", got.AfterDiscount, "after discount")
	assertDecimal(t, "9.5", got.TaxAmount, "tax")
	assertDecimal(t, "104.5", got.BeforeRound, "before round")
	assertDecimal(t, "0", got.RoundOffAmount, "round off")
	assertDecimal(t, "104.5", got.GrandTotal, "grand total")
}

func TestSaleInvoiceRoundOff(t *testing.T) {
	cases := []struct {
		price     string
		wantRound string
		wantTotal string
	}{
		{"104.5", "0.5", "105"},
		{"104.49", "-0.49", "104"},
		{"104.51", "0.49", "105"},
		{"104", "0", "104"},
	}
	for _, tc := range cases {
		got := SaleInvoice(SaleInput{
			Lines:    []SaleLine{{Quantity: 1, UnitPrice: d(tc.price)}},
			RoundOff: true,
		})
		assertDecimal(t, tc.wantRound, got.RoundOffAmount, "round off "+tc.price)
		assertDecimal(t, tc.wantTotal, got.GrandTotal, "grand total "+tc.price)
	}
}

func TestSaleInvoiceRoundOffDisabled(t *testing.T) {
	got := SaleInvoice(SaleInput{
		Lines:      []SaleLine{{Quantity: 1, UnitPrice: d("99.99")}},
		TaxEnabled: true,
		TaxRate:    d("5"),
	})

	assert.True(t, got.RoundOffAmount.IsZero())
	assert.True(t, got.GrandTotal.Equal(got.BeforeRound))
}

func TestSaleInvoiceGrandTotalIdentity(t *testing.T) {
	inputs := []SaleInput{
		scenarioA("0"),
		{
			Lines:        []SaleLine{{Quantity: 7, UnitPrice: d("13.37"), Discount: d("2")}, {Quantity: 0, UnitPrice: d("4.2")}},
			Discount:     d("12.5"),
			DiscountType: DiscountPercent,
			Charges:      ExtraCharges{Service: d("4.75")},
			TaxEnabled:   true,
			TaxRate:      d("17"),
			RoundOff:     true,
			Paid:         d("10"),
		},
	}
	for _, in := range inputs {
		got := SaleInvoice(in)
		want := got.Subtotal.Sub(got.DiscountAmount).Add(got.ExtraTotal).Add(got.TaxAmount).Add(got.RoundOffAmount)
		assert.True(t, want.Equal(got.GrandTotal))
		assert.True(t, got.Balance.Equal(got.GrandTotal.Sub(got.Paid)))
	}
}

func TestSaleInvoiceIsIdempotent(t *testing.T) {
	in := SaleInput{
		Lines:        []SaleLine{{Quantity: 3, UnitPrice: d("19.99"), Discount: d("1")}},
		Discount:     d("3"),
		DiscountType: DiscountPercent,
		Charges:      ExtraCharges{Bag: d("0.5")},
		TaxEnabled:   true,
		TaxRate:      d("5"),
		RoundOff:     true,
		Paid:         d("20"),
	}
	first := SaleInvoice(in)
	second := SaleInvoice(in)

	assert.Equal(t, first.GrandTotal.String(), second.GrandTotal.String())
	assert.Equal(t, first.Balance.String(), second.Balance.String())
	assert.Equal(t, first.Status, second.Status)
}

func TestSaleLineClamping(t *testing.T) {
	assertDecimal(t, "25", SaleLineTotal(SaleLine{Quantity: 0, UnitPrice: d("25")}), "quantity floors at 1")
	assertDecimal(t, "0", SaleLineTotal(SaleLine{Quantity: 1, UnitPrice: d("10"), Discount: d("15")}), "line clamps at 0")
	assertDecimal(t, "0", SaleLineTotal(SaleLine{Quantity: 2, UnitPrice: d("-3")}), "negative price")
}

func TestSaleInvoiceEmptyLinesIsZero(t *testing.T) {
	got := SaleInvoice(SaleInput{Charges: ExtraCharges{Packing: d("10")}, Paid: d("5")})

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.GrandTotal.IsZero())
	assert.True(t, got.Balance.IsZero())
}

func TestPurchaseInvoiceTaxAndShipping(t *testing.T) {
	base := PurchaseInput{
		Lines:      []PurchaseLine{{Quantity: 10, UnitCost: d("100")}},
		TaxEnabled: true,
		TaxRate:    d("5"),
		Shipping:   d("50"),
	}

	full := base
	full.Paid = d("1100")
	got := PurchaseInvoice(full)
	assertDecimal(t, "1000", got.Subtotal, "subtotal")
	assertDecimal(t, "50", got.TaxAmount, "tax")
	assertDecimal(t, "1100", got.GrandTotal, "grand total")
	assert.Equal(t, StatusPaid, got.Status)

	partial := base
	partial.Paid = d("500")
	got = PurchaseInvoice(partial)
	assertDecimal(t, "600", got.Balance, "balance")
	assert.Equal(t, StatusPartial, got.Status)

	got = PurchaseInvoice(base)
	assert.Equal(t, StatusPending, got.Status)
}

func TestPurchaseInvoiceDiscountBeforeTax(t *testing.T) {
	got := PurchaseInvoice(PurchaseInput{
		Lines:        []PurchaseLine{{Quantity: 4, UnitCost: d("50")}},
		Discount:     d("10"),
		DiscountType: DiscountPercent,
		TaxEnabled:   true,
		TaxRate:      d("10"),
	})

	assertDecimal(t, "20", got.DiscountAmount, "discount")
	assertDecimal(t, "18", got.TaxAmount, "tax")
	assertDecimal(t, "198", got.GrandTotal, "grand total")
}

func TestReturnTotals(t *testing.T) {
	got := Return(ReturnInput{
		Lines:              []ReturnLine{{Quantity: 5, UnitPrice: d("100")}},
		DiscountPercentage: d("10"),
		TaxPercentage:      d("5"),
	})

	assertDecimal(t, "500", got.ItemsSubtotal, "items subtotal")
	assertDecimal(t, "50", got.DiscountAmount, "discount")
	assertDecimal(t, "22.5", got.TaxAmount, "tax")
	assertDecimal(t, "472.5", got.RefundTotal, "refund total")
}

func TestReturnDeductionAndRoundOff(t *testing.T) {
	got := Return(ReturnInput{
		Lines:                 []ReturnLine{{Quantity: 1, UnitPrice: d("100")}, {Quantity: 0, UnitPrice: d("80")}},
		ExtraChargesDeduction: d("10"),
		RoundOff:              d("-0.5"),
	})
	assertDecimal(t, "100", got.ItemsSubtotal, "items subtotal")
	assertDecimal(t, "89.5", got.RefundTotal, "refund total")

	got = Return(ReturnInput{
		Lines:                 []ReturnLine{{Quantity: 1, UnitPrice: d("10")}},
		ExtraChargesDeduction: d("25"),
	})
	assert.True(t, got.RefundTotal.IsZero())
}

func TestReturnLineQuantityFloorsAtZero(t *testing.T) {
	assert.True(t, ReturnLineTotal(ReturnLine{Quantity: -2, UnitPrice: d("10")}).IsZero())
}

func TestDiscountTypeValid(t *testing.T) {
	assert.True(t, DiscountType("").Valid())
	assert.True(t, DiscountPercent.Valid())
	assert.False(t, DiscountType("bogus").Valid())
}
