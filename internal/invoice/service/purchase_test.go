package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	docnumbermock "github.com/smallbiznis/retailbook/internal/docnumber/mock"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	"github.com/smallbiznis/retailbook/internal/pricing"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseDraft(supplierID, productID, paid string) invoicedomain.PurchaseInvoiceDraft {
	return invoicedomain.PurchaseInvoiceDraft{
		SupplierID: supplierID,
		Items: []invoicedomain.PurchaseInvoiceItemDraft{{
			ProductID: productID,
			Quantity:  10,
			UnitCost:  dec("100"),
		}},
		TaxEnabled: true,
		TaxRate:    dec("5"),
		Shipping:   dec("50"),
		Paid:       dec(paid),
	}
}

func TestCreatePurchaseInvoiceStatuses(t *testing.T) {
	f := setup(t, defaultConfig(), nil)
	ctx := context.Background()
	s := f.supplier(t)
	p := f.product(t, 0)

	paid, err := f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(s.ID.String(), p.ID.String(), "1100"))
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), paid.CreatedAt)
	f.clock.Advance(time.Hour)
	assert.True(t, paid.TaxAmount.Equal(dec("50")))
	assert.True(t, paid.Total.Equal(dec("1100")))
	assert.Equal(t, pricing.StatusPaid, paid.Status)
	assert.Contains(t, paid.InvoiceNumber, "PO-")

	partial, err := f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(s.ID.String(), p.ID.String(), "500"))
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusPartial, partial.Status)
	assert.True(t, partial.Balance.Equal(dec("600")))

	pending, err := f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(s.ID.String(), p.ID.String(), "0"))
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusPending, pending.Status)

	assert.Equal(t, int64(30), f.stock(t, p.ID))

	got, err := f.suppliers.GetByID(ctx, s.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("1700")))

	stored, err := f.invoices.GetPurchaseInvoice(ctx, partial.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.CreatedAt.Equal(f.clock.Now()), stored.CreatedAt.String())
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].UnitCost.Equal(dec("100")))
	assert.True(t, stored.Shipping.Equal(dec("50")))

	stats, err := f.invoices.PurchaseInvoiceStats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.TotalPurchases.Equal(dec("3300")))
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.PartialOrders)
	assert.Equal(t, int64(1), stats.ActiveSuppliers)
}

func TestCreatePurchaseInvoiceRequiresSupplier(t *testing.T) {
	f := setup(t, defaultConfig(), nil)
	ctx := context.Background()
	p := f.product(t, 0)

	_, err := f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft("", p.ID.String(), "0"))
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidSupplier)

	_, err = f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft("1234567890", p.ID.String(), "0"))
	assert.ErrorIs(t, err, invoicedomain.ErrSupplierNotFound)

	draft := purchaseDraft(f.supplier(t).ID.String(), p.ID.String(), "0")
	draft.Shipping = dec("-1")
	_, err = f.invoices.CreatePurchaseInvoice(ctx, draft)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidShipping)

	testutil.AssertCount(t, f.db, "purchase_invoices", 0)
	assert.Equal(t, int64(0), f.stock(t, p.ID))
}

func TestCreatePurchaseInvoiceNumberCollisionRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	numbers := docnumbermock.NewMockGenerator(ctrl)
	numbers.EXPECT().
		Next(gomock.Any(), docnumber.KindPurchaseInvoice).
		Return("PO-20260101-0001", nil).
		Times(2)

	f := setup(t, defaultConfig(), numbers)
	ctx := context.Background()
	s := f.supplier(t)
	p := f.product(t, 0)

	_, err := f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(s.ID.String(), p.ID.String(), "0"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.stock(t, p.ID))

	_, err = f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(s.ID.String(), p.ID.String(), "0"))
	require.ErrorIs(t, err, docnumber.ErrConflict)
	assert.True(t, docnumber.IsRetryable(err))

	assert.Equal(t, int64(10), f.stock(t, p.ID))
	testutil.AssertCount(t, f.db, "purchase_invoices", 1)
	testutil.AssertCount(t, f.db, "purchase_invoice_items", 1)
	testutil.AssertCount(t, f.db, "stock_movements", 1)

	got, err := f.suppliers.GetByID(ctx, s.ID.String())
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("1100")), got.Balance.String())
}

func TestListPurchaseInvoicesFilters(t *testing.T) {
	f := setup(t, defaultConfig(), nil)
	ctx := context.Background()
	a := f.supplier(t)
	b := f.supplier(t)
	p := f.product(t, 0)

	_, err := f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(a.ID.String(), p.ID.String(), "500"))
	require.NoError(t, err)
	_, err = f.invoices.CreatePurchaseInvoice(ctx, purchaseDraft(b.ID.String(), p.ID.String(), "0"))
	require.NoError(t, err)

	res, err := f.invoices.ListPurchaseInvoices(ctx, invoicedomain.ListPurchaseInvoiceRequest{SupplierID: b.ID.String()})
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, b.ID, res.Invoices[0].SupplierID)

	res, err = f.invoices.ListPurchaseInvoices(ctx, invoicedomain.ListPurchaseInvoiceRequest{Status: pricing.StatusPartial})
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, a.ID, res.Invoices[0].SupplierID)

	_, err = f.invoices.ListPurchaseInvoices(ctx, invoicedomain.ListPurchaseInvoiceRequest{Status: "void"})
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)
}
