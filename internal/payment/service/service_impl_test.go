package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/config"
	customerdomain "github.com/smallbiznis/retailbook/internal/customer/domain"
	customerrepo "github.com/smallbiznis/retailbook/internal/customer/repository"
	customerservice "github.com/smallbiznis/retailbook/internal/customer/service"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	inventoryrepo "github.com/smallbiznis/retailbook/internal/inventory/repository"
	inventoryservice "github.com/smallbiznis/retailbook/internal/inventory/service"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/retailbook/internal/invoice/repository"
	invoiceservice "github.com/smallbiznis/retailbook/internal/invoice/service"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	paymentrepo "github.com/smallbiznis/retailbook/internal/payment/repository"
	paymentservice "github.com/smallbiznis/retailbook/internal/payment/service"
	"github.com/smallbiznis/retailbook/internal/pricing"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	productrepo "github.com/smallbiznis/retailbook/internal/product/repository"
	productservice "github.com/smallbiznis/retailbook/internal/product/service"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/retailbook/internal/supplier/repository"
	supplierservice "github.com/smallbiznis/retailbook/internal/supplier/service"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/smallbiznis/retailbook/pkg/db/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	clock     *clock.FakeClock
	payments  paymentdomain.Service
	invoices  invoicedomain.Service
	products  productdomain.Service
	customers customerdomain.Service
	suppliers supplierdomain.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	node := testutil.NewNode(t)
	log := zap.NewNop()
	now := clock.NewFakeClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	ledger := inventoryservice.NewService(inventoryservice.Params{
		DB: db, Log: log, GenID: node, Repo: inventoryrepo.Provide(),
	})

	return fixture{
		db:    db,
		clock: now,
		payments: paymentservice.NewService(paymentservice.Params{
			DB:           db,
			Log:          log,
			GenID:        node,
			Repo:         paymentrepo.Provide(),
			InvoiceRepo:  invoicerepo.Provide(),
			CustomerRepo: customerrepo.Provide(),
			SupplierRepo: supplierrepo.Provide(),
			Clock:        now,
		}),
		invoices: invoiceservice.NewService(invoiceservice.ServiceParam{
			DB:           db,
			Log:          log,
			GenID:        node,
			Cfg:          config.Config{},
			Repo:         invoicerepo.Provide(),
			CustomerRepo: customerrepo.Provide(),
			SupplierRepo: supplierrepo.Provide(),
			Ledger:       ledger,
			Numbers:      docnumber.NewULIDGenerator(clock.SystemClock{}),
		}),
		products:  productservice.New(productservice.Params{DB: db, Log: log, GenID: node, Repo: productrepo.Provide()}),
		customers: customerservice.New(customerservice.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide()}),
		suppliers: supplierservice.New(supplierservice.Params{DB: db, Log: log, GenID: node, Repo: supplierrepo.Provide()}),
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// saleInvoice books a 500 invoice with 200 paid for a new customer.
func (f fixture) saleInvoice(t *testing.T) (invoicedomain.SaleInvoice, customerdomain.Customer) {
	t.Helper()
	ctx := context.Background()

	cost, sale := dec("60"), dec("100")
	p, err := f.products.Create(ctx, productdomain.CreateRequest{
		Name: "Widget", Category: "General", CostPrice: &cost, SalePrice: &sale, Stock: 10,
	})
	require.NoError(t, err)
	c, err := f.customers.Create(ctx, customerdomain.CreateCustomerRequest{Name: "Asha", Phone: "0300"})
	require.NoError(t, err)

	inv, err := f.invoices.CreateSaleInvoice(ctx, invoicedomain.SaleInvoiceDraft{
		CustomerID: c.ID.String(),
		Items: []invoicedomain.SaleInvoiceItemDraft{{
			ProductID: p.ID.String(),
			Quantity:  5,
			UnitPrice: dec("100"),
		}},
		Paid: dec("200"),
	})
	require.NoError(t, err)
	require.True(t, inv.Total.Equal(dec("500")))
	return inv, c
}

func (f fixture) customerBalance(t *testing.T, c customerdomain.Customer) decimal.Decimal {
	t.Helper()
	got, err := f.customers.GetByID(context.Background(), c.ID.String())
	require.NoError(t, err)
	return got.Balance
}

func TestPaymentAgainstSaleInvoice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv, c := f.saleInvoice(t)
	require.True(t, f.customerBalance(t, c).Equal(dec("300")))

	payment, err := f.payments.Create(ctx, paymentdomain.PaymentDraft{
		Type:          paymentdomain.PaymentTypeReceived,
		ReferenceType: paymentdomain.ReferenceSaleInvoice,
		ReferenceID:   inv.ID.String(),
		Amount:        dec("150"),
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.MethodCash, payment.PaymentMethod)
	assert.Equal(t, f.clock.Now(), payment.CreatedAt)
	require.NotNil(t, payment.CustomerID)
	assert.Equal(t, c.ID, *payment.CustomerID)

	updated, err := f.invoices.GetSaleInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.True(t, updated.Paid.Equal(dec("350")))
	assert.True(t, updated.Balance.Equal(dec("150")))
	assert.Equal(t, pricing.StatusPending, updated.Status)
	assert.True(t, f.customerBalance(t, c).Equal(dec("150")))

	_, err = f.payments.Create(ctx, paymentdomain.PaymentDraft{
		Type:          paymentdomain.PaymentTypeReceived,
		ReferenceType: paymentdomain.ReferenceSaleInvoice,
		ReferenceID:   inv.ID.String(),
		Amount:        dec("150"),
	})
	require.NoError(t, err)

	settled, err := f.invoices.GetSaleInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.True(t, settled.Balance.IsZero())
	assert.Equal(t, pricing.StatusPaid, settled.Status)
	assert.True(t, f.customerBalance(t, c).IsZero())
	testutil.AssertCount(t, f.db, "payments", 2)
}

func TestPaymentAgainstPurchaseInvoice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cost, sale := dec("60"), dec("100")
	p, err := f.products.Create(ctx, productdomain.CreateRequest{
		Name: "Widget", Category: "General", CostPrice: &cost, SalePrice: &sale,
	})
	require.NoError(t, err)
	s, err := f.suppliers.Create(ctx, supplierdomain.CreateSupplierRequest{Name: "Wholesale Co"})
	require.NoError(t, err)

	inv, err := f.invoices.CreatePurchaseInvoice(ctx, invoicedomain.PurchaseInvoiceDraft{
		SupplierID: s.ID.String(),
		Items: []invoicedomain.PurchaseInvoiceItemDraft{{
			ProductID: p.ID.String(),
			Quantity:  10,
			UnitCost:  dec("100"),
		}},
	})
	require.NoError(t, err)
	require.Equal(t, pricing.StatusPending, inv.Status)

	_, err = f.payments.Create(ctx, paymentdomain.PaymentDraft{
		Type:          paymentdomain.PaymentTypeMade,
		ReferenceType: paymentdomain.ReferencePurchaseInvoice,
		ReferenceID:   inv.ID.String(),
		Amount:        dec("1000"),
		PaymentMethod: "Bank Transfer",
	})
	require.NoError(t, err)

	updated, err := f.invoices.GetPurchaseInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusPaid, updated.Status)
	assert.True(t, updated.Balance.IsZero())

	supplier, err := f.suppliers.GetByID(ctx, s.ID.String())
	require.NoError(t, err)
	assert.True(t, supplier.Balance.IsZero())
}

func TestPaymentWithoutReference(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c, err := f.customers.Create(ctx, customerdomain.CreateCustomerRequest{Name: "Bilal"})
	require.NoError(t, err)

	payment, err := f.payments.Create(ctx, paymentdomain.PaymentDraft{
		Type:       paymentdomain.PaymentTypeReceived,
		CustomerID: c.ID.String(),
		Amount:     dec("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.ReferenceNone, payment.ReferenceType)
	assert.Nil(t, payment.ReferenceID)
	assert.True(t, f.customerBalance(t, c).Equal(dec("-40")))
}

func TestPaymentValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv, _ := f.saleInvoice(t)

	cases := []struct {
		name  string
		draft paymentdomain.PaymentDraft
		want  error
	}{
		{
			name:  "zero amount",
			draft: paymentdomain.PaymentDraft{Type: paymentdomain.PaymentTypeReceived, Amount: decimal.Zero},
			want:  paymentdomain.ErrInvalidAmount,
		},
		{
			name:  "negative amount",
			draft: paymentdomain.PaymentDraft{Type: paymentdomain.PaymentTypeReceived, Amount: dec("-5")},
			want:  paymentdomain.ErrInvalidAmount,
		},
		{
			name:  "unknown type",
			draft: paymentdomain.PaymentDraft{Type: "refund", Amount: dec("5")},
			want:  paymentdomain.ErrInvalidType,
		},
		{
			name: "reference without id",
			draft: paymentdomain.PaymentDraft{
				Type: paymentdomain.PaymentTypeReceived, ReferenceType: paymentdomain.ReferenceSaleInvoice, Amount: dec("5"),
			},
			want: paymentdomain.ErrInvalidReference,
		},
		{
			name: "id without reference",
			draft: paymentdomain.PaymentDraft{
				Type: paymentdomain.PaymentTypeReceived, ReferenceID: inv.ID.String(), Amount: dec("5"),
			},
			want: paymentdomain.ErrInvalidReference,
		},
		{
			name: "unknown invoice",
			draft: paymentdomain.PaymentDraft{
				Type: paymentdomain.PaymentTypeReceived, ReferenceType: paymentdomain.ReferenceSaleInvoice,
				ReferenceID: "1234567890", Amount: dec("5"),
			},
			want: paymentdomain.ErrInvoiceNotFound,
		},
		{
			name: "unknown customer",
			draft: paymentdomain.PaymentDraft{
				Type: paymentdomain.PaymentTypeReceived, CustomerID: "1234567890", Amount: dec("5"),
			},
			want: paymentdomain.ErrCustomerNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.payments.Create(ctx, tc.draft)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	testutil.AssertCount(t, f.db, "payments", 0)
	unchanged, err := f.invoices.GetSaleInvoice(ctx, inv.ID.String())
	require.NoError(t, err)
	assert.True(t, unchanged.Paid.Equal(dec("200")))
}

func TestListRecentPayments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv, c := f.saleInvoice(t)

	for i := 0; i < 7; i++ {
		_, err := f.payments.Create(ctx, paymentdomain.PaymentDraft{
			Type:          paymentdomain.PaymentTypeReceived,
			ReferenceType: paymentdomain.ReferenceSaleInvoice,
			ReferenceID:   inv.ID.String(),
			Amount:        dec("10"),
		})
		require.NoError(t, err)
	}

	recent, err := f.payments.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, paymentdomain.DefaultRecentLimit)
	assert.Equal(t, "Asha", recent[0].CustomerName)
	assert.Equal(t, inv.InvoiceNumber, recent[0].InvoiceNumber)
	assert.Equal(t, c.ID, *recent[0].CustomerID)

	all, err := f.payments.ListRecent(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	_, err = f.payments.ListRecent(ctx, -1)
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidLimit)
}

func TestListPayments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	inv, c := f.saleInvoice(t)

	for i := 0; i < 3; i++ {
		_, err := f.payments.Create(ctx, paymentdomain.PaymentDraft{
			Type:          paymentdomain.PaymentTypeReceived,
			ReferenceType: paymentdomain.ReferenceSaleInvoice,
			ReferenceID:   inv.ID.String(),
			Amount:        dec("10"),
		})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}
	s, err := f.suppliers.Create(ctx, supplierdomain.CreateSupplierRequest{Name: "Wholesale Co"})
	require.NoError(t, err)
	made, err := f.payments.Create(ctx, paymentdomain.PaymentDraft{
		Type:       paymentdomain.PaymentTypeMade,
		SupplierID: s.ID.String(),
		Amount:     dec("25"),
	})
	require.NoError(t, err)

	first, err := f.payments.List(ctx, paymentdomain.ListPaymentRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Payments, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, made.ID, first.Payments[0].ID)
	assert.Equal(t, "Wholesale Co", first.Payments[0].SupplierName)
	assert.Equal(t, "Asha", first.Payments[1].CustomerName)
	assert.Equal(t, inv.InvoiceNumber, first.Payments[1].InvoiceNumber)

	second, err := f.payments.List(ctx, paymentdomain.ListPaymentRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Payments, 2)
	assert.False(t, second.HasMore)
	assert.Less(t, second.Payments[0].ID, first.Payments[1].ID)

	received, err := f.payments.List(ctx, paymentdomain.ListPaymentRequest{Type: paymentdomain.PaymentTypeReceived})
	require.NoError(t, err)
	assert.Len(t, received.Payments, 3)
	for _, p := range received.Payments {
		assert.Equal(t, c.ID, *p.CustomerID)
	}

	byInvoice, err := f.payments.List(ctx, paymentdomain.ListPaymentRequest{
		ReferenceType: paymentdomain.ReferenceSaleInvoice,
		ReferenceID:   inv.ID.String(),
	})
	require.NoError(t, err)
	assert.Len(t, byInvoice.Payments, 3)

	unlinked, err := f.payments.List(ctx, paymentdomain.ListPaymentRequest{ReferenceType: paymentdomain.ReferenceNone})
	require.NoError(t, err)
	require.Len(t, unlinked.Payments, 1)
	assert.Equal(t, made.ID, unlinked.Payments[0].ID)

	_, err = f.payments.List(ctx, paymentdomain.ListPaymentRequest{Type: "refund"})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidType)

	_, err = f.payments.List(ctx, paymentdomain.ListPaymentRequest{ReferenceType: "order"})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidReferenceType)

	_, err = f.payments.List(ctx, paymentdomain.ListPaymentRequest{ReferenceID: "abc"})
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidReference)

	_, err = f.payments.List(ctx, paymentdomain.ListPaymentRequest{PageToken: "garbage"})
	assert.ErrorIs(t, err, option.ErrInvalidPageToken)
}
