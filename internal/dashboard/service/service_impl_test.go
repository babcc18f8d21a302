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
	dashboarddomain "github.com/smallbiznis/retailbook/internal/dashboard/domain"
	dashboardservice "github.com/smallbiznis/retailbook/internal/dashboard/service"
	"github.com/smallbiznis/retailbook/internal/docnumber"
	expensedomain "github.com/smallbiznis/retailbook/internal/expense/domain"
	expenserepo "github.com/smallbiznis/retailbook/internal/expense/repository"
	expenseservice "github.com/smallbiznis/retailbook/internal/expense/service"
	inventoryrepo "github.com/smallbiznis/retailbook/internal/inventory/repository"
	inventoryservice "github.com/smallbiznis/retailbook/internal/inventory/service"
	invoicedomain "github.com/smallbiznis/retailbook/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/retailbook/internal/invoice/repository"
	invoiceservice "github.com/smallbiznis/retailbook/internal/invoice/service"
	paymentdomain "github.com/smallbiznis/retailbook/internal/payment/domain"
	paymentrepo "github.com/smallbiznis/retailbook/internal/payment/repository"
	paymentservice "github.com/smallbiznis/retailbook/internal/payment/service"
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	productrepo "github.com/smallbiznis/retailbook/internal/product/repository"
	productservice "github.com/smallbiznis/retailbook/internal/product/service"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/retailbook/internal/supplier/repository"
	supplierservice "github.com/smallbiznis/retailbook/internal/supplier/service"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	clock     *clock.FakeClock
	dashboard dashboarddomain.Service
	invoices  invoicedomain.Service
	payments  paymentdomain.Service
	expenses  expensedomain.Service
	products  productdomain.Service
	customers customerdomain.Service
	suppliers supplierdomain.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	node := testutil.NewNode(t)
	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Now())

	ledger := inventoryservice.NewService(inventoryservice.Params{
		DB: db, Log: log, GenID: node, Repo: inventoryrepo.Provide(), Clock: fake,
	})
	products := productservice.New(productservice.Params{DB: db, Log: log, GenID: node, Repo: productrepo.Provide()})
	payments := paymentservice.NewService(paymentservice.Params{
		DB:           db,
		Log:          log,
		GenID:        node,
		Repo:         paymentrepo.Provide(),
		InvoiceRepo:  invoicerepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		SupplierRepo: supplierrepo.Provide(),
		Clock:        fake,
	})

	return fixture{
		clock: fake,
		dashboard: dashboardservice.NewService(dashboardservice.Params{
			DB:           db,
			Log:          log,
			Clock:        fake,
			InvoiceRepo:  invoicerepo.Provide(),
			PaymentRepo:  paymentrepo.Provide(),
			ExpenseRepo:  expenserepo.Provide(),
			CustomerRepo: customerrepo.Provide(),
			ProductRepo:  productrepo.Provide(),
			Products:     products,
			Payments:     payments,
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
			Numbers:      docnumber.NewULIDGenerator(fake),
			Clock:        fake,
		}),
		payments:  payments,
		expenses:  expenseservice.New(expenseservice.Params{DB: db, Log: log, GenID: node, Repo: expenserepo.Provide()}),
		products:  products,
		customers: customerservice.New(customerservice.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide()}),
		suppliers: supplierservice.New(supplierservice.Params{DB: db, Log: log, GenID: node, Repo: supplierrepo.Provide()}),
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (f fixture) product(t *testing.T, name string, stock, reorder int64) productdomain.Product {
	t.Helper()
	cost, sale := dec("60"), dec("100")
	p, err := f.products.Create(context.Background(), productdomain.CreateRequest{
		Name: name, Category: "General", CostPrice: &cost, SalePrice: &sale,
		Stock: stock, ReorderLevel: &reorder,
	})
	require.NoError(t, err)
	return p
}

func TestStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.product(t, "Empty", 0, 5)
	f.product(t, "Low", 3, 5)
	plenty := f.product(t, "Plenty", 50, 5)

	c, err := f.customers.Create(ctx, customerdomain.CreateCustomerRequest{Name: "Asha"})
	require.NoError(t, err)
	s, err := f.suppliers.Create(ctx, supplierdomain.CreateSupplierRequest{Name: "Wholesale Co"})
	require.NoError(t, err)

	_, err = f.invoices.CreateSaleInvoice(ctx, invoicedomain.SaleInvoiceDraft{
		CustomerID: c.ID.String(),
		Items:      []invoicedomain.SaleInvoiceItemDraft{{ProductID: plenty.ID.String(), Quantity: 3, UnitPrice: dec("100")}},
		Paid:       dec("100"),
	})
	require.NoError(t, err)
	_, err = f.invoices.CreatePurchaseInvoice(ctx, invoicedomain.PurchaseInvoiceDraft{
		SupplierID: s.ID.String(),
		Items:      []invoicedomain.PurchaseInvoiceItemDraft{{ProductID: plenty.ID.String(), Quantity: 10, UnitCost: dec("60")}},
		Paid:       dec("600"),
	})
	require.NoError(t, err)

	_, err = f.expenses.Create(ctx, expensedomain.CreateExpenseRequest{Category: "Rent", Amount: dec("250")})
	require.NoError(t, err)

	for _, draft := range []paymentdomain.PaymentDraft{
		{Type: paymentdomain.PaymentTypeReceived, Amount: dec("100")},
		{Type: paymentdomain.PaymentTypeMade, Amount: dec("30")},
		{Type: paymentdomain.PaymentTypeReceived, Amount: dec("50"), PaymentMethod: "Bank Transfer"},
	} {
		_, err := f.payments.Create(ctx, draft)
		require.NoError(t, err)
	}

	stats, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, clock.StartOfDay(f.clock.Now()), stats.Date)
	assert.True(t, stats.TodaySales.Equal(dec("300")), stats.TodaySales.String())
	assert.True(t, stats.TodayPurchases.Equal(dec("600")), stats.TodayPurchases.String())
	assert.True(t, stats.TodayExpenses.Equal(dec("250")), stats.TodayExpenses.String())
	assert.True(t, stats.CustomerBalances.Equal(dec("200")), stats.CustomerBalances.String())
	assert.True(t, stats.CashInHand.Equal(dec("70")), stats.CashInHand.String())
	assert.True(t, stats.TodayReceived.Equal(dec("150")), stats.TodayReceived.String())
	assert.True(t, stats.TodayPaidOut.Equal(dec("30")), stats.TodayPaidOut.String())
	assert.Equal(t, int64(3), stats.ProductCount)
	assert.Equal(t, int64(1), stats.SaleInvoiceCount)
}

func TestStatsExcludesOtherDays(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p := f.product(t, "Plenty", 50, 5)
	c, err := f.customers.Create(ctx, customerdomain.CreateCustomerRequest{Name: "Asha"})
	require.NoError(t, err)

	_, err = f.expenses.Create(ctx, expensedomain.CreateExpenseRequest{Category: "Rent", Amount: dec("250")})
	require.NoError(t, err)
	_, err = f.invoices.CreateSaleInvoice(ctx, invoicedomain.SaleInvoiceDraft{
		CustomerID: c.ID.String(),
		Items:      []invoicedomain.SaleInvoiceItemDraft{{ProductID: p.ID.String(), Quantity: 1, UnitPrice: dec("100")}},
	})
	require.NoError(t, err)
	_, err = f.payments.Create(ctx, paymentdomain.PaymentDraft{Type: paymentdomain.PaymentTypeReceived, Amount: dec("40")})
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)
	stats, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.TodayExpenses.IsZero())
	assert.True(t, stats.TodaySales.IsZero())
	assert.True(t, stats.TodayReceived.IsZero())
	assert.Equal(t, int64(1), stats.SaleInvoiceCount)
	assert.True(t, stats.CashInHand.Equal(dec("40")))
}

func TestStockLists(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	empty := f.product(t, "Empty", 0, 5)
	low := f.product(t, "Low", 3, 5)
	f.product(t, "Plenty", 50, 5)

	out, err := f.dashboard.OutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, empty.ID, out[0].ID)

	lowStock, err := f.dashboard.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, lowStock, 1)
	assert.Equal(t, low.ID, lowStock[0].ID)

	recent, err := f.dashboard.RecentPayments(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
