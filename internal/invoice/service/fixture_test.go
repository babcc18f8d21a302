package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
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
	productdomain "github.com/smallbiznis/retailbook/internal/product/domain"
	productrepo "github.com/smallbiznis/retailbook/internal/product/repository"
	productservice "github.com/smallbiznis/retailbook/internal/product/service"
	supplierdomain "github.com/smallbiznis/retailbook/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/retailbook/internal/supplier/repository"
	supplierservice "github.com/smallbiznis/retailbook/internal/supplier/service"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	invoices  invoicedomain.Service
	products  productdomain.Service
	customers customerdomain.Service
	suppliers supplierdomain.Service
}

func defaultConfig() config.Config {
	return config.Config{Inventory: config.InventoryConfig{
		SaleAllowNegative:           false,
		PurchaseReturnAllowNegative: true,
	}}
}

func setup(t *testing.T, cfg config.Config, numbers docnumber.Generator) fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	node := testutil.NewNode(t)
	log := zap.NewNop()
	now := clock.NewFakeClock(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	if numbers == nil {
		numbers = docnumber.NewULIDGenerator(now)
	}

	ledger := inventoryservice.NewService(inventoryservice.Params{
		DB: db, Log: log, GenID: node, Repo: inventoryrepo.Provide(), Clock: now,
	})

	return fixture{
		db:    db,
		node:  node,
		clock: now,
		invoices: invoiceservice.NewService(invoiceservice.ServiceParam{
			DB:           db,
			Log:          log,
			GenID:        node,
			Cfg:          cfg,
			Repo:         invoicerepo.Provide(),
			CustomerRepo: customerrepo.Provide(),
			SupplierRepo: supplierrepo.Provide(),
			Ledger:       ledger,
			Numbers:      numbers,
			Clock:        now,
		}),
		products:  productservice.New(productservice.Params{DB: db, Log: log, GenID: node, Repo: productrepo.Provide()}),
		customers: customerservice.New(customerservice.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide()}),
		suppliers: supplierservice.New(supplierservice.Params{DB: db, Log: log, GenID: node, Repo: supplierrepo.Provide()}),
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (f fixture) product(t *testing.T, stock int64) productdomain.Product {
	t.Helper()
	cost, sale := dec("60"), dec("100")
	p, err := f.products.Create(context.Background(), productdomain.CreateRequest{
		Name: "Widget", Category: "General", CostPrice: &cost, SalePrice: &sale, Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func (f fixture) stock(t *testing.T, id snowflake.ID) int64 {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id.String())
	require.NoError(t, err)
	return p.Stock
}

func (f fixture) customer(t *testing.T) customerdomain.Customer {
	t.Helper()
	c, err := f.customers.Create(context.Background(), customerdomain.CreateCustomerRequest{Name: "Asha", Phone: "0300"})
	require.NoError(t, err)
	return c
}

func (f fixture) supplier(t *testing.T) supplierdomain.Supplier {
	t.Helper()
	s, err := f.suppliers.Create(context.Background(), supplierdomain.CreateSupplierRequest{Name: "Wholesale Co"})
	require.NoError(t, err)
	return s
}
