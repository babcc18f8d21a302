package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/product/domain"
	"github.com/smallbiznis/retailbook/internal/product/repository"
	"github.com/smallbiznis/retailbook/internal/product/service"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()
	return service.New(service.Params{
		DB:    testutil.SetupTestDB(t),
		Log:   zap.NewNop(),
		GenID: testutil.NewNode(t),
		Repo:  repository.Provide(),
	})
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newService(t)

	p, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:      " Rice 5kg ",
		Category:  "Grocery",
		CostPrice: price("400"),
		SalePrice: price("450"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Rice 5kg", p.Name)
	assert.Equal(t, "Piece", p.Unit)
	assert.Equal(t, int64(10), p.ReorderLevel)
	assert.Equal(t, domain.StatusActive, p.Status)
	assert.True(t, p.ConversionRate.Equal(decimal.NewFromInt(1)))
	assert.Nil(t, p.SKU)

	got, err := svc.GetByID(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.SalePrice.Equal(decimal.NewFromInt(450)))
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Category: "x", CostPrice: price("1"), SalePrice: price("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "x", CostPrice: price("1"), SalePrice: price("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "x", Category: "x", SalePrice: price("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidCostPrice)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "x", Category: "x", CostPrice: price("1"), SalePrice: price("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidSalePrice)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "x", Category: "x", CostPrice: price("1"), SalePrice: price("1"), Status: "gone"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	req := domain.CreateRequest{Name: "Soap", SKU: "SOAP-1", Category: "Care", CostPrice: price("10"), SalePrice: price("12")}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

	// Products without a SKU never collide.
	req.SKU = ""
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)
}

func TestUpdateChangesOnlySetFields(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.CreateRequest{Name: "Tea", Category: "Drinks", CostPrice: price("5"), SalePrice: price("8"), Stock: 4})
	require.NoError(t, err)

	name := "Green Tea"
	status := domain.StatusShortInMarket
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: p.ID.String(), Name: &name, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Green Tea", updated.Name)
	assert.Equal(t, domain.StatusShortInMarket, updated.Status)
	assert.Equal(t, "Drinks", updated.Category)
	assert.Equal(t, int64(4), updated.Stock)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "1234567890", Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockLists(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	create := func(name string, stock, reorder int64) {
		t.Helper()
		_, err := svc.Create(ctx, domain.CreateRequest{
			Name: name, Category: "c", CostPrice: price("1"), SalePrice: price("2"),
			Stock: stock, ReorderLevel: &reorder,
		})
		require.NoError(t, err)
	}
	create("empty", 0, 5)
	create("low", 3, 5)
	create("edge", 5, 5)
	create("plenty", 50, 5)

	out, err := svc.ListOutOfStock(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "empty", out[0].Name)

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "low", low[0].Name)
	assert.Equal(t, "edge", low[1].Name)
}

func TestListPaginates(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{Name: "Item", Category: "c", CostPrice: price("1"), SalePrice: price("1")})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, first.Products, 2)
	assert.True(t, first.HasMore)

	second, err := svc.List(ctx, domain.ListRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, second.Products, 1)
	assert.False(t, second.HasMore)
	assert.Less(t, int64(second.Products[0].ID), int64(first.Products[1].ID))
}
