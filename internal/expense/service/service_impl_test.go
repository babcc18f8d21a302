package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/expense/domain"
	"github.com/smallbiznis/retailbook/internal/expense/repository"
	"github.com/smallbiznis/retailbook/internal/expense/service"
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

func TestCreateExpense(t *testing.T) {
	svc := newService(t)

	expense, err := svc.Create(context.Background(), domain.CreateExpenseRequest{
		Category:    "  Rent ",
		Description: "October",
		Amount:      decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rent", expense.Category)
	assert.Equal(t, domain.DefaultPaymentMethod, expense.PaymentMethod)
	assert.NotZero(t, expense.ID)
	assert.False(t, expense.CreatedAt.IsZero())
}

func TestCreateExpenseValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateExpenseRequest{Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{Category: "Rent"})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateExpenseRequest{Category: "Rent", Amount: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestListExpenses(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, category := range []string{"Rent", "Utilities", "Rent"} {
		_, err := svc.Create(ctx, domain.CreateExpenseRequest{Category: category, Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListExpenseRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Expenses, 3)

	rent, err := svc.List(ctx, domain.ListExpenseRequest{Category: "Rent"})
	require.NoError(t, err)
	assert.Len(t, rent.Expenses, 2)

	first, err := svc.List(ctx, domain.ListExpenseRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Expenses, 2)
	require.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, domain.ListExpenseRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, second.Expenses, 1)
}
