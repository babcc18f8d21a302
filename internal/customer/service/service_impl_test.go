package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/customer/domain"
	"github.com/smallbiznis/retailbook/internal/customer/repository"
	"github.com/smallbiznis/retailbook/internal/customer/service"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	repo  domain.Repository
	clock *clock.FakeClock
	svc   domain.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		db:    testutil.SetupTestDB(t),
		repo:  repository.Provide(),
		clock: clock.NewFakeClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)),
	}
	f.svc = service.New(service.Params{
		DB:    f.db,
		Log:   zap.NewNop(),
		GenID: testutil.NewNode(t),
		Repo:  f.repo,
		Clock: f.clock,
	})
	return f
}

func strptr(s string) *string { return &s }

func TestCreateNormalizesContact(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:  "  Bilal Traders ",
		Phone: "0300-123 4567",
		Email: "bilal@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bilal Traders", c.Name)
	assert.Equal(t, "03001234567", c.Phone)
	assert.True(t, c.Balance.IsZero())
	assert.Equal(t, f.clock.Now(), c.CreatedAt)

	got, err := f.svc.GetByID(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c.Phone, got.Phone)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Asha", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Asha", Email: "Asha <asha@example.com>"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestGetByIDErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.GetByID(context.Background(), "1234567890")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePatchesContactOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Asha", Phone: "0300"})
	require.NoError(t, err)
	_, err = f.repo.AdjustBalance(ctx, f.db, c.ID, decimal.NewFromInt(250))
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	updated, err := f.svc.Update(ctx, domain.UpdateCustomerRequest{
		ID:      c.ID.String(),
		Address: strptr("Main Bazaar, Shop 4"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha", updated.Name)
	assert.Equal(t, "Main Bazaar, Shop 4", updated.Address)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, f.clock.Now(), updated.UpdatedAt)

	_, err = f.svc.Update(ctx, domain.UpdateCustomerRequest{ID: c.ID.String(), Name: strptr("")})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestUpdateWithoutChangesKeepsTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Asha"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	same, err := f.svc.Update(ctx, domain.UpdateCustomerRequest{ID: c.ID.String(), Name: strptr(" Asha ")})
	require.NoError(t, err)
	assert.True(t, c.UpdatedAt.Equal(same.UpdatedAt))
}

func TestListOutstandingOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owing, err := f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Owing"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreateCustomerRequest{Name: "Settled"})
	require.NoError(t, err)
	_, err = f.repo.AdjustBalance(ctx, f.db, owing.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	all, err := f.svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Customers, 2)

	outstanding, err := f.svc.List(ctx, domain.ListCustomerRequest{Outstanding: true})
	require.NoError(t, err)
	require.Len(t, outstanding.Customers, 1)
	assert.Equal(t, owing.ID, outstanding.Customers[0].ID)
}
