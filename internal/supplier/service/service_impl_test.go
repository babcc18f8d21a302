package service_test

import (
	"context"
	"testing"

	"github.com/smallbiznis/retailbook/internal/supplier/domain"
	"github.com/smallbiznis/retailbook/internal/supplier/repository"
	"github.com/smallbiznis/retailbook/internal/supplier/service"
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

func TestCreateAndGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	s, err := svc.Create(ctx, domain.CreateSupplierRequest{
		Name:          " Karachi Wholesale ",
		ContactPerson: "Imran",
		Phone:         "021-555",
	})
	require.NoError(t, err)
	assert.Equal(t, "Karachi Wholesale", s.Name)
	assert.True(t, s.Balance.IsZero())

	got, err := svc.GetByID(ctx, s.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Imran", got.ContactPerson)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateSupplierRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateSupplierRequest{Name: "X", Email: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.GetByID(ctx, "0")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(ctx, "1234567890")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFiltersByName(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"Alpha Foods", "Beta Traders", "alpha dairy"} {
		_, err := svc.Create(ctx, domain.CreateSupplierRequest{Name: name})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListSupplierRequest{Name: "ALPHA"})
	require.NoError(t, err)
	assert.Len(t, resp.Suppliers, 2)
}
