package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/smallbiznis/retailbook/internal/config"
	"github.com/smallbiznis/retailbook/internal/setting/domain"
	"github.com/smallbiznis/retailbook/internal/setting/repository"
	"github.com/smallbiznis/retailbook/internal/setting/service"
	"github.com/smallbiznis/retailbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := config.DefaultStoreConfig()
	store.CompanyName = "Corner Shop"
	return service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		Store: config.NewStaticStoreConfigHolder(store),
	}), db
}

func TestGetFallsBackToDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	got, err := svc.Get(ctx, "company_name")
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", got.Value)

	got, err = svc.Get(ctx, "currency")
	require.NoError(t, err)
	assert.Equal(t, "Rs", got.Value)

	_, err = svc.Get(ctx, "unknown_key")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetUpserts(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.Set(ctx, "tax_rate", "7")
	require.NoError(t, err)
	_, err = svc.Set(ctx, "tax_rate", "8")
	require.NoError(t, err)

	got, err := svc.Get(ctx, "tax_rate")
	require.NoError(t, err)
	assert.Equal(t, "8", got.Value)
	testutil.AssertCount(t, db, "settings", 1)

	_, err = svc.Set(ctx, " ", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
	_, err = svc.Set(ctx, strings.Repeat("k", 101), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestListMergesStoredOverDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Set(ctx, "currency", "PKR")
	require.NoError(t, err)
	_, err = svc.Set(ctx, "invoice_footer", "Thank you")
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)

	values := map[string]string{}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		values[item.Key] = item.Value
		keys = append(keys, item.Key)
	}
	assert.IsIncreasing(t, keys)
	assert.Equal(t, "PKR", values["currency"])
	assert.Equal(t, "Thank you", values["invoice_footer"])
	assert.Equal(t, "Corner Shop", values["company_name"])
	assert.Len(t, items, 5)
}

func TestEnsureDefaultsKeepsExistingValues(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	_, err := svc.Set(ctx, "currency", "USD")
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults(ctx))
	require.NoError(t, svc.EnsureDefaults(ctx))

	testutil.AssertCount(t, db, "settings", 4)
	got, err := svc.Get(ctx, "currency")
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Value)
}
