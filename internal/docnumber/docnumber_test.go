package docnumber

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/retailbook/internal/clock"
	"github.com/smallbiznis/retailbook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedDay = time.Date(2024, 7, 9, 15, 4, 5, 0, time.UTC)

func TestDateSequenceFormat(t *testing.T) {
	gen := NewDateSequenceGenerator(clock.NewFakeClock(fixedDay))
	pattern := regexp.MustCompile(`^SR-20240709-\d{4}$`)

	for i := 0; i < 50; i++ {
		number, err := gen.Next(context.Background(), KindSaleReturn)
		require.NoError(t, err)
		assert.Regexp(t, pattern, number)
		assert.NotEqual(t, "SR-20240709-0000", number)
	}
}

func TestULIDGeneratorIsMonotonic(t *testing.T) {
	gen := NewULIDGenerator(clock.NewFakeClock(fixedDay))

	first, err := gen.Next(context.Background(), KindSaleInvoice)
	require.NoError(t, err)
	second, err := gen.Next(context.Background(), KindSaleInvoice)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "INV-"))
	assert.Less(t, first, second)
}

func TestGeneratorHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDateSequenceGenerator(clock.SystemClock{}).Next(ctx, KindPurchaseInvoice)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrefixes(t *testing.T) {
	assert.Equal(t, "INV", KindSaleInvoice.Prefix())
	assert.Equal(t, "PO", KindPurchaseInvoice.Prefix())
	assert.Equal(t, "SR", KindSaleReturn.Prefix())
	assert.Equal(t, "PR", KindPurchaseReturn.Prefix())
}

func TestNewPicksStrategy(t *testing.T) {
	c := clock.NewFakeClock(fixedDay)
	assert.IsType(t, &ULIDGenerator{}, New(config.Config{DocumentNumberStrategy: config.DocumentNumberULID}, c))
	assert.IsType(t, &DateSequenceGenerator{}, New(config.Config{}, c))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrConflict))
	assert.False(t, IsRetryable(context.Canceled))
}
