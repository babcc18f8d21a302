package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("INVENTORY_SALE_ALLOW_NEGATIVE", "")
	t.Setenv("INVENTORY_PURCHASE_RETURN_ALLOW_NEGATIVE", "")
	t.Setenv("DOCUMENT_NUMBER_STRATEGY", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.False(t, cfg.Inventory.SaleAllowNegative)
	assert.True(t, cfg.Inventory.PurchaseReturnAllowNegative)
	assert.Equal(t, DocumentNumberDateSequence, cfg.DocumentNumberStrategy)
}

func TestLoadInventoryOverrides(t *testing.T) {
	t.Setenv("INVENTORY_SALE_ALLOW_NEGATIVE", "yes")
	t.Setenv("INVENTORY_PURCHASE_RETURN_ALLOW_NEGATIVE", "off")
	t.Setenv("DOCUMENT_NUMBER_STRATEGY", "ULID")

	cfg := Load()

	assert.True(t, cfg.Inventory.SaleAllowNegative)
	assert.False(t, cfg.Inventory.PurchaseReturnAllowNegative)
	assert.Equal(t, DocumentNumberULID, cfg.DocumentNumberStrategy)
}

func TestStoreConfigSettings(t *testing.T) {
	settings := DefaultStoreConfig().Settings()

	assert.Equal(t, "Rs", settings["currency"])
	assert.Equal(t, "5", settings["tax_rate"])
	assert.Contains(t, settings, "company_name")
	assert.Contains(t, settings, "company_address")
}

func TestStaticStoreConfigHolder(t *testing.T) {
	holder := NewStaticStoreConfigHolder(StoreConfig{Currency: "USD", TaxRate: "10"})
	assert.Equal(t, "USD", holder.Get().Currency)
	assert.Error(t, validateStoreConfig(StoreConfig{}))
}

func TestLoadTelemetry(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLING_RATIO", "0.5")
	t.Setenv("LOG_FORMAT", "console")

	cfg := Load()

	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 0.5, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "console", cfg.Telemetry.LogFormat)
}
