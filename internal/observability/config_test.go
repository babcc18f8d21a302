package observability

import (
	"testing"

	"github.com/smallbiznis/retailbook/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{Environment: "production"})

	assert.Equal(t, "retailbook", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.False(t, cfg.OtelEnabled)
	assert.False(t, cfg.Debug())
}

func TestLoadConfigNormalizes(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:     "shop-7",
		Environment: "production",
		Telemetry: config.TelemetryConfig{
			LogLevel:      " DEBUG ",
			LogFormat:     "xml",
			Protocol:      "HTTP",
			SamplingRatio: 3,
		},
	})

	assert.Equal(t, "shop-7", cfg.ServiceName)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http", cfg.OtelExporterProtocol)
	assert.Equal(t, 1.0, cfg.OtelSamplingRatio)
	assert.True(t, cfg.Debug())
}

func TestDebugInDevelopment(t *testing.T) {
	cfg := LoadConfig(config.Config{Environment: "local"})
	assert.True(t, cfg.Debug())

	lc := cfg.LoggerConfig()
	assert.True(t, lc.Debug)
	assert.True(t, lc.IncludeStackOnError)
	assert.Equal(t, cfg.OtelSamplingRatio, cfg.TracingConfig().SamplingRatio)
	assert.Equal(t, cfg.ServiceName, cfg.MetricsConfig().ServiceName)
}
