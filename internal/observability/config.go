package observability

import (
	"strings"

	"github.com/smallbiznis/retailbook/internal/config"
	"github.com/smallbiznis/retailbook/internal/observability/logger"
	"github.com/smallbiznis/retailbook/internal/observability/metrics"
	"github.com/smallbiznis/retailbook/internal/observability/tracing"
)

const defaultServiceName = "retailbook"

// Config is the normalized telemetry setup shared by the logger, tracer
// and meter providers.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string
	LogFile   string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	t := cfg.Telemetry
	return Config{
		ServiceName:          serviceName,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             oneOf(t.LogLevel, "info", "debug", "info", "warn", "error"),
		LogFormat:            oneOf(t.LogFormat, "json", "json", "console"),
		LogFile:              strings.TrimSpace(t.LogFile),
		OtelEnabled:          t.Enabled,
		OtelExporterEndpoint: strings.TrimSpace(t.Endpoint),
		OtelExporterProtocol: oneOf(t.Protocol, "grpc", "grpc", "http"),
		OtelSamplingRatio:    clampRatio(t.SamplingRatio),
	}
}

// Debug is true for the debug log level and for any non-production
// environment.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		ServiceName:         c.ServiceName,
		Environment:         c.Environment,
		Version:             c.Version,
		Level:               c.LogLevel,
		Format:              c.LogFormat,
		Debug:               c.Debug(),
		OutputPath:          c.LogFile,
		IncludeCaller:       true,
		IncludeStackOnError: c.Debug(),
	}
}

func (c Config) TracingConfig() tracing.Config {
	return tracing.Config{
		Enabled:          c.OtelEnabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.OtelExporterEndpoint,
		ExporterProtocol: c.OtelExporterProtocol,
		SamplingRatio:    c.OtelSamplingRatio,
	}
}

func (c Config) MetricsConfig() metrics.Config {
	return metrics.Config{
		Enabled:          c.OtelEnabled,
		ExporterEndpoint: c.OtelExporterEndpoint,
		ExporterProtocol: c.OtelExporterProtocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}

// oneOf lowercases value and returns it when allowed, def otherwise.
func oneOf(value, def string, allowed ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return def
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
