package observability

import (
	"github.com/smallbiznis/retailbook/internal/observability/logger"
	"github.com/smallbiznis/retailbook/internal/observability/metrics"
	"github.com/smallbiznis/retailbook/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.LoggerConfig,
		Config.TracingConfig,
		Config.MetricsConfig,
	),
	fx.Provide(
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// The tracer provider registers itself globally; nothing else asks
	// for it by type.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
