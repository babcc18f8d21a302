package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	obscontext "github.com/smallbiznis/retailbook/internal/observability/context"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the zap logger.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	Level       string
	Format      string
	Debug       bool
	// OutputPath adds a log file next to stdout, useful when the store
	// runs unattended on the shop counter machine.
	OutputPath string

	SamplingInitial     int
	SamplingThereafter  int
	SamplingWindow      time.Duration
	IncludeCaller       bool
	IncludeStackOnError bool
}

func (c Config) sampling() (time.Duration, int, int) {
	window, initial, thereafter := c.SamplingWindow, c.SamplingInitial, c.SamplingThereafter
	if window <= 0 {
		window = time.Second
	}
	if initial <= 0 {
		initial = 100
	}
	if thereafter <= 0 {
		thereafter = 100
	}
	return window, initial, thereafter
}

// New builds the process logger, installs it as the zap global and
// flushes it when the app stops.
func New(lc fx.Lifecycle, cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	sink, closeSink, err := openSink(cfg.OutputPath)
	if err != nil {
		return nil, err
	}

	window, initial, thereafter := cfg.sampling()
	core := zapcore.NewSamplerWithOptions(
		zapcore.NewCore(newEncoder(cfg.Format), sink, zap.NewAtomicLevelAt(level)),
		window, initial, thereafter,
	)

	options := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if cfg.IncludeCaller {
		options = append(options, zap.AddCaller())
	}
	if cfg.IncludeStackOnError {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if cfg.Debug {
		options = append(options, zap.Development())
	}

	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "retailbook"
	}
	log := zap.New(core, options...).With(
		zap.String("service", name),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
		zap.String("version", strings.TrimSpace(cfg.Version)),
	)
	zap.ReplaceGlobals(log)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				_ = log.Sync()
				closeSink()
				return nil
			},
		})
	}

	return log, nil
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

// openSink writes to stdout and, when path is set, to that file as well.
func openSink(path string) (zapcore.WriteSyncer, func(), error) {
	paths := []string{"stdout"}
	if path = strings.TrimSpace(path); path != "" {
		paths = append(paths, path)
	}
	sink, closeFn, err := zap.Open(paths...)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}
	return sink, closeFn, nil
}

// FromContext returns the global logger enriched with request-scoped fields.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext adds request and trace identifiers carried by ctx. Absent
// identifiers are left out.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	var fields []zap.Field
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// WithDocument tags a logger with the business document being written.
func WithDocument(log *zap.Logger, kind, number string) *zap.Logger {
	if log == nil {
		return nil
	}
	return log.With(
		zap.String("document_kind", strings.TrimSpace(kind)),
		zap.String("document_number", strings.TrimSpace(number)),
	)
}
