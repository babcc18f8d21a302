package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	documentsCreated metric.Int64Counter
	documentFailures metric.Int64Counter
	stockMovements   metric.Int64Counter
	paymentsApplied  metric.Int64Counter
}

const exportInterval = 10 * time.Second

// NewProvider installs the global meter provider. A disabled config
// yields a no-op provider so instruments are always safe to use.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", meterName(cfg)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		)),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))),
	)
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{OnStop: provider.Shutdown})
	}
	if log != nil {
		log.Info("metrics export enabled",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
			zap.Duration("interval", exportInterval),
		)
	}

	return provider, nil
}

// New creates the retail counters on the given provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	meter := provider.Meter(meterName(cfg))

	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}

	m := &Metrics{
		documentsCreated: counter("retailbook_documents_created_total", "Invoices and returns committed."),
		documentFailures: counter("retailbook_document_failures_total", "Invoice and return saves rolled back."),
		stockMovements:   counter("retailbook_stock_movements_total", "Stock ledger rows written."),
		paymentsApplied:  counter("retailbook_payments_applied_total", "Payments recorded."),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func meterName(cfg Config) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "retailbook"
}

// RecordDocumentCreated counts persisted invoices and returns.
func (m *Metrics) RecordDocumentCreated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("document_kind", strings.TrimSpace(kind)))
	m.documentsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDocumentFailure counts rolled back saves by reason.
func (m *Metrics) RecordDocumentFailure(ctx context.Context, kind, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("document_kind", strings.TrimSpace(kind)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.documentFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStockMovement counts applied stock adjustments.
func (m *Metrics) RecordStockMovement(ctx context.Context, sourceType string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("source_type", strings.TrimSpace(sourceType)))
	m.stockMovements.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

// RecordPaymentApplied counts recorded payments.
func (m *Metrics) RecordPaymentApplied(ctx context.Context, paymentType, referenceType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("payment_type", strings.TrimSpace(paymentType)),
		attribute.String("reference_type", strings.TrimSpace(referenceType)),
	)
	m.paymentsApplied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"document_kind":  {},
	"source_type":    {},
	"payment_type":   {},
	"reference_type": {},
	"reason":         {},
	"status_code":    {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
