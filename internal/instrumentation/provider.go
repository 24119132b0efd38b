package instrumentation

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config holds instrumentation settings.
type Config struct {
	// Enabled turns metric collection on. When false the provider is a
	// no-op and all recording methods are safe to call.
	Enabled bool

	ServiceName    string
	ServiceVersion string
}

// DefaultConfig returns the default instrumentation configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		ServiceName: "events-mcp",
	}
}

// Provider encapsulates the OpenTelemetry meter provider and the metrics
// recorder. The prometheus exporter registers with the default Prometheus
// registry, which the metrics server exposes.
type Provider struct {
	config        Config
	meterProvider *sdkmetric.MeterProvider
	metrics       *Metrics
	enabled       bool
}

// NewProvider creates an instrumentation provider. With Enabled false it
// returns a no-op provider whose Metrics recorder discards everything.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{config: config, metrics: &Metrics{}}, nil
	}

	resourceAttrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
	}
	if config.ServiceVersion != "" {
		resourceAttrs = append(resourceAttrs, semconv.ServiceVersion(config.ServiceVersion))
	}
	if hostname, err := os.Hostname(); err == nil {
		resourceAttrs = append(resourceAttrs, semconv.ServiceInstanceID(hostname))
	}

	res, err := resource.New(ctx, resource.WithAttributes(resourceAttrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(promExporter),
	)
	otel.SetMeterProvider(meterProvider)

	metrics, err := NewMetrics(meterProvider.Meter(config.ServiceName))
	if err != nil {
		_ = meterProvider.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
	}

	return &Provider{
		config:        config,
		meterProvider: meterProvider,
		metrics:       metrics,
		enabled:       true,
	}, nil
}

// Enabled reports whether metric collection is active.
func (p *Provider) Enabled() bool { return p.enabled }

// Metrics returns the metrics recorder (never nil).
func (p *Provider) Metrics() *Metrics { return p.metrics }

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
