package telemetry

import (
	"context"
	"fmt"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Config describes the service for OTEL resource attribution.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Setup is the initialized telemetry stack: a meter provider exporting to a
// Prometheus registry for scraping.
type Setup struct {
	Metrics  *Metrics
	Registry *promclient.Registry
	provider *sdkmetric.MeterProvider
}

// Init configures the global meter provider with a Prometheus exporter and
// registers the reconciler's instruments.
func Init(cfg Config) (*Setup, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "aurorec"
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	metrics, err := InitMetrics(provider.Meter("github.com/aurorec/aurorec"))
	if err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return &Setup{Metrics: metrics, Registry: registry, provider: provider}, nil
}

// Shutdown flushes and stops the meter provider.
func (s *Setup) Shutdown(ctx context.Context) error {
	return s.provider.Shutdown(ctx)
}
