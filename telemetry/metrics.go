package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the reconciler's OTEL instruments.
type Metrics struct {
	ReconcileRuns     metric.Int64Counter
	DriftDetected     metric.Int64Counter
	OperationsApplied metric.Int64Counter
	RetryAttempts     metric.Int64Counter
	ReconcileDuration metric.Float64Histogram
	EntitiesManaged   metric.Int64Gauge
}

// InitMetrics registers every instrument on meter.
func InitMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.ReconcileRuns, err = meter.Int64Counter(
		"aurorec.reconcile.runs.total",
		metric.WithDescription("Total number of reconcile passes"),
		metric.WithUnit("runs"),
	)
	if err != nil {
		return nil, err
	}

	m.DriftDetected, err = meter.Int64Counter(
		"aurorec.drift.detected.total",
		metric.WithDescription("Total number of reconcile passes that found drift"),
		metric.WithUnit("runs"),
	)
	if err != nil {
		return nil, err
	}

	m.OperationsApplied, err = meter.Int64Counter(
		"aurorec.operations.applied.total",
		metric.WithDescription("Total number of mutating provider operations issued"),
		metric.WithUnit("operations"),
	)
	if err != nil {
		return nil, err
	}

	m.RetryAttempts, err = meter.Int64Counter(
		"aurorec.retries.total",
		metric.WithDescription("Total number of retried provider calls"),
		metric.WithUnit("retries"),
	)
	if err != nil {
		return nil, err
	}

	m.ReconcileDuration, err = meter.Float64Histogram(
		"aurorec.reconcile.duration",
		metric.WithDescription("Wall time of a full reconcile pass"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.EntitiesManaged, err = meter.Int64Gauge(
		"aurorec.entities.managed",
		metric.WithDescription("Number of entities the current config manages"),
		metric.WithUnit("entities"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
