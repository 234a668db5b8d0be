package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerEmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo("aurorec-test", &buf)

	logger.Info().Str("entity_id", "prod-aurora").Msg("reconcile started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "aurorec-test", entry["service"])
	assert.Equal(t, "prod-aurora", entry["entity_id"])
	assert.Equal(t, "reconcile started", entry["message"])
}

func TestLoggerWithContextWithoutSpanIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo("aurorec-test", &buf)

	logger.WithContext(context.Background()).Info().Msg("no span here")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "trace_id")
}

func TestInitRegistersInstruments(t *testing.T) {
	setup, err := Init(Config{ServiceName: "aurorec-test", ServiceVersion: "0.0.0"})
	require.NoError(t, err)
	defer func() { _ = setup.Shutdown(context.Background()) }()

	require.NotNil(t, setup.Metrics)
	assert.NotNil(t, setup.Metrics.ReconcileRuns)
	assert.NotNil(t, setup.Metrics.ReconcileDuration)
	assert.NotNil(t, setup.Registry)

	setup.Metrics.ReconcileRuns.Add(context.Background(), 1)

	families, err := setup.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
