package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aurorec/aurorec/config"
	"github.com/aurorec/aurorec/journal"
	awsprovider "github.com/aurorec/aurorec/providers/aws"
	"github.com/aurorec/aurorec/reconciler"
	"github.com/aurorec/aurorec/telemetry"
)

// runtime bundles everything a command needs once the config is loaded.
type runtime struct {
	cfg      *config.Config
	provider *awsprovider.Provider
	store    *journal.Store
	logger   *telemetry.Logger
	setup    *telemetry.Setup
	rec      *reconciler.Reconciler
}

// buildRuntime assembles provider, journal, telemetry, and reconciler. The
// returned cleanup is safe to call exactly once.
func buildRuntime(ctx context.Context, opts reconciler.Options, withMetrics bool) (*runtime, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := telemetry.NewLogger("aurorec")

	provider, err := awsprovider.New(ctx, cfg.Region)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create provider: %w", err)
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return nil, nil, err
	}

	rt := &runtime{cfg: cfg, provider: provider, store: store, logger: logger}

	if withMetrics {
		setup, err := telemetry.Init(telemetry.Config{ServiceName: "aurorec", ServiceVersion: version})
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		rt.setup = setup
	}

	opts.Waits = cfg.WaitPolicy()
	opts.Executor = cfg.ExecutorOptions()

	var metrics *telemetry.Metrics
	if rt.setup != nil {
		metrics = rt.setup.Metrics
	}
	rt.rec = reconciler.New(provider, nil, logger.Logger, opts, store, metrics)

	cleanup := func() {
		_ = store.Close()
		if rt.setup != nil {
			_ = rt.setup.Shutdown(context.Background())
		}
	}
	return rt, cleanup, nil
}

// printJSON writes v to stdout, indented for humans, stable for scripts.
func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
