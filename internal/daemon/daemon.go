// Package daemon runs continuous reconciliation: an interval loop that
// re-converges the configured cluster, plus a metrics and health endpoint.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/oklog/run"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aurorec/aurorec/config"
	"github.com/aurorec/aurorec/reconciler"
)

// Options configures the daemon loop.
type Options struct {
	// Interval between reconcile passes.
	Interval time.Duration
	// MetricsAddr is the listen address for /metrics and /health.
	MetricsAddr string
}

// Daemon drives periodic reconciliation of one config.
type Daemon struct {
	rec       *reconciler.Reconciler
	cfg       *config.Config
	opts      Options
	registry  *promclient.Registry
	log       zerolog.Logger
	startTime time.Time
	runs      atomic.Int64
	failures  atomic.Int64
}

// New builds a daemon. registry may be nil when metrics are not exported.
func New(rec *reconciler.Reconciler, cfg *config.Config, registry *promclient.Registry, log zerolog.Logger, opts Options) *Daemon {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	if opts.MetricsAddr == "" {
		opts.MetricsAddr = ":2112"
	}
	return &Daemon{
		rec:       rec,
		cfg:       cfg,
		opts:      opts,
		registry:  registry,
		log:       log,
		startTime: time.Now(),
	}
}

// Run blocks until ctx is done or a signal arrives. The reconcile loop,
// the metrics server, and signal handling run as one actor group; any
// member stopping stops the rest.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var group run.Group

	group.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	server := &http.Server{
		Addr:              d.opts.MetricsAddr,
		Handler:           d.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	group.Add(
		func() error {
			d.log.Info().Str("addr", d.opts.MetricsAddr).Msg("starting metrics server")
			err := server.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
		func(error) {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		},
	)

	group.Add(
		func() error { return d.loop(ctx) },
		func(error) { cancel() },
	)

	err := group.Run()
	var signalErr run.SignalError
	if errors.As(err, &signalErr) {
		d.log.Info().Str("signal", signalErr.Signal.String()).Msg("shutting down")
		return nil
	}
	return err
}

// loop reconciles immediately, then on every tick. Reconcile failures are
// logged and counted, never fatal; the next tick retries from observed
// state.
func (d *Daemon) loop(ctx context.Context) error {
	d.reconcile(ctx)

	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.reconcile(ctx)
		}
	}
}

func (d *Daemon) reconcile(ctx context.Context) {
	d.runs.Add(1)

	result, err := d.rec.Ensure(ctx, d.cfg)
	if err != nil {
		d.failures.Add(1)
		d.log.Error().Err(err).Msg("reconcile pass failed")
		return
	}

	d.log.Info().
		Bool("changed", result.Changed).
		Str("entity_state", string(result.State)).
		Msg("reconcile pass complete")
}

func (d *Daemon) handler() http.Handler {
	mux := http.NewServeMux()
	if d.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/health", d.handleHealth)
	return mux
}

type healthStatus struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Runs          int64  `json:"runs"`
	Failures      int64  `json:"failures"`
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
		Runs:          d.runs.Load(),
		Failures:      d.failures.Load(),
	})
}
