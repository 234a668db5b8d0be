// Package reconciler drives full reconcile passes: observe, diff, plan,
// execute, journal. The cluster always settles before its instances are
// touched; teardown runs in the opposite order.
package reconciler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aurorec/aurorec/config"
	"github.com/aurorec/aurorec/diff"
	"github.com/aurorec/aurorec/executor"
	"github.com/aurorec/aurorec/journal"
	"github.com/aurorec/aurorec/plan"
	"github.com/aurorec/aurorec/providers"
	"github.com/aurorec/aurorec/telemetry"
	"github.com/aurorec/aurorec/types"
)

// Options tunes a reconciler beyond what the config file carries.
type Options struct {
	// AllowReplace permits destroy-then-create convergence for
	// replacement-requiring diffs.
	AllowReplace bool
	// SkipFinalSnapshot and FinalSnapshotID control cluster teardown.
	SkipFinalSnapshot bool
	FinalSnapshotID   string

	Waits    plan.WaitPolicy
	Executor executor.Options
}

// Result is the outcome of a reconcile pass, shaped for machine
// consumption.
type Result struct {
	Changed bool             `json:"changed"`
	State   plan.EntityState `json:"entity_state"`
	Error   string           `json:"error,omitempty"`
}

// Reconciler owns one provider connection and the engines around it. The
// journal and metrics are optional; a nil journal skips auditing.
type Reconciler struct {
	provider providers.Provider
	differ   diff.Engine
	planner  *plan.Planner
	exec     *executor.Engine
	journal  *journal.Store
	metrics  *telemetry.Metrics
	log      zerolog.Logger
}

// New assembles a reconciler. clock may be nil for real time.
func New(provider providers.Provider, clock executor.Clock, log zerolog.Logger, opts Options, store *journal.Store, metrics *telemetry.Metrics) *Reconciler {
	planner := &plan.Planner{
		AllowReplace:      opts.AllowReplace,
		SkipFinalSnapshot: opts.SkipFinalSnapshot,
		FinalSnapshotID:   opts.FinalSnapshotID,
		Waits:             opts.Waits,
	}
	return &Reconciler{
		provider: provider,
		planner:  planner,
		exec:     executor.New(provider, clock, log, opts.Executor),
		journal:  store,
		metrics:  metrics,
		log:      log,
	}
}

// Ensure converges every entity in cfg toward its spec. It returns the
// aggregate result; a second call against converged state changes nothing.
func (r *Reconciler) Ensure(ctx context.Context, cfg *config.Config) (*Result, error) {
	started := time.Now()
	r.countRun(ctx, cfg)

	aggregate := &Result{State: plan.StateAbsent}

	cluster, err := r.ensureCluster(ctx, cfg, aggregate)
	if err != nil {
		aggregate.Error = err.Error()
		r.observeDuration(ctx, started)
		return aggregate, err
	}

	for _, spec := range cfg.Instances {
		if err := r.ensureInstance(ctx, spec, cluster, aggregate); err != nil {
			aggregate.Error = err.Error()
			r.observeDuration(ctx, started)
			return aggregate, err
		}
	}

	r.observeDuration(ctx, started)
	return aggregate, nil
}

// Destroy removes every entity in cfg, instances before the cluster.
func (r *Reconciler) Destroy(ctx context.Context, cfg *config.Config) (*Result, error) {
	started := time.Now()
	r.countRun(ctx, cfg)

	aggregate := &Result{State: plan.StateAbsent}

	if cfg.Cluster == nil {
		for _, spec := range cfg.Instances {
			observed, err := r.provider.FetchInstance(ctx, spec.InstanceID)
			if err != nil {
				aggregate.Error = err.Error()
				return aggregate, err
			}
			p, err := r.planner.InstanceAbsent(spec.InstanceID, observed)
			if err != nil {
				aggregate.Error = err.Error()
				return aggregate, err
			}
			if err := r.apply(ctx, p, aggregate, started); err != nil {
				aggregate.Error = err.Error()
				return aggregate, err
			}
		}
		r.observeDuration(ctx, started)
		return aggregate, nil
	}

	observed, err := r.provider.FetchCluster(ctx, cfg.Cluster.ClusterID)
	if err != nil {
		aggregate.Error = err.Error()
		return aggregate, err
	}
	p, err := r.planner.ClusterAbsent(cfg.Cluster.ClusterID, observed)
	if err != nil {
		aggregate.Error = err.Error()
		return aggregate, err
	}
	if err := r.apply(ctx, p, aggregate, started); err != nil {
		aggregate.Error = err.Error()
		return aggregate, err
	}

	aggregate.State = plan.StateAbsent
	r.observeDuration(ctx, started)
	return aggregate, nil
}

// ensureCluster converges the cluster and returns its settled state for
// instance gating. A config without a cluster returns nil.
func (r *Reconciler) ensureCluster(ctx context.Context, cfg *config.Config, aggregate *Result) (*types.ObservedState, error) {
	if cfg.Cluster == nil {
		return nil, nil
	}
	spec := *cfg.Cluster

	observed, err := r.provider.FetchCluster(ctx, spec.ClusterID)
	if err != nil {
		r.record(ctx, types.KindCluster, spec.ClusterID, nil, plan.StateFailed, err, time.Now())
		return nil, err
	}

	d := r.differ.Cluster(spec, observed)
	r.logDiff(d)

	p, err := r.planner.Cluster(spec, d, observed)
	if err != nil {
		r.record(ctx, types.KindCluster, spec.ClusterID, nil, plan.StateFailed, err, time.Now())
		return nil, err
	}

	if err := r.apply(ctx, p, aggregate, time.Now()); err != nil {
		return nil, err
	}

	// Re-fetch so instance gating sees the post-execution status.
	return r.provider.FetchCluster(ctx, spec.ClusterID)
}

func (r *Reconciler) ensureInstance(ctx context.Context, spec types.InstanceSpec, cluster *types.ObservedState, aggregate *Result) error {
	observed, err := r.provider.FetchInstance(ctx, spec.InstanceID)
	if err != nil {
		r.record(ctx, types.KindInstance, spec.InstanceID, nil, plan.StateFailed, err, time.Now())
		return err
	}

	d := r.differ.Instance(spec, observed)
	r.logDiff(d)

	p, err := r.planner.Instance(spec, d, observed, cluster)
	if err != nil {
		r.record(ctx, types.KindInstance, spec.InstanceID, nil, plan.StateFailed, err, time.Now())
		return err
	}

	return r.apply(ctx, p, aggregate, time.Now())
}

// apply executes a plan, journals the outcome, and folds it into the
// aggregate result.
func (r *Reconciler) apply(ctx context.Context, p *plan.Plan, aggregate *Result, started time.Time) error {
	result, err := r.exec.Execute(ctx, p)
	if err != nil {
		r.record(ctx, p.Entity, p.EntityID, p, plan.StateFailed, err, started)
		return err
	}

	r.record(ctx, p.Entity, p.EntityID, p, result.State, nil, started)

	if result.Changed {
		aggregate.Changed = true
		if r.metrics != nil {
			r.metrics.DriftDetected.Add(ctx, 1)
			r.metrics.OperationsApplied.Add(ctx, int64(p.MutatingOps()))
		}
	}
	aggregate.State = result.State
	return nil
}

// record writes one journal entry. Journal failures are logged, never
// allowed to fail a reconcile that already succeeded remotely.
func (r *Reconciler) record(ctx context.Context, entity types.EntityKind, entityID string, p *plan.Plan, state plan.EntityState, runErr error, started time.Time) {
	if r.journal == nil {
		return
	}

	entry := journal.RunRecord{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Entity:     entity,
		EntityID:   entityID,
		State:      state,
	}
	if p != nil {
		entry.Changed = p.MutatingOps() > 0 && runErr == nil
		for _, op := range p.Ops {
			if op.Mutating() {
				entry.Operations = append(entry.Operations, string(op.Kind))
			}
		}
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if _, err := r.journal.Record(entry); err != nil {
		r.log.Warn().Err(err).Str("entity_id", entityID).Msg("failed to journal reconcile run")
	}
}

func (r *Reconciler) logDiff(d types.DiffResult) {
	event := r.log.Debug().
		Str("entity_id", d.ID).
		Bool("create", d.Create).
		Bool("replacement", d.RequiresReplacement())
	if updated := d.UpdatedFields(); len(updated) > 0 {
		event = event.Strs("fields", updated)
	}
	event.Msg("computed diff")
}

func (r *Reconciler) countRun(ctx context.Context, cfg *config.Config) {
	if r.metrics == nil {
		return
	}
	r.metrics.ReconcileRuns.Add(ctx, 1)
	managed := int64(len(cfg.Instances))
	if cfg.Cluster != nil {
		managed++
	}
	r.metrics.EntitiesManaged.Record(ctx, managed)
}

func (r *Reconciler) observeDuration(ctx context.Context, started time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.ReconcileDuration.Record(ctx, time.Since(started).Seconds())
}
