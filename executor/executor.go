// Package executor runs reconcile plans against a provider. It owns the two
// time-dependent concerns planning stays clear of: bounded retry of
// transient provider errors, and polling until an entity settles.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/aurorec/aurorec/faults"
	"github.com/aurorec/aurorec/plan"
	"github.com/aurorec/aurorec/providers"
	"github.com/aurorec/aurorec/types"
)

// Options tunes retry and polling behavior.
type Options struct {
	// PollInterval is the delay between status fetches in a wait loop.
	PollInterval time.Duration
	// MaxAttempts bounds retries of a single mutating call. Exhausting it
	// on transient errors yields a timeout fault.
	MaxAttempts uint
	// RetryInitial and RetryMaxInterval shape the exponential backoff
	// between attempts.
	RetryInitial     time.Duration
	RetryMaxInterval time.Duration
}

// DefaultOptions returns the production retry and poll settings.
func DefaultOptions() Options {
	return Options{
		PollInterval:     5 * time.Second,
		MaxAttempts:      5,
		RetryInitial:     500 * time.Millisecond,
		RetryMaxInterval: 30 * time.Second,
	}
}

// Result reports what executing a plan did.
type Result struct {
	// Changed is true when at least one mutating call was issued. A
	// converged plan always reports false.
	Changed bool
	// State is the entity's lifecycle state after execution.
	State plan.EntityState
	// Observed is the final fetched state, nil when the entity is absent.
	Observed *types.ObservedState
}

// Engine executes plans sequentially. Operations within a plan depend on
// their predecessors, so there is no concurrency here.
type Engine struct {
	provider providers.Provider
	clock    Clock
	opts     Options
	log      zerolog.Logger
}

// New builds an executor. A nil clock falls back to real time.
func New(provider providers.Provider, clock Clock, log zerolog.Logger, opts Options) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{provider: provider, clock: clock, opts: opts, log: log}
}

// Execute runs every operation of p in order. The first failure aborts the
// plan; completed operations are not undone, the next reconcile pass picks
// up from the state they left behind.
func (e *Engine) Execute(ctx context.Context, p *plan.Plan) (*Result, error) {
	if p.Empty() {
		e.log.Debug().
			Str("entity_id", p.EntityID).
			Str("entity", string(p.Entity)).
			Msg("already converged, nothing to execute")
		return &Result{Changed: false, State: plan.Classify(p.Observed), Observed: p.Observed}, nil
	}

	changed := false
	for _, op := range p.Ops {
		e.log.Info().
			Str("op", string(op.Kind)).
			Str("entity_id", op.EntityID).
			Msg("executing operation")

		if op.Kind == plan.OpWait {
			if _, err := e.waitFor(ctx, op); err != nil {
				return nil, err
			}
			continue
		}

		if err := e.mutate(ctx, op); err != nil {
			return nil, err
		}
		changed = true
	}

	observed, err := e.fetch(ctx, p.Entity, p.EntityID)
	if err != nil {
		return nil, err
	}
	return &Result{Changed: changed, State: plan.Classify(observed), Observed: observed}, nil
}

// mutate issues one mutating call, retrying transient failures with
// exponential backoff. Permanent faults abort immediately.
func (e *Engine) mutate(ctx context.Context, op plan.Operation) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = e.opts.RetryInitial
	expo.MaxInterval = e.opts.RetryMaxInterval

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		callErr := e.call(ctx, op)
		if callErr == nil {
			return struct{}{}, nil
		}
		if faults.IsTransient(callErr) {
			e.log.Warn().
				Str("op", string(op.Kind)).
				Str("entity_id", op.EntityID).
				Int("attempt", attempt).
				Err(callErr).
				Msg("transient provider error, will retry")
			return struct{}{}, callErr
		}
		return struct{}{}, backoff.Permanent(callErr)
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(e.opts.MaxAttempts))

	if err != nil && faults.IsTransient(err) {
		// Retry budget spent without a definitive outcome.
		return faults.Timeout(op.EntityID, string(op.Kind), "", err)
	}
	return err
}

func (e *Engine) call(ctx context.Context, op plan.Operation) error {
	switch op.Kind {
	case plan.OpCreateCluster:
		return e.provider.CreateCluster(ctx, *op.Cluster)
	case plan.OpRestoreCluster:
		return e.provider.RestoreClusterFromSnapshot(ctx, *op.Cluster)
	case plan.OpModifyCluster:
		return e.provider.ModifyCluster(ctx, *op.Cluster, op.Fields)
	case plan.OpDeleteCluster:
		return e.provider.DeleteCluster(ctx, op.EntityID, op.SkipFinalSnapshot, op.FinalSnapshotID)
	case plan.OpCreateInstance:
		return e.provider.CreateInstance(ctx, *op.Instance)
	case plan.OpModifyInstance:
		return e.provider.ModifyInstance(ctx, *op.Instance, op.Fields)
	case plan.OpDeleteInstance:
		return e.provider.DeleteInstance(ctx, op.EntityID)
	case plan.OpSyncTags:
		return e.provider.SyncTags(ctx, op.ARN, op.CurrentTags, op.DesiredTags)
	default:
		return faults.Permanent(op.EntityID, string(op.Kind),
			fmt.Errorf("unknown operation kind %q", op.Kind))
	}
}

// waitFor polls until the entity reaches the target status, or disappears
// for absent waits. Transient fetch errors do not abort the loop; the
// ceiling is the only budget.
func (e *Engine) waitFor(ctx context.Context, op plan.Operation) (*types.ObservedState, error) {
	deadline := e.clock.Now().Add(op.Timeout)
	lastStatus := types.StatusUnknown

	for {
		observed, err := e.fetch(ctx, op.Entity, op.EntityID)
		switch {
		case err != nil && faults.IsTransient(err):
			e.log.Debug().
				Str("entity_id", op.EntityID).
				Err(err).
				Msg("transient error while polling, continuing")
		case err != nil:
			return nil, err
		case op.WaitForAbsent:
			if observed == nil {
				return nil, nil
			}
			lastStatus = observed.Status
		case observed == nil:
			// Entity vanished while we waited for it to settle.
			return nil, faults.Permanent(op.EntityID, "wait",
				fmt.Errorf("entity disappeared while waiting for status %s", op.WaitFor))
		default:
			lastStatus = observed.Status
			if observed.Status == op.WaitFor {
				return observed, nil
			}
			if observed.Status == types.StatusFailed {
				return nil, &faults.Fault{
					Kind:       faults.KindPermanent,
					EntityID:   op.EntityID,
					Op:         "wait",
					LastStatus: lastStatus,
					Err:        fmt.Errorf("entity entered failed state"),
				}
			}
		}

		if e.clock.Now().After(deadline) {
			return nil, faults.Timeout(op.EntityID, "wait", lastStatus,
				fmt.Errorf("ceiling %s exceeded", op.Timeout))
		}
		if err := e.clock.Sleep(ctx, e.opts.PollInterval); err != nil {
			return nil, err
		}
	}
}

func (e *Engine) fetch(ctx context.Context, entity types.EntityKind, id string) (*types.ObservedState, error) {
	if entity == types.KindInstance {
		return e.provider.FetchInstance(ctx, id)
	}
	return e.provider.FetchCluster(ctx, id)
}
