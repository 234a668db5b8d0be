// Package providers defines the remote control-plane surface the
// reconciliation core drives. Implementations receive an already
// authenticated client; credential resolution happens in the caller.
package providers

import (
	"context"

	"github.com/aurorec/aurorec/types"
)

// StateReader fetches the current remote state of clusters, instances, and
// snapshots. A nil ObservedState with a nil error means the entity does not
// exist. Readers never mutate remote state.
type StateReader interface {
	FetchCluster(ctx context.Context, id string) (*types.ObservedState, error)
	FetchInstance(ctx context.Context, id string) (*types.ObservedState, error)
	ListSnapshots(ctx context.Context, filter types.SnapshotListFilter) ([]types.SnapshotRecord, error)
}

// Mutator issues state-changing calls against the control plane. Modify
// calls receive the field names that diffed so they only send what changed.
type Mutator interface {
	CreateCluster(ctx context.Context, spec types.ClusterSpec) error
	RestoreClusterFromSnapshot(ctx context.Context, spec types.ClusterSpec) error
	ModifyCluster(ctx context.Context, spec types.ClusterSpec, fields []string) error
	DeleteCluster(ctx context.Context, id string, skipFinalSnapshot bool, finalSnapshotID string) error
	CreateInstance(ctx context.Context, spec types.InstanceSpec) error
	ModifyInstance(ctx context.Context, spec types.InstanceSpec, fields []string) error
	DeleteInstance(ctx context.Context, id string) error
	SyncTags(ctx context.Context, arn string, current, desired map[string]string) error
}

// Provider is the full remote surface: read and mutate.
type Provider interface {
	StateReader
	Mutator
	Region() string
}
