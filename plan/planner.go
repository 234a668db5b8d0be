// Package plan sequences the operations needed to converge an entity,
// respecting provider ordering constraints. Planning is pure: nothing in
// this package talks to the provider, which keeps plans directly testable.
package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aurorec/aurorec/faults"
	"github.com/aurorec/aurorec/types"
)

// Planner turns diff results into ordered operation sequences.
type Planner struct {
	// AllowReplace opts into destroy-then-create sequences for fields that
	// cannot be updated in place. Without it a replacement diff is a
	// conflict, never a silent teardown.
	AllowReplace bool

	// SkipFinalSnapshot and FinalSnapshotID control cluster teardown.
	SkipFinalSnapshot bool
	FinalSnapshotID   string

	Waits WaitPolicy
}

// New returns a planner with default wait ceilings.
func New() *Planner {
	return &Planner{Waits: DefaultWaitPolicy()}
}

// Cluster plans convergence of a cluster toward its spec.
func (p *Planner) Cluster(spec types.ClusterSpec, d types.DiffResult, observed *types.ObservedState) (*Plan, error) {
	result := &Plan{Entity: types.KindCluster, EntityID: spec.ClusterID, Observed: observed}

	if d.Create {
		result.Ops = p.clusterCreateOps(spec)
		return result, nil
	}

	if Classify(observed) == StateFailed {
		return nil, faults.Permanent(spec.ClusterID, "plan cluster",
			fmt.Errorf("cluster is in failed state and cannot be reconciled"))
	}

	if d.RequiresReplacement() {
		if !p.AllowReplace {
			return nil, faults.Conflict(spec.ClusterID, "plan cluster",
				fmt.Errorf("fields %s require replacement; pass the replace opt-in to destroy and recreate",
					strings.Join(d.ReplacementFields(), ", ")))
		}
		result.Ops = append(result.Ops, p.clusterTeardownOps(spec.ClusterID, observed)...)
		result.Ops = append(result.Ops, p.clusterCreateOps(spec)...)
		return result, nil
	}

	modifyFields, syncTags := splitTagField(d.UpdatedFields())
	if len(modifyFields) > 0 {
		result.Ops = append(result.Ops,
			Operation{
				Kind:     OpModifyCluster,
				Entity:   types.KindCluster,
				EntityID: spec.ClusterID,
				Cluster:  &spec,
				Fields:   modifyFields,
			},
			p.waitOp(types.KindCluster, spec.ClusterID, types.StatusAvailable, p.Waits.ClusterTimeout),
		)
	}
	if syncTags {
		result.Ops = append(result.Ops, Operation{
			Kind:        OpSyncTags,
			Entity:      types.KindCluster,
			EntityID:    spec.ClusterID,
			ARN:         observed.ARN,
			CurrentTags: observed.Tags,
			DesiredTags: spec.Tags,
		})
	}
	return result, nil
}

// Instance plans convergence of an instance toward its spec. The owning
// cluster must already be available or still creating; instances cannot
// exist without one.
func (p *Planner) Instance(spec types.InstanceSpec, d types.DiffResult, observed, cluster *types.ObservedState) (*Plan, error) {
	result := &Plan{Entity: types.KindInstance, EntityID: spec.InstanceID, Observed: observed}

	if cluster == nil {
		return nil, faults.Validation(spec.InstanceID, "plan instance",
			fmt.Errorf("owning cluster %q does not exist", spec.ClusterID))
	}
	if cluster.Status != types.StatusAvailable && cluster.Status != types.StatusCreating {
		return nil, faults.Validation(spec.InstanceID, "plan instance",
			fmt.Errorf("owning cluster %q is %s, not ready for instance operations", spec.ClusterID, cluster.Status))
	}

	if d.Create {
		result.Ops = []Operation{
			{Kind: OpCreateInstance, Entity: types.KindInstance, EntityID: spec.InstanceID, Instance: &spec},
			p.waitOp(types.KindInstance, spec.InstanceID, types.StatusAvailable, p.Waits.InstanceTimeout),
		}
		return result, nil
	}

	if Classify(observed) == StateFailed {
		return nil, faults.Permanent(spec.InstanceID, "plan instance",
			fmt.Errorf("instance is in failed state and cannot be reconciled"))
	}

	if d.RequiresReplacement() {
		if !p.AllowReplace {
			return nil, faults.Conflict(spec.InstanceID, "plan instance",
				fmt.Errorf("fields %s require replacement; pass the replace opt-in to destroy and recreate",
					strings.Join(d.ReplacementFields(), ", ")))
		}
		result.Ops = []Operation{
			{Kind: OpDeleteInstance, Entity: types.KindInstance, EntityID: spec.InstanceID},
			p.absentWaitOp(types.KindInstance, spec.InstanceID),
			{Kind: OpCreateInstance, Entity: types.KindInstance, EntityID: spec.InstanceID, Instance: &spec},
			p.waitOp(types.KindInstance, spec.InstanceID, types.StatusAvailable, p.Waits.InstanceTimeout),
		}
		return result, nil
	}

	modifyFields, syncTags := splitTagField(d.UpdatedFields())
	if len(modifyFields) > 0 {
		result.Ops = append(result.Ops,
			Operation{
				Kind:     OpModifyInstance,
				Entity:   types.KindInstance,
				EntityID: spec.InstanceID,
				Instance: &spec,
				Fields:   modifyFields,
			},
			p.waitOp(types.KindInstance, spec.InstanceID, types.StatusAvailable, p.Waits.InstanceTimeout),
		)
	}
	if syncTags {
		result.Ops = append(result.Ops, Operation{
			Kind:        OpSyncTags,
			Entity:      types.KindInstance,
			EntityID:    spec.InstanceID,
			ARN:         observed.ARN,
			CurrentTags: observed.Tags,
			DesiredTags: spec.Tags,
		})
	}
	return result, nil
}

// ClusterAbsent plans teardown of a cluster. Dependent instances are torn
// down first; the cluster delete never precedes them.
func (p *Planner) ClusterAbsent(id string, observed *types.ObservedState) (*Plan, error) {
	result := &Plan{Entity: types.KindCluster, EntityID: id, Observed: observed}
	if observed == nil {
		return result, nil
	}
	result.Ops = p.clusterTeardownOps(id, observed)
	return result, nil
}

// InstanceAbsent plans teardown of a single instance.
func (p *Planner) InstanceAbsent(id string, observed *types.ObservedState) (*Plan, error) {
	result := &Plan{Entity: types.KindInstance, EntityID: id, Observed: observed}
	if observed == nil {
		return result, nil
	}
	result.Ops = []Operation{
		{Kind: OpDeleteInstance, Entity: types.KindInstance, EntityID: id},
		p.absentWaitOp(types.KindInstance, id),
	}
	return result, nil
}

// clusterCreateOps picks plain create or snapshot restore and appends the
// availability wait. Restores get the long ceiling.
func (p *Planner) clusterCreateOps(spec types.ClusterSpec) []Operation {
	kind := OpCreateCluster
	timeout := p.Waits.ClusterTimeout
	if spec.SnapshotARN != "" {
		kind = OpRestoreCluster
		timeout = p.Waits.RestoreTimeout
	}
	return []Operation{
		{Kind: kind, Entity: types.KindCluster, EntityID: spec.ClusterID, Cluster: &spec},
		p.waitOp(types.KindCluster, spec.ClusterID, types.StatusAvailable, timeout),
	}
}

// clusterTeardownOps deletes member instances before the cluster itself.
func (p *Planner) clusterTeardownOps(id string, observed *types.ObservedState) []Operation {
	var ops []Operation
	members := append([]string(nil), observed.MemberInstanceIDs...)
	sort.Strings(members)
	for _, member := range members {
		ops = append(ops,
			Operation{Kind: OpDeleteInstance, Entity: types.KindInstance, EntityID: member},
			p.absentWaitOp(types.KindInstance, member),
		)
	}
	ops = append(ops,
		Operation{
			Kind:              OpDeleteCluster,
			Entity:            types.KindCluster,
			EntityID:          id,
			SkipFinalSnapshot: p.SkipFinalSnapshot,
			FinalSnapshotID:   p.FinalSnapshotID,
		},
		p.absentWaitOp(types.KindCluster, id),
	)
	return ops
}

func (p *Planner) waitOp(entity types.EntityKind, id string, status types.Status, timeout time.Duration) Operation {
	return Operation{
		Kind:     OpWait,
		Entity:   entity,
		EntityID: id,
		WaitFor:  status,
		Timeout:  timeout,
	}
}

func (p *Planner) absentWaitOp(entity types.EntityKind, id string) Operation {
	return Operation{
		Kind:          OpWait,
		Entity:        entity,
		EntityID:      id,
		WaitForAbsent: true,
		Timeout:       p.Waits.DeleteTimeout,
	}
}

// splitTagField separates the tag field from modify-call fields, since tags
// converge through the tagging API rather than a modify call.
func splitTagField(fields []string) (modify []string, syncTags bool) {
	for _, field := range fields {
		if field == types.FieldTags {
			syncTags = true
			continue
		}
		modify = append(modify, field)
	}
	return modify, syncTags
}
