package plan

import (
	"time"

	"github.com/aurorec/aurorec/types"
)

// OpKind names one step of a reconcile plan.
type OpKind string

const (
	OpCreateCluster  OpKind = "create-cluster"
	OpRestoreCluster OpKind = "restore-cluster"
	OpModifyCluster  OpKind = "modify-cluster"
	OpDeleteCluster  OpKind = "delete-cluster"
	OpCreateInstance OpKind = "create-instance"
	OpModifyInstance OpKind = "modify-instance"
	OpDeleteInstance OpKind = "delete-instance"
	OpSyncTags       OpKind = "sync-tags"
	OpWait           OpKind = "wait"
)

// Operation is a single planned step. Mutating kinds carry the spec they
// act on; waits carry the status to poll for and a ceiling.
type Operation struct {
	Kind     OpKind              `json:"kind"`
	Entity   types.EntityKind    `json:"entity"`
	EntityID string              `json:"entity_id"`
	Cluster  *types.ClusterSpec  `json:"cluster,omitempty"`
	Instance *types.InstanceSpec `json:"instance,omitempty"`

	// Fields lists the diffed field names a modify call should send.
	Fields []string `json:"fields,omitempty"`

	// Tag sync payload.
	ARN         string            `json:"arn,omitempty"`
	CurrentTags map[string]string `json:"-"`
	DesiredTags map[string]string `json:"-"`

	// Wait payload. WaitForAbsent polls until the entity disappears.
	WaitFor       types.Status  `json:"wait_for,omitempty"`
	WaitForAbsent bool          `json:"wait_for_absent,omitempty"`
	Timeout       time.Duration `json:"timeout,omitempty"`

	// Destroy payload.
	SkipFinalSnapshot bool   `json:"skip_final_snapshot,omitempty"`
	FinalSnapshotID   string `json:"final_snapshot_id,omitempty"`
}

// Mutating reports whether executing this operation changes remote state.
func (op Operation) Mutating() bool {
	return op.Kind != OpWait
}

// Plan is the ordered operation sequence for one reconciliation pass over
// one entity. Plans are computed, never executed, by this package.
type Plan struct {
	Entity   types.EntityKind `json:"entity"`
	EntityID string           `json:"entity_id"`
	Ops      []Operation      `json:"ops"`

	// Observed is the state the plan was computed against, carried along
	// so an empty plan can still report a final state.
	Observed *types.ObservedState `json:"observed,omitempty"`
}

// Empty reports whether the entity is already converged.
func (p *Plan) Empty() bool {
	return len(p.Ops) == 0
}

// MutatingOps counts the operations that would change remote state.
func (p *Plan) MutatingOps() int {
	n := 0
	for _, op := range p.Ops {
		if op.Mutating() {
			n++
		}
	}
	return n
}

// WaitPolicy holds the poll ceilings applied to planned waits.
type WaitPolicy struct {
	ClusterTimeout  time.Duration
	RestoreTimeout  time.Duration
	InstanceTimeout time.Duration
	DeleteTimeout   time.Duration
}

// DefaultWaitPolicy mirrors the provider's practical provisioning times:
// restoring from a snapshot can take an hour, a plain create minutes.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		ClusterTimeout:  10 * time.Minute,
		RestoreTimeout:  60 * time.Minute,
		InstanceTimeout: 20 * time.Minute,
		DeleteTimeout:   10 * time.Minute,
	}
}

// EntityState is the planner's view of where an entity sits in its
// lifecycle.
type EntityState string

const (
	StateAbsent        EntityState = "absent"
	StatePendingCreate EntityState = "pending-create"
	StateAvailable     EntityState = "available"
	StatePendingUpdate EntityState = "pending-update"
	StatePendingDelete EntityState = "pending-delete"
	StateFailed        EntityState = "failed"
)

// Classify maps an observed status onto the planner's state machine.
func Classify(observed *types.ObservedState) EntityState {
	if observed == nil {
		return StateAbsent
	}
	switch observed.Status {
	case types.StatusCreating:
		return StatePendingCreate
	case types.StatusAvailable, types.StatusBackingUp:
		return StateAvailable
	case types.StatusModifying:
		return StatePendingUpdate
	case types.StatusDeleting:
		return StatePendingDelete
	case types.StatusFailed:
		return StateFailed
	default:
		return StatePendingUpdate
	}
}
