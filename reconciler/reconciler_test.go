package reconciler

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurorec/aurorec/config"
	"github.com/aurorec/aurorec/executor"
	"github.com/aurorec/aurorec/faults"
	"github.com/aurorec/aurorec/journal"
	"github.com/aurorec/aurorec/plan"
	"github.com/aurorec/aurorec/types"
)

// memProvider keeps cluster and instance state in memory and applies
// mutations instantly, so waits settle on the first poll.
type memProvider struct {
	clusters  map[string]*types.ObservedState
	instances map[string]*types.ObservedState
	mutations []string
}

func newMemProvider() *memProvider {
	return &memProvider{
		clusters:  make(map[string]*types.ObservedState),
		instances: make(map[string]*types.ObservedState),
	}
}

func (m *memProvider) FetchCluster(_ context.Context, id string) (*types.ObservedState, error) {
	state, ok := m.clusters[id]
	if !ok {
		return nil, nil
	}
	copied := *state
	copied.MemberInstanceIDs = nil
	for instanceID, instance := range m.instances {
		if instance.ClusterID == id {
			copied.MemberInstanceIDs = append(copied.MemberInstanceIDs, instanceID)
		}
	}
	sort.Strings(copied.MemberInstanceIDs)
	return &copied, nil
}

func (m *memProvider) FetchInstance(_ context.Context, id string) (*types.ObservedState, error) {
	state, ok := m.instances[id]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (m *memProvider) ListSnapshots(context.Context, types.SnapshotListFilter) ([]types.SnapshotRecord, error) {
	return nil, nil
}

func (m *memProvider) CreateCluster(_ context.Context, spec types.ClusterSpec) error {
	m.mutations = append(m.mutations, "create-cluster:"+spec.ClusterID)
	state := &types.ObservedState{
		Kind:             types.KindCluster,
		ID:               spec.ClusterID,
		ARN:              "arn:cluster:" + spec.ClusterID,
		Status:           types.StatusAvailable,
		Engine:           spec.Engine,
		EngineVersion:    spec.EngineVersion,
		DatabaseName:     spec.DatabaseName,
		MasterUsername:   spec.MasterUsername,
		SubnetGroup:      spec.SubnetGroup,
		OptionGroup:      spec.OptionGroup,
		SecurityGroupIDs: append([]string(nil), spec.SecurityGroupIDs...),
		Tags:             spec.Tags,
	}
	if spec.Port != nil {
		state.Port = *spec.Port
	}
	if spec.BackupRetention != nil {
		state.BackupRetention = *spec.BackupRetention
	}
	m.clusters[spec.ClusterID] = state
	return nil
}

func (m *memProvider) RestoreClusterFromSnapshot(ctx context.Context, spec types.ClusterSpec) error {
	m.mutations = append(m.mutations, "restore-cluster:"+spec.ClusterID)
	return m.CreateCluster(ctx, spec)
}

func (m *memProvider) ModifyCluster(_ context.Context, spec types.ClusterSpec, fields []string) error {
	m.mutations = append(m.mutations, "modify-cluster:"+spec.ClusterID)
	state := m.clusters[spec.ClusterID]
	for _, field := range fields {
		switch field {
		case types.FieldPort:
			state.Port = *spec.Port
		case types.FieldEngineVersion:
			state.EngineVersion = spec.EngineVersion
		case types.FieldSecurityGroupIDs:
			state.SecurityGroupIDs = append([]string(nil), spec.SecurityGroupIDs...)
		case types.FieldBackupRetention:
			state.BackupRetention = *spec.BackupRetention
		}
	}
	return nil
}

func (m *memProvider) DeleteCluster(_ context.Context, id string, _ bool, _ string) error {
	m.mutations = append(m.mutations, "delete-cluster:"+id)
	delete(m.clusters, id)
	return nil
}

func (m *memProvider) CreateInstance(_ context.Context, spec types.InstanceSpec) error {
	m.mutations = append(m.mutations, "create-instance:"+spec.InstanceID)
	m.instances[spec.InstanceID] = &types.ObservedState{
		Kind:          types.KindInstance,
		ID:            spec.InstanceID,
		ARN:           "arn:instance:" + spec.InstanceID,
		Status:        types.StatusAvailable,
		Engine:        spec.Engine,
		ClusterID:     spec.ClusterID,
		InstanceClass: spec.InstanceClass,
		Tags:          spec.Tags,
	}
	return nil
}

func (m *memProvider) ModifyInstance(_ context.Context, spec types.InstanceSpec, fields []string) error {
	m.mutations = append(m.mutations, "modify-instance:"+spec.InstanceID)
	state := m.instances[spec.InstanceID]
	for _, field := range fields {
		if field == types.FieldInstanceClass {
			state.InstanceClass = spec.InstanceClass
		}
	}
	return nil
}

func (m *memProvider) DeleteInstance(_ context.Context, id string) error {
	m.mutations = append(m.mutations, "delete-instance:"+id)
	delete(m.instances, id)
	return nil
}

func (m *memProvider) SyncTags(_ context.Context, arn string, _, desired map[string]string) error {
	m.mutations = append(m.mutations, "sync-tags:"+arn)
	for _, state := range m.clusters {
		if state.ARN == arn {
			state.Tags = desired
		}
	}
	for _, state := range m.instances {
		if state.ARN == arn {
			state.Tags = desired
		}
	}
	return nil
}

func (m *memProvider) Region() string { return "us-east-1" }

type instantClock struct{ now time.Time }

func (c *instantClock) Now() time.Time { return c.now }

func (c *instantClock) Sleep(_ context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
version: "1"
region: us-east-1
cluster:
  cluster_id: prod-aurora
  engine: aurora-mysql
  subnet_group: prod-subnets
  tags:
    Env: prod
instances:
  - instance_id: prod-aurora-1
    cluster_id: prod-aurora
    engine: aurora-mysql
    instance_class: db.r5.large
  - instance_id: prod-aurora-2
    cluster_id: prod-aurora
    engine: aurora-mysql
    instance_class: db.r5.large
`))
	require.NoError(t, err)
	return cfg
}

func newTestReconciler(t *testing.T, provider *memProvider, opts Options) (*Reconciler, *journal.Store) {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	opts.Waits = plan.DefaultWaitPolicy()
	opts.Executor = executor.Options{
		PollInterval:     time.Second,
		MaxAttempts:      3,
		RetryInitial:     time.Millisecond,
		RetryMaxInterval: 2 * time.Millisecond,
	}
	clock := &instantClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return New(provider, clock, zerolog.Nop(), opts, store, nil), store
}

func TestEnsureCreatesClusterThenInstances(t *testing.T) {
	provider := newMemProvider()
	r, store := newTestReconciler(t, provider, Options{})

	result, err := r.Ensure(context.Background(), testConfig(t))
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, plan.StateAvailable, result.State)
	require.Len(t, provider.mutations, 3)
	assert.Equal(t, "create-cluster:prod-aurora", provider.mutations[0],
		"cluster settles before any instance op")
	assert.Contains(t, provider.mutations, "create-instance:prod-aurora-1")
	assert.Contains(t, provider.mutations, "create-instance:prod-aurora-2")

	runs, err := store.List("", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3, "one journal entry per entity")
}

func TestEnsureIsIdempotent(t *testing.T) {
	provider := newMemProvider()
	r, _ := newTestReconciler(t, provider, Options{})
	cfg := testConfig(t)

	_, err := r.Ensure(context.Background(), cfg)
	require.NoError(t, err)
	mutationsAfterFirst := len(provider.mutations)

	result, err := r.Ensure(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, mutationsAfterFirst, len(provider.mutations),
		"a converged pass issues zero mutating calls")
}

func TestEnsureConvergesDrift(t *testing.T) {
	provider := newMemProvider()
	r, _ := newTestReconciler(t, provider, Options{})
	cfg := testConfig(t)

	_, err := r.Ensure(context.Background(), cfg)
	require.NoError(t, err)

	// Out-of-band port change and tag drift.
	provider.clusters["prod-aurora"].Port = 5432
	cfg.Cluster.Port = aws.Int32(3306)
	provider.clusters["prod-aurora"].Tags = map[string]string{"Env": "wrong"}

	result, err := r.Ensure(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Contains(t, provider.mutations, "modify-cluster:prod-aurora")
	assert.Contains(t, provider.mutations, "sync-tags:arn:cluster:prod-aurora")
	assert.Equal(t, int32(3306), provider.clusters["prod-aurora"].Port)
	assert.Equal(t, map[string]string{"Env": "prod"}, provider.clusters["prod-aurora"].Tags)
}

func TestEnsureReplacementRequiresOptIn(t *testing.T) {
	provider := newMemProvider()
	r, _ := newTestReconciler(t, provider, Options{})
	cfg := testConfig(t)

	_, err := r.Ensure(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Cluster.SubnetGroup = "other-subnets"
	result, err := r.Ensure(context.Background(), cfg)

	require.Error(t, err)
	assert.True(t, faults.IsConflict(err))
	assert.Contains(t, result.Error, "replacement")
}

func TestDestroyRemovesInstancesBeforeCluster(t *testing.T) {
	provider := newMemProvider()
	r, _ := newTestReconciler(t, provider, Options{SkipFinalSnapshot: true})
	cfg := testConfig(t)

	_, err := r.Ensure(context.Background(), cfg)
	require.NoError(t, err)
	provider.mutations = nil

	result, err := r.Destroy(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, plan.StateAbsent, result.State)
	require.Equal(t, []string{
		"delete-instance:prod-aurora-1",
		"delete-instance:prod-aurora-2",
		"delete-cluster:prod-aurora",
	}, provider.mutations)
	assert.Empty(t, provider.clusters)
	assert.Empty(t, provider.instances)
}

func TestDestroyAbsentClusterIsNoop(t *testing.T) {
	provider := newMemProvider()
	r, _ := newTestReconciler(t, provider, Options{})

	result, err := r.Destroy(context.Background(), testConfig(t))
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Empty(t, provider.mutations)
}
