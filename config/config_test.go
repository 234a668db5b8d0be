package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurorec/aurorec/faults"
)

const validConfig = `
version: "1"
region: us-east-1
cluster:
  cluster_id: prod-aurora
  engine: aurora-mysql
  subnet_group: prod-subnets
  vpc_security_group_ids:
    - sg-1
    - sg-2
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
wait:
  poll_interval: 2s
  cluster_timeout: 15m
retry:
  max_attempts: 7
`

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Region)
	require.NotNil(t, cfg.Cluster)
	assert.Equal(t, "prod-aurora", cfg.Cluster.ClusterID)
	assert.Equal(t, []string{"sg-1", "sg-2"}, cfg.Cluster.SecurityGroupIDs)
	assert.Len(t, cfg.Instances, 2)
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Wait.PollInterval.Std(), "explicit value kept")
	assert.Equal(t, 15*time.Minute, cfg.Wait.ClusterTimeout.Std(), "explicit value kept")
	assert.Equal(t, 60*time.Minute, cfg.Wait.RestoreTimeout.Std(), "defaulted")
	assert.Equal(t, uint(7), cfg.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.InitialInterval.Std(), "defaulted")
	assert.NotEmpty(t, cfg.Journal.Path)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
version: "1"
region: us-east-1
clster:
  cluster_id: typo
`))

	require.Error(t, err)
	assert.True(t, faults.IsValidation(err))
}

func TestParseRequiresVersionAndRegion(t *testing.T) {
	_, err := Parse([]byte(`version: "1"`))
	require.Error(t, err)
	assert.True(t, faults.IsValidation(err))
}

func TestParseRequiresClusterIdentity(t *testing.T) {
	_, err := Parse([]byte(`
version: "1"
region: us-east-1
cluster:
  engine: aurora-mysql
`))

	require.Error(t, err)
	assert.True(t, faults.IsValidation(err))
}

func TestParseRejectsDuplicateInstances(t *testing.T) {
	_, err := Parse([]byte(`
version: "1"
region: us-east-1
instances:
  - instance_id: dup
    cluster_id: prod-aurora
    engine: aurora-mysql
    instance_class: db.r5.large
  - instance_id: dup
    cluster_id: prod-aurora
    engine: aurora-mysql
    instance_class: db.r5.large
`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate instance_id")
}

func TestParseRejectsForeignClusterReference(t *testing.T) {
	_, err := Parse([]byte(`
version: "1"
region: us-east-1
cluster:
  cluster_id: prod-aurora
  engine: aurora-mysql
instances:
  - instance_id: stray
    cluster_id: other-cluster
    engine: aurora-mysql
    instance_class: db.r5.large
`))

	require.Error(t, err)
	assert.True(t, faults.IsValidation(err))
	assert.Contains(t, err.Error(), "other-cluster")
}

func TestMasterPasswordFromEnv(t *testing.T) {
	t.Setenv(MasterPasswordEnv, "hunter2")

	cfg, err := Parse([]byte(`
version: "1"
region: us-east-1
cluster:
  cluster_id: prod-aurora
  engine: aurora-mysql
`))
	require.NoError(t, err)

	assert.Equal(t, "hunter2", cfg.Cluster.MasterPassword)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aurorec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod-aurora", cfg.Cluster.ClusterID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	waits := cfg.WaitPolicy()
	assert.Equal(t, 15*time.Minute, waits.ClusterTimeout)

	opts := cfg.ExecutorOptions()
	assert.Equal(t, 2*time.Second, opts.PollInterval)
	assert.Equal(t, uint(7), opts.MaxAttempts)
}
