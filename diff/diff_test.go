package diff

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"

	"github.com/aurorec/aurorec/types"
)

func availableCluster() *types.ObservedState {
	return &types.ObservedState{
		Kind:             types.KindCluster,
		ID:               "prod-aurora",
		Status:           types.StatusAvailable,
		Engine:           "aurora",
		EngineVersion:    "5.6.10a",
		Port:             3306,
		SubnetGroup:      "prod-subnets",
		SecurityGroupIDs: []string{"sg-1", "sg-2"},
		Tags:             map[string]string{"Env": "prod"},
	}
}

func TestClusterDiffConverged(t *testing.T) {
	var engine Engine
	desired := types.ClusterSpec{
		ClusterID:        "prod-aurora",
		Engine:           "aurora",
		SubnetGroup:      "prod-subnets",
		Port:             aws.Int32(3306),
		SecurityGroupIDs: []string{"sg-2", "sg-1"}, // order must not matter
		Tags:             map[string]string{"Env": "prod"},
	}

	result := engine.Cluster(desired, availableCluster())

	assert.True(t, result.Empty())
	assert.Equal(t, types.FieldUnchanged, result.Fields[types.FieldSecurityGroupIDs])
	assert.Equal(t, types.FieldIgnored, result.Fields[types.FieldEngineVersion], "unset fields are unmanaged")
}

func TestClusterDiffNeedsUpdate(t *testing.T) {
	var engine Engine
	desired := types.ClusterSpec{
		ClusterID:        "prod-aurora",
		Engine:           "aurora",
		SubnetGroup:      "prod-subnets",
		Port:             aws.Int32(3307),
		SecurityGroupIDs: []string{"sg-1", "sg-3"},
	}

	result := engine.Cluster(desired, availableCluster())

	assert.False(t, result.Empty())
	assert.False(t, result.RequiresReplacement())
	assert.Equal(t, []string{types.FieldPort, types.FieldSecurityGroupIDs}, result.UpdatedFields())
}

func TestClusterDiffReplacementShortCircuitsUpdates(t *testing.T) {
	var engine Engine
	desired := types.ClusterSpec{
		ClusterID:   "prod-aurora",
		Engine:      "aurora",
		SubnetGroup: "other-subnets", // immutable
		Port:        aws.Int32(3307), // would otherwise be an update
	}

	result := engine.Cluster(desired, availableCluster())

	assert.True(t, result.RequiresReplacement())
	assert.Equal(t, []string{types.FieldSubnetGroup}, result.ReplacementFields())
	assert.Empty(t, result.UpdatedFields(), "updates are ignored once replacement is pending")
	assert.Equal(t, types.FieldIgnored, result.Fields[types.FieldPort])
}

func TestClusterDiffAbsentObservedIsCreate(t *testing.T) {
	var engine Engine
	desired := types.ClusterSpec{
		ClusterID:   "new-cluster",
		Engine:      "aurora",
		SubnetGroup: "prod-subnets",
		Tags:        map[string]string{"Env": "staging"},
	}

	result := engine.Cluster(desired, nil)

	assert.True(t, result.Create)
	assert.False(t, result.Empty())
	assert.Equal(t, types.FieldNeedsUpdate, result.Fields[types.FieldEngine])
	assert.Equal(t, types.FieldNeedsUpdate, result.Fields[types.FieldTags])
	assert.NotContains(t, result.Fields, types.FieldPort, "unset fields stay out of a create diff")
}

func TestClusterDiffTagDrift(t *testing.T) {
	var engine Engine
	desired := types.ClusterSpec{
		ClusterID:   "prod-aurora",
		Engine:      "aurora",
		SubnetGroup: "prod-subnets",
		Tags:        map[string]string{"Env": "staging"},
	}

	result := engine.Cluster(desired, availableCluster())

	assert.Equal(t, types.FieldNeedsUpdate, result.Fields[types.FieldTags])
}

func availableInstance() *types.ObservedState {
	return &types.ObservedState{
		Kind:             types.KindInstance,
		ID:               "prod-aurora-1",
		Status:           types.StatusAvailable,
		Engine:           "aurora",
		ClusterID:        "prod-aurora",
		InstanceClass:    "db.t2.small",
		AvailabilityZone: "us-east-1a",
		PromotionTier:    1,
	}
}

func TestInstanceDiffClassChange(t *testing.T) {
	var engine Engine
	desired := types.InstanceSpec{
		InstanceID:    "prod-aurora-1",
		ClusterID:     "prod-aurora",
		Engine:        "aurora",
		InstanceClass: "db.r4.large",
	}

	result := engine.Instance(desired, availableInstance())

	assert.Equal(t, []string{types.FieldInstanceClass}, result.UpdatedFields())
	assert.False(t, result.RequiresReplacement())
}

func TestInstanceDiffAZMoveRequiresReplacement(t *testing.T) {
	var engine Engine
	desired := types.InstanceSpec{
		InstanceID:       "prod-aurora-1",
		ClusterID:        "prod-aurora",
		Engine:           "aurora",
		InstanceClass:    "db.r4.large",
		AvailabilityZone: "us-east-1c",
	}

	result := engine.Instance(desired, availableInstance())

	assert.True(t, result.RequiresReplacement())
	assert.Equal(t, []string{types.FieldAvailabilityZone}, result.ReplacementFields())
	assert.Empty(t, result.UpdatedFields())
}

func TestInstanceDiffReparentRequiresReplacement(t *testing.T) {
	var engine Engine
	desired := types.InstanceSpec{
		InstanceID:    "prod-aurora-1",
		ClusterID:     "other-cluster",
		Engine:        "aurora",
		InstanceClass: "db.t2.small",
	}

	result := engine.Instance(desired, availableInstance())

	assert.Equal(t, []string{types.FieldClusterID}, result.ReplacementFields())
}

func TestInstanceDiffMonitoringToggle(t *testing.T) {
	var engine Engine
	desired := types.InstanceSpec{
		InstanceID:         "prod-aurora-1",
		ClusterID:          "prod-aurora",
		Engine:             "aurora",
		InstanceClass:      "db.t2.small",
		MonitoringInterval: aws.Int32(60),
		MonitoringRoleARN:  "arn:aws:iam::123456789:role/rds-monitoring",
	}

	result := engine.Instance(desired, availableInstance())

	assert.Equal(t,
		[]string{types.FieldMonitoringInterval, types.FieldMonitoringRoleARN},
		result.UpdatedFields())
}

func TestSameStringSet(t *testing.T) {
	assert.True(t, sameStringSet(nil, nil))
	assert.True(t, sameStringSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, sameStringSet([]string{"a"}, []string{"a", "a"}))
	assert.False(t, sameStringSet([]string{"a"}, []string{"b"}))
}
