// Package diff computes field-level deltas between a desired spec and the
// observed remote state, classified against static per-entity mutability
// tables. Fields the spec leaves unset are unmanaged and never diffed.
package diff

import (
	"sort"

	"github.com/aurorec/aurorec/types"
)

// Engine performs desired-vs-observed comparison. It is stateless; a zero
// value is ready to use.
type Engine struct{}

// fieldDiff describes one managed field: whether the spec sets it and
// whether desired and observed agree.
type fieldDiff struct {
	name  string
	set   bool
	equal func() bool
}

// Cluster diffs a cluster spec against its observed state. A nil observed
// state yields a synthetic create diff covering every set field.
func (Engine) Cluster(desired types.ClusterSpec, observed *types.ObservedState) types.DiffResult {
	fields := []fieldDiff{
		{types.FieldEngine, desired.Engine != "", func() bool { return desired.Engine == observed.Engine }},
		{types.FieldEngineVersion, desired.EngineVersion != "", func() bool { return desired.EngineVersion == observed.EngineVersion }},
		{types.FieldPort, desired.Port != nil, func() bool { return *desired.Port == observed.Port }},
		{types.FieldDatabaseName, desired.DatabaseName != "", func() bool { return desired.DatabaseName == observed.DatabaseName }},
		{types.FieldMasterUsername, desired.MasterUsername != "", func() bool { return desired.MasterUsername == observed.MasterUsername }},
		{types.FieldSubnetGroup, desired.SubnetGroup != "", func() bool { return desired.SubnetGroup == observed.SubnetGroup }},
		{types.FieldOptionGroup, desired.OptionGroup != "", func() bool { return desired.OptionGroup == observed.OptionGroup }},
		{types.FieldAvailabilityZones, len(desired.AvailabilityZones) > 0, func() bool {
			return sameStringSet(desired.AvailabilityZones, observed.AvailabilityZones)
		}},
		{types.FieldSecurityGroupIDs, len(desired.SecurityGroupIDs) > 0, func() bool {
			return sameStringSet(desired.SecurityGroupIDs, observed.SecurityGroupIDs)
		}},
		{types.FieldBackupRetention, desired.BackupRetention != nil, func() bool { return *desired.BackupRetention == observed.BackupRetention }},
		{types.FieldTags, desired.Tags != nil, func() bool { return sameTags(desired.Tags, observed.Tags) }},
	}

	return build(types.KindCluster, desired.ClusterID, clusterPolicy, fields, observed)
}

// Instance diffs an instance spec against its observed state.
func (Engine) Instance(desired types.InstanceSpec, observed *types.ObservedState) types.DiffResult {
	fields := []fieldDiff{
		{types.FieldEngine, desired.Engine != "", func() bool { return desired.Engine == observed.Engine }},
		{types.FieldClusterID, desired.ClusterID != "", func() bool { return desired.ClusterID == observed.ClusterID }},
		{types.FieldSubnetGroup, desired.SubnetGroup != "", func() bool { return desired.SubnetGroup == observed.SubnetGroup }},
		{types.FieldAvailabilityZone, desired.AvailabilityZone != "", func() bool { return desired.AvailabilityZone == observed.AvailabilityZone }},
		{types.FieldInstanceClass, desired.InstanceClass != "", func() bool { return desired.InstanceClass == observed.InstanceClass }},
		{types.FieldPromotionTier, desired.PromotionTier != nil, func() bool { return *desired.PromotionTier == observed.PromotionTier }},
		{types.FieldMultiAZ, desired.MultiAZ, func() bool { return desired.MultiAZ == observed.MultiAZ }},
		{types.FieldPubliclyAccessible, desired.PubliclyAccessible, func() bool { return desired.PubliclyAccessible == observed.PubliclyAccessible }},
		{types.FieldAutoMinorVersionUpgrade, desired.AutoMinorVersionUpgrade != nil, func() bool {
			return *desired.AutoMinorVersionUpgrade == observed.AutoMinorVersionUpgrade
		}},
		{types.FieldCopyTagsToSnapshot, desired.CopyTagsToSnapshot != nil, func() bool {
			return *desired.CopyTagsToSnapshot == observed.CopyTagsToSnapshot
		}},
		{types.FieldMonitoringInterval, desired.MonitoringInterval != nil, func() bool {
			return *desired.MonitoringInterval == observed.MonitoringInterval
		}},
		{types.FieldMonitoringRoleARN, desired.MonitoringRoleARN != "", func() bool { return desired.MonitoringRoleARN == observed.MonitoringRoleARN }},
		{types.FieldPerformanceInsights, desired.PerformanceInsights != nil, func() bool {
			return *desired.PerformanceInsights == observed.PerformanceInsights
		}},
		{types.FieldCloudwatchLogsExports, len(desired.CloudwatchLogsExports) > 0, func() bool {
			return sameStringSet(desired.CloudwatchLogsExports, observed.CloudwatchLogsExports)
		}},
		{types.FieldParameterGroup, desired.ParameterGroup != "", func() bool { return desired.ParameterGroup == observed.ParameterGroup }},
		{types.FieldOptionGroup, desired.OptionGroup != "", func() bool { return desired.OptionGroup == observed.OptionGroup }},
		{types.FieldMaintenanceWindow, desired.MaintenanceWindow != "", func() bool { return desired.MaintenanceWindow == observed.MaintenanceWindow }},
		{types.FieldTags, desired.Tags != nil, func() bool { return sameTags(desired.Tags, observed.Tags) }},
	}

	return build(types.KindInstance, desired.InstanceID, instancePolicy, fields, observed)
}

// build assembles the DiffResult and applies the replacement tie-break:
// once any field requires replacement, pending updates are pointless and
// get demoted to ignored.
func build(kind types.EntityKind, id string, policy map[string]Mutability, fields []fieldDiff, observed *types.ObservedState) types.DiffResult {
	result := types.DiffResult{
		Kind:   kind,
		ID:     id,
		Fields: make(map[string]types.FieldState),
	}

	if observed == nil {
		result.Create = true
		for _, f := range fields {
			if f.set {
				result.Fields[f.name] = types.FieldNeedsUpdate
			}
		}
		return result
	}

	for _, f := range fields {
		switch {
		case !f.set:
			result.Fields[f.name] = types.FieldIgnored
		case f.equal():
			result.Fields[f.name] = types.FieldUnchanged
		case policy[f.name] == Immutable:
			result.Fields[f.name] = types.FieldRequiresReplacement
		default:
			result.Fields[f.name] = types.FieldNeedsUpdate
		}
	}

	if result.RequiresReplacement() {
		for name, state := range result.Fields {
			if state == types.FieldNeedsUpdate {
				result.Fields[name] = types.FieldIgnored
			}
		}
	}

	return result
}

// sameStringSet compares two slices ignoring order.
func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// sameTags compares tag maps. A desired empty map means "no tags", so a
// remote tag set that is non-empty still counts as drift.
func sameTags(desired, observed map[string]string) bool {
	if len(desired) != len(observed) {
		return false
	}
	for key, value := range desired {
		if observed[key] != value {
			return false
		}
	}
	return true
}
