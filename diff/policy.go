package diff

import "github.com/aurorec/aurorec/types"

// Mutability classifies how a managed field may change once the entity
// exists.
type Mutability int

const (
	// Updatable fields converge with an in-place modify call.
	Updatable Mutability = iota
	// Immutable fields can only converge by destroying and recreating the
	// entity.
	Immutable
)

// clusterPolicy is the static mutability table for cluster fields.
var clusterPolicy = map[string]Mutability{
	types.FieldEngine:            Immutable,
	types.FieldEngineVersion:     Updatable,
	types.FieldPort:              Updatable,
	types.FieldDatabaseName:      Immutable,
	types.FieldMasterUsername:    Immutable,
	types.FieldSubnetGroup:       Immutable,
	types.FieldOptionGroup:       Updatable,
	types.FieldAvailabilityZones: Immutable,
	types.FieldSecurityGroupIDs:  Updatable,
	types.FieldBackupRetention:   Updatable,
	types.FieldTags:              Updatable,
}

// instancePolicy is the static mutability table for instance fields.
// The availability zone is pinned at create time, so moving an instance
// means replacing it.
var instancePolicy = map[string]Mutability{
	types.FieldEngine:                  Immutable,
	types.FieldClusterID:               Immutable,
	types.FieldSubnetGroup:             Immutable,
	types.FieldAvailabilityZone:        Immutable,
	types.FieldInstanceClass:           Updatable,
	types.FieldPromotionTier:           Updatable,
	types.FieldMultiAZ:                 Updatable,
	types.FieldPubliclyAccessible:      Updatable,
	types.FieldAutoMinorVersionUpgrade: Updatable,
	types.FieldCopyTagsToSnapshot:      Updatable,
	types.FieldMonitoringInterval:      Updatable,
	types.FieldMonitoringRoleARN:       Updatable,
	types.FieldPerformanceInsights:     Updatable,
	types.FieldCloudwatchLogsExports:   Updatable,
	types.FieldParameterGroup:          Updatable,
	types.FieldOptionGroup:             Updatable,
	types.FieldMaintenanceWindow:       Updatable,
	types.FieldTags:                    Updatable,
}
