package types

import "time"

// EntityKind identifies which kind of remote entity a record describes.
type EntityKind string

const (
	KindCluster  EntityKind = "cluster"
	KindInstance EntityKind = "instance"
)

// Status is the lifecycle status the provider reports for an entity.
type Status string

const (
	StatusCreating  Status = "creating"
	StatusAvailable Status = "available"
	StatusModifying Status = "modifying"
	StatusDeleting  Status = "deleting"
	StatusFailed    Status = "failed"
	StatusBackingUp Status = "backing-up"
	StatusUnknown   Status = "unknown"
)

// ParseStatus normalizes a provider status string into the closed status set.
// Anything unrecognized maps to StatusUnknown rather than failing.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusCreating, StatusAvailable, StatusModifying, StatusDeleting,
		StatusFailed, StatusBackingUp:
		return Status(s)
	default:
		return StatusUnknown
	}
}

// Settled reports whether the provider has stopped transitioning this entity.
func (s Status) Settled() bool {
	return s == StatusAvailable || s == StatusFailed
}

// ObservedState is a point-in-time view of a cluster or instance as reported
// by the provider. It is fetched fresh every reconciliation run and never
// cached across runs.
type ObservedState struct {
	Kind   EntityKind `json:"kind"`
	ID     string     `json:"id"`
	ARN    string     `json:"arn,omitempty"`
	Status Status     `json:"status"`

	Engine         string `json:"engine,omitempty"`
	EngineVersion  string `json:"engine_version,omitempty"`
	Port           int32  `json:"port,omitempty"`
	DatabaseName   string `json:"database_name,omitempty"`
	MasterUsername string `json:"master_username,omitempty"`
	SubnetGroup    string `json:"subnet_group,omitempty"`
	OptionGroup    string `json:"option_group,omitempty"`

	// Cluster-only fields.
	AvailabilityZones []string `json:"availability_zones,omitempty"`
	SecurityGroupIDs  []string `json:"security_group_ids,omitempty"`
	BackupRetention   int32    `json:"backup_retention,omitempty"`
	Endpoint          string   `json:"endpoint,omitempty"`
	ReaderEndpoint    string   `json:"reader_endpoint,omitempty"`
	MemberInstanceIDs []string `json:"member_instance_ids,omitempty"`

	// Instance-only fields.
	ClusterID               string   `json:"cluster_id,omitempty"`
	InstanceClass           string   `json:"instance_class,omitempty"`
	AvailabilityZone        string   `json:"availability_zone,omitempty"`
	PromotionTier           int32    `json:"promotion_tier,omitempty"`
	MultiAZ                 bool     `json:"multi_az,omitempty"`
	PubliclyAccessible      bool     `json:"publicly_accessible,omitempty"`
	AutoMinorVersionUpgrade bool     `json:"auto_minor_version_upgrade,omitempty"`
	CopyTagsToSnapshot      bool     `json:"copy_tags_to_snapshot,omitempty"`
	MonitoringInterval      int32    `json:"monitoring_interval,omitempty"`
	MonitoringRoleARN       string   `json:"monitoring_role_arn,omitempty"`
	PerformanceInsights     bool     `json:"performance_insights,omitempty"`
	CloudwatchLogsExports   []string `json:"cloudwatch_logs_exports,omitempty"`
	ParameterGroup          string   `json:"parameter_group,omitempty"`
	MaintenanceWindow       string   `json:"maintenance_window,omitempty"`

	Tags       map[string]string `json:"tags,omitempty"`
	ObservedAt time.Time         `json:"observed_at"`
}
