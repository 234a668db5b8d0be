package types

import "time"

// ClusterSpec is the desired configuration for a managed database cluster.
// The identifier is immutable once the cluster exists. Optional fields left
// at their zero value are not managed and never diffed.
type ClusterSpec struct {
	ClusterID         string            `yaml:"cluster_id" json:"cluster_id" validate:"required"`
	Engine            string            `yaml:"engine" json:"engine" validate:"required"`
	EngineVersion     string            `yaml:"engine_version,omitempty" json:"engine_version,omitempty"`
	Port              *int32            `yaml:"port,omitempty" json:"port,omitempty"`
	DatabaseName      string            `yaml:"database_name,omitempty" json:"database_name,omitempty"`
	MasterUsername    string            `yaml:"master_username,omitempty" json:"master_username,omitempty"`
	MasterPassword    string            `yaml:"master_password,omitempty" json:"-"`
	SubnetGroup       string            `yaml:"subnet_group" json:"subnet_group"`
	OptionGroup       string            `yaml:"option_group,omitempty" json:"option_group,omitempty"`
	AvailabilityZones []string          `yaml:"availability_zones,omitempty" json:"availability_zones,omitempty"`
	SecurityGroupIDs  []string          `yaml:"vpc_security_group_ids,omitempty" json:"vpc_security_group_ids,omitempty"`
	BackupRetention   *int32            `yaml:"backup_retention,omitempty" json:"backup_retention,omitempty"`
	Tags              map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// SnapshotARN selects restore-from-snapshot instead of a plain create
	// when the cluster does not exist yet.
	SnapshotARN string `yaml:"snapshot_arn,omitempty" json:"snapshot_arn,omitempty"`
}

// InstanceSpec is the desired configuration for a single cluster instance.
// An instance holds a weak reference to its owning cluster by identifier.
type InstanceSpec struct {
	InstanceID              string            `yaml:"instance_id" json:"instance_id" validate:"required"`
	ClusterID               string            `yaml:"cluster_id" json:"cluster_id" validate:"required"`
	Engine                  string            `yaml:"engine" json:"engine" validate:"required"`
	InstanceClass           string            `yaml:"instance_class" json:"instance_class" validate:"required"`
	SubnetGroup             string            `yaml:"subnet_group,omitempty" json:"subnet_group,omitempty"`
	AvailabilityZone        string            `yaml:"availability_zone,omitempty" json:"availability_zone,omitempty"`
	PromotionTier           *int32            `yaml:"promotion_tier,omitempty" json:"promotion_tier,omitempty"`
	MultiAZ                 bool              `yaml:"multi_az,omitempty" json:"multi_az,omitempty"`
	PubliclyAccessible      bool              `yaml:"publicly_accessible,omitempty" json:"publicly_accessible,omitempty"`
	AutoMinorVersionUpgrade *bool             `yaml:"auto_minor_version_upgrade,omitempty" json:"auto_minor_version_upgrade,omitempty"`
	CopyTagsToSnapshot      *bool             `yaml:"copy_tags_to_snapshot,omitempty" json:"copy_tags_to_snapshot,omitempty"`
	MonitoringInterval      *int32            `yaml:"monitoring_interval,omitempty" json:"monitoring_interval,omitempty"`
	MonitoringRoleARN       string            `yaml:"monitoring_role_arn,omitempty" json:"monitoring_role_arn,omitempty"`
	PerformanceInsights     *bool             `yaml:"performance_insights,omitempty" json:"performance_insights,omitempty"`
	CloudwatchLogsExports   []string          `yaml:"cloudwatch_logs_exports,omitempty" json:"cloudwatch_logs_exports,omitempty"`
	ParameterGroup          string            `yaml:"parameter_group,omitempty" json:"parameter_group,omitempty"`
	OptionGroup             string            `yaml:"option_group,omitempty" json:"option_group,omitempty"`
	MaintenanceWindow       string            `yaml:"preferred_maintenance_window,omitempty" json:"preferred_maintenance_window,omitempty"`
	Tags                    map[string]string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// ApplyImmediately controls whether in-place modifications take effect
	// now or during the next maintenance window.
	ApplyImmediately bool `yaml:"apply_immediately,omitempty" json:"apply_immediately,omitempty"`
}

// SnapshotRecord describes a point-in-time cluster backup. Records are
// read-only from this system's perspective: queried and filtered, never
// mutated.
type SnapshotRecord struct {
	SnapshotID         string    `json:"snapshot_id"`
	ClusterID          string    `json:"cluster_id"`
	ARN                string    `json:"arn,omitempty"`
	Type               string    `json:"snapshot_type,omitempty"`
	Status             string    `json:"status"`
	Engine             string    `json:"engine,omitempty"`
	EngineVersion      string    `json:"engine_version,omitempty"`
	LicenseModel       string    `json:"license_model,omitempty"`
	Port               int32     `json:"port,omitempty"`
	VpcID              string    `json:"vpc_id,omitempty"`
	AvailabilityZones  []string  `json:"availability_zones,omitempty"`
	AllocatedStorage   int32     `json:"allocated_storage,omitempty"`
	PercentProgress    int32     `json:"percent_progress,omitempty"`
	StorageEncrypted   bool      `json:"storage_encrypted,omitempty"`
	KMSKeyID           string    `json:"kms_key_id,omitempty"`
	SourceSnapshotARN  string    `json:"source_snapshot_arn,omitempty"`
	MasterUsername     string    `json:"master_username,omitempty"`
	IAMAuthEnabled     bool      `json:"iam_database_authentication_enabled,omitempty"`
	ClusterCreateTime  time.Time `json:"cluster_create_time,omitempty"`
	SnapshotCreateTime time.Time `json:"snapshot_create_time,omitempty"`
}

// SnapshotListFilter narrows a provider-side snapshot listing. SnapshotID
// and ClusterID are mutually exclusive.
type SnapshotListFilter struct {
	SnapshotID string
	ClusterID  string
	Type       string
	MaxRecords int32
}
