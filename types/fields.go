package types

// Canonical field names used in DiffResult maps and modify calls. Shared
// between the diff engine and the provider so a planned field name always
// maps to the same API parameter.
const (
	FieldEngine                  = "engine"
	FieldEngineVersion           = "engine_version"
	FieldPort                    = "port"
	FieldDatabaseName            = "database_name"
	FieldMasterUsername          = "master_username"
	FieldSubnetGroup             = "subnet_group"
	FieldOptionGroup             = "option_group"
	FieldAvailabilityZones       = "availability_zones"
	FieldSecurityGroupIDs        = "security_group_ids"
	FieldBackupRetention         = "backup_retention"
	FieldTags                    = "tags"
	FieldClusterID               = "cluster_id"
	FieldInstanceClass           = "instance_class"
	FieldAvailabilityZone        = "availability_zone"
	FieldPromotionTier           = "promotion_tier"
	FieldMultiAZ                 = "multi_az"
	FieldPubliclyAccessible      = "publicly_accessible"
	FieldAutoMinorVersionUpgrade = "auto_minor_version_upgrade"
	FieldCopyTagsToSnapshot      = "copy_tags_to_snapshot"
	FieldMonitoringInterval      = "monitoring_interval"
	FieldMonitoringRoleARN       = "monitoring_role_arn"
	FieldPerformanceInsights     = "performance_insights"
	FieldCloudwatchLogsExports   = "cloudwatch_logs_exports"
	FieldParameterGroup          = "parameter_group"
	FieldMaintenanceWindow       = "maintenance_window"
)
