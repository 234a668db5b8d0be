package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/aurorec/aurorec/types"
)

// CreateCluster provisions a new cluster from scratch.
func (p *Provider) CreateCluster(ctx context.Context, spec types.ClusterSpec) error {
	input := &rds.CreateDBClusterInput{
		DBClusterIdentifier: aws.String(spec.ClusterID),
		Engine:              aws.String(spec.Engine),
		DBSubnetGroupName:   aws.String(spec.SubnetGroup),
	}
	if spec.EngineVersion != "" {
		input.EngineVersion = aws.String(spec.EngineVersion)
	}
	if spec.Port != nil {
		input.Port = spec.Port
	}
	if spec.DatabaseName != "" {
		input.DatabaseName = aws.String(spec.DatabaseName)
	}
	if spec.MasterUsername != "" {
		input.MasterUsername = aws.String(spec.MasterUsername)
	}
	if spec.MasterPassword != "" {
		input.MasterUserPassword = aws.String(spec.MasterPassword)
	}
	if spec.OptionGroup != "" {
		input.OptionGroupName = aws.String(spec.OptionGroup)
	}
	if len(spec.AvailabilityZones) > 0 {
		input.AvailabilityZones = spec.AvailabilityZones
	}
	if len(spec.SecurityGroupIDs) > 0 {
		input.VpcSecurityGroupIds = spec.SecurityGroupIDs
	}
	if spec.BackupRetention != nil {
		input.BackupRetentionPeriod = spec.BackupRetention
	}
	input.Tags = buildTagList(spec.Tags)

	_, err := p.api.CreateDBCluster(ctx, input)
	return classify(err, spec.ClusterID, "create cluster")
}

// RestoreClusterFromSnapshot provisions a cluster from the snapshot named
// in the spec. Engine version, port, and database name default to the
// snapshot's values when unset.
func (p *Provider) RestoreClusterFromSnapshot(ctx context.Context, spec types.ClusterSpec) error {
	input := &rds.RestoreDBClusterFromSnapshotInput{
		DBClusterIdentifier: aws.String(spec.ClusterID),
		SnapshotIdentifier:  aws.String(spec.SnapshotARN),
		Engine:              aws.String(spec.Engine),
		DBSubnetGroupName:   aws.String(spec.SubnetGroup),
	}
	if spec.EngineVersion != "" {
		input.EngineVersion = aws.String(spec.EngineVersion)
	}
	if spec.Port != nil {
		input.Port = spec.Port
	}
	if spec.DatabaseName != "" {
		input.DatabaseName = aws.String(spec.DatabaseName)
	}
	if spec.OptionGroup != "" {
		input.OptionGroupName = aws.String(spec.OptionGroup)
	}
	if len(spec.AvailabilityZones) > 0 {
		input.AvailabilityZones = spec.AvailabilityZones
	}
	if len(spec.SecurityGroupIDs) > 0 {
		input.VpcSecurityGroupIds = spec.SecurityGroupIDs
	}
	input.Tags = buildTagList(spec.Tags)

	_, err := p.api.RestoreDBClusterFromSnapshot(ctx, input)
	return classify(err, spec.ClusterID, "restore cluster from snapshot")
}

// ModifyCluster applies in-place updates for the named fields only.
func (p *Provider) ModifyCluster(ctx context.Context, spec types.ClusterSpec, fields []string) error {
	input := &rds.ModifyDBClusterInput{
		DBClusterIdentifier: aws.String(spec.ClusterID),
		ApplyImmediately:    aws.Bool(true),
	}
	for _, field := range fields {
		switch field {
		case types.FieldEngineVersion:
			input.EngineVersion = aws.String(spec.EngineVersion)
		case types.FieldPort:
			input.Port = spec.Port
		case types.FieldOptionGroup:
			input.OptionGroupName = aws.String(spec.OptionGroup)
		case types.FieldSecurityGroupIDs:
			input.VpcSecurityGroupIds = spec.SecurityGroupIDs
		case types.FieldBackupRetention:
			input.BackupRetentionPeriod = spec.BackupRetention
		}
	}

	_, err := p.api.ModifyDBCluster(ctx, input)
	return classify(err, spec.ClusterID, "modify cluster")
}

// DeleteCluster tears a cluster down, optionally taking a final snapshot.
func (p *Provider) DeleteCluster(ctx context.Context, id string, skipFinalSnapshot bool, finalSnapshotID string) error {
	input := &rds.DeleteDBClusterInput{
		DBClusterIdentifier: aws.String(id),
		SkipFinalSnapshot:   aws.Bool(skipFinalSnapshot),
	}
	if !skipFinalSnapshot && finalSnapshotID != "" {
		input.FinalDBSnapshotIdentifier = aws.String(finalSnapshotID)
	}

	_, err := p.api.DeleteDBCluster(ctx, input)
	return classify(err, id, "delete cluster")
}

// CreateInstance provisions an instance attached to its owning cluster.
func (p *Provider) CreateInstance(ctx context.Context, spec types.InstanceSpec) error {
	input := &rds.CreateDBInstanceInput{
		DBInstanceIdentifier: aws.String(spec.InstanceID),
		DBClusterIdentifier:  aws.String(spec.ClusterID),
		Engine:               aws.String(spec.Engine),
		DBInstanceClass:      aws.String(spec.InstanceClass),
	}
	if spec.SubnetGroup != "" {
		input.DBSubnetGroupName = aws.String(spec.SubnetGroup)
	}
	if spec.AvailabilityZone != "" {
		input.AvailabilityZone = aws.String(spec.AvailabilityZone)
	}
	if spec.PromotionTier != nil {
		input.PromotionTier = spec.PromotionTier
	}
	if spec.MultiAZ {
		input.MultiAZ = aws.Bool(true)
	}
	if spec.PubliclyAccessible {
		input.PubliclyAccessible = aws.Bool(true)
	}
	if spec.AutoMinorVersionUpgrade != nil {
		input.AutoMinorVersionUpgrade = spec.AutoMinorVersionUpgrade
	}
	if spec.CopyTagsToSnapshot != nil {
		input.CopyTagsToSnapshot = spec.CopyTagsToSnapshot
	}
	if spec.MonitoringInterval != nil {
		input.MonitoringInterval = spec.MonitoringInterval
	}
	if spec.MonitoringRoleARN != "" {
		input.MonitoringRoleArn = aws.String(spec.MonitoringRoleARN)
	}
	if spec.PerformanceInsights != nil {
		input.EnablePerformanceInsights = spec.PerformanceInsights
	}
	if len(spec.CloudwatchLogsExports) > 0 {
		input.EnableCloudwatchLogsExports = spec.CloudwatchLogsExports
	}
	if spec.ParameterGroup != "" {
		input.DBParameterGroupName = aws.String(spec.ParameterGroup)
	}
	if spec.OptionGroup != "" {
		input.OptionGroupName = aws.String(spec.OptionGroup)
	}
	if spec.MaintenanceWindow != "" {
		input.PreferredMaintenanceWindow = aws.String(spec.MaintenanceWindow)
	}
	input.Tags = buildTagList(spec.Tags)

	_, err := p.api.CreateDBInstance(ctx, input)
	return classify(err, spec.InstanceID, "create instance")
}

// ModifyInstance applies in-place updates for the named fields only,
// honoring the spec's apply-immediately flag.
func (p *Provider) ModifyInstance(ctx context.Context, spec types.InstanceSpec, fields []string) error {
	input := &rds.ModifyDBInstanceInput{
		DBInstanceIdentifier: aws.String(spec.InstanceID),
		ApplyImmediately:     aws.Bool(spec.ApplyImmediately),
	}
	for _, field := range fields {
		switch field {
		case types.FieldInstanceClass:
			input.DBInstanceClass = aws.String(spec.InstanceClass)
		case types.FieldPromotionTier:
			input.PromotionTier = spec.PromotionTier
		case types.FieldMultiAZ:
			input.MultiAZ = aws.Bool(spec.MultiAZ)
		case types.FieldPubliclyAccessible:
			input.PubliclyAccessible = aws.Bool(spec.PubliclyAccessible)
		case types.FieldAutoMinorVersionUpgrade:
			input.AutoMinorVersionUpgrade = spec.AutoMinorVersionUpgrade
		case types.FieldCopyTagsToSnapshot:
			input.CopyTagsToSnapshot = spec.CopyTagsToSnapshot
		case types.FieldMonitoringInterval:
			input.MonitoringInterval = spec.MonitoringInterval
		case types.FieldMonitoringRoleARN:
			input.MonitoringRoleArn = aws.String(spec.MonitoringRoleARN)
		case types.FieldPerformanceInsights:
			input.EnablePerformanceInsights = spec.PerformanceInsights
		case types.FieldCloudwatchLogsExports:
			input.CloudwatchLogsExportConfiguration = &rdstypes.CloudwatchLogsExportConfiguration{
				EnableLogTypes: spec.CloudwatchLogsExports,
			}
		case types.FieldParameterGroup:
			input.DBParameterGroupName = aws.String(spec.ParameterGroup)
		case types.FieldOptionGroup:
			input.OptionGroupName = aws.String(spec.OptionGroup)
		case types.FieldMaintenanceWindow:
			input.PreferredMaintenanceWindow = aws.String(spec.MaintenanceWindow)
		}
	}

	_, err := p.api.ModifyDBInstance(ctx, input)
	return classify(err, spec.InstanceID, "modify instance")
}

// DeleteInstance tears an instance down. Cluster members never take final
// snapshots; the cluster owns backups.
func (p *Provider) DeleteInstance(ctx context.Context, id string) error {
	_, err := p.api.DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier: aws.String(id),
		SkipFinalSnapshot:    aws.Bool(true),
	})
	return classify(err, id, "delete instance")
}

// SyncTags converges the remote tag set to the desired one: stale keys are
// removed, new and changed keys are written.
func (p *Provider) SyncTags(ctx context.Context, arn string, current, desired map[string]string) error {
	var remove []string
	for key := range current {
		if _, ok := desired[key]; !ok {
			remove = append(remove, key)
		}
	}
	add := make(map[string]string)
	for key, value := range desired {
		if current[key] != value {
			add[key] = value
		}
	}

	if len(remove) > 0 {
		_, err := p.api.RemoveTagsFromResource(ctx, &rds.RemoveTagsFromResourceInput{
			ResourceName: aws.String(arn),
			TagKeys:      remove,
		})
		if err != nil {
			return classify(err, arn, "remove tags")
		}
	}
	if len(add) > 0 {
		_, err := p.api.AddTagsToResource(ctx, &rds.AddTagsToResourceInput{
			ResourceName: aws.String(arn),
			Tags:         buildTagList(add),
		})
		if err != nil {
			return classify(err, arn, "add tags")
		}
	}
	return nil
}
