package aws

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/aurorec/aurorec/types"
)

// buildClusterState converts an SDK cluster into the internal model.
func buildClusterState(cluster rdstypes.DBCluster, tags map[string]string) *types.ObservedState {
	return &types.ObservedState{
		Kind:              types.KindCluster,
		ID:                aws.ToString(cluster.DBClusterIdentifier),
		ARN:               aws.ToString(cluster.DBClusterArn),
		Status:            types.ParseStatus(aws.ToString(cluster.Status)),
		Engine:            aws.ToString(cluster.Engine),
		EngineVersion:     aws.ToString(cluster.EngineVersion),
		Port:              aws.ToInt32(cluster.Port),
		DatabaseName:      aws.ToString(cluster.DatabaseName),
		MasterUsername:    aws.ToString(cluster.MasterUsername),
		SubnetGroup:       aws.ToString(cluster.DBSubnetGroup),
		OptionGroup:       extractClusterOptionGroup(cluster.DBClusterOptionGroupMemberships),
		AvailabilityZones: cluster.AvailabilityZones,
		SecurityGroupIDs:  extractVPCSecurityGroupIDs(cluster.VpcSecurityGroups),
		BackupRetention:   aws.ToInt32(cluster.BackupRetentionPeriod),
		Endpoint:          aws.ToString(cluster.Endpoint),
		ReaderEndpoint:    aws.ToString(cluster.ReaderEndpoint),
		MemberInstanceIDs: extractMemberInstanceIDs(cluster.DBClusterMembers),
		Tags:              tags,
		ObservedAt:        time.Now(),
	}
}

// buildInstanceState converts an SDK instance into the internal model.
func buildInstanceState(instance rdstypes.DBInstance, tags map[string]string) *types.ObservedState {
	var subnetGroup string
	if instance.DBSubnetGroup != nil {
		subnetGroup = aws.ToString(instance.DBSubnetGroup.DBSubnetGroupName)
	}

	var endpoint string
	var port int32
	if instance.Endpoint != nil {
		endpoint = aws.ToString(instance.Endpoint.Address)
		port = aws.ToInt32(instance.Endpoint.Port)
	}

	return &types.ObservedState{
		Kind:                    types.KindInstance,
		ID:                      aws.ToString(instance.DBInstanceIdentifier),
		ARN:                     aws.ToString(instance.DBInstanceArn),
		Status:                  types.ParseStatus(aws.ToString(instance.DBInstanceStatus)),
		Engine:                  aws.ToString(instance.Engine),
		EngineVersion:           aws.ToString(instance.EngineVersion),
		Port:                    port,
		Endpoint:                endpoint,
		SubnetGroup:             subnetGroup,
		OptionGroup:             extractInstanceOptionGroup(instance.OptionGroupMemberships),
		ParameterGroup:          extractParameterGroup(instance.DBParameterGroups),
		ClusterID:               aws.ToString(instance.DBClusterIdentifier),
		InstanceClass:           aws.ToString(instance.DBInstanceClass),
		AvailabilityZone:        aws.ToString(instance.AvailabilityZone),
		PromotionTier:           aws.ToInt32(instance.PromotionTier),
		MultiAZ:                 aws.ToBool(instance.MultiAZ),
		PubliclyAccessible:      aws.ToBool(instance.PubliclyAccessible),
		AutoMinorVersionUpgrade: aws.ToBool(instance.AutoMinorVersionUpgrade),
		CopyTagsToSnapshot:      aws.ToBool(instance.CopyTagsToSnapshot),
		MonitoringInterval:      aws.ToInt32(instance.MonitoringInterval),
		MonitoringRoleARN:       aws.ToString(instance.MonitoringRoleArn),
		PerformanceInsights:     aws.ToBool(instance.PerformanceInsightsEnabled),
		CloudwatchLogsExports:   instance.EnabledCloudwatchLogsExports,
		MaintenanceWindow:       aws.ToString(instance.PreferredMaintenanceWindow),
		Tags:                    tags,
		ObservedAt:              time.Now(),
	}
}

// buildSnapshotRecord converts an SDK cluster snapshot into the internal model.
func buildSnapshotRecord(snapshot rdstypes.DBClusterSnapshot) types.SnapshotRecord {
	return types.SnapshotRecord{
		SnapshotID:         aws.ToString(snapshot.DBClusterSnapshotIdentifier),
		ClusterID:          aws.ToString(snapshot.DBClusterIdentifier),
		ARN:                aws.ToString(snapshot.DBClusterSnapshotArn),
		Type:               aws.ToString(snapshot.SnapshotType),
		Status:             aws.ToString(snapshot.Status),
		Engine:             aws.ToString(snapshot.Engine),
		EngineVersion:      aws.ToString(snapshot.EngineVersion),
		LicenseModel:       aws.ToString(snapshot.LicenseModel),
		Port:               aws.ToInt32(snapshot.Port),
		VpcID:              aws.ToString(snapshot.VpcId),
		AvailabilityZones:  snapshot.AvailabilityZones,
		AllocatedStorage:   aws.ToInt32(snapshot.AllocatedStorage),
		PercentProgress:    aws.ToInt32(snapshot.PercentProgress),
		StorageEncrypted:   aws.ToBool(snapshot.StorageEncrypted),
		KMSKeyID:           aws.ToString(snapshot.KmsKeyId),
		SourceSnapshotARN:  aws.ToString(snapshot.SourceDBClusterSnapshotArn),
		MasterUsername:     aws.ToString(snapshot.MasterUsername),
		IAMAuthEnabled:     aws.ToBool(snapshot.IAMDatabaseAuthenticationEnabled),
		ClusterCreateTime:  aws.ToTime(snapshot.ClusterCreateTime),
		SnapshotCreateTime: aws.ToTime(snapshot.SnapshotCreateTime),
	}
}

// extractVPCSecurityGroupIDs flattens security group memberships to IDs.
func extractVPCSecurityGroupIDs(groups []rdstypes.VpcSecurityGroupMembership) []string {
	if len(groups) == 0 {
		return nil
	}
	ids := make([]string, len(groups))
	for i, group := range groups {
		ids[i] = aws.ToString(group.VpcSecurityGroupId)
	}
	return ids
}

// extractMemberInstanceIDs lists the instance identifiers attached to a cluster.
func extractMemberInstanceIDs(members []rdstypes.DBClusterMember) []string {
	if len(members) == 0 {
		return nil
	}
	ids := make([]string, len(members))
	for i, member := range members {
		ids[i] = aws.ToString(member.DBInstanceIdentifier)
	}
	return ids
}

func extractClusterOptionGroup(memberships []rdstypes.DBClusterOptionGroupStatus) string {
	if len(memberships) == 0 {
		return ""
	}
	return aws.ToString(memberships[0].DBClusterOptionGroupName)
}

func extractInstanceOptionGroup(memberships []rdstypes.OptionGroupMembership) string {
	if len(memberships) == 0 {
		return ""
	}
	return aws.ToString(memberships[0].OptionGroupName)
}

func extractParameterGroup(groups []rdstypes.DBParameterGroupStatus) string {
	if len(groups) == 0 {
		return ""
	}
	return aws.ToString(groups[0].DBParameterGroupName)
}

// convertTags turns an SDK tag list into a plain map.
func convertTags(tags []rdstypes.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		result[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return result
}

// buildTagList turns a plain map into an SDK tag list.
func buildTagList(tags map[string]string) []rdstypes.Tag {
	if len(tags) == 0 {
		return nil
	}
	list := make([]rdstypes.Tag, 0, len(tags))
	for key, value := range tags {
		list = append(list, rdstypes.Tag{Key: aws.String(key), Value: aws.String(value)})
	}
	return list
}
