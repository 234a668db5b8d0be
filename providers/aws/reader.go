package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/aurorec/aurorec/types"
)

// FetchCluster returns the observed state of a cluster, or nil when the
// cluster does not exist.
func (p *Provider) FetchCluster(ctx context.Context, id string) (*types.ObservedState, error) {
	out, err := p.api.DescribeDBClusters(ctx, &rds.DescribeDBClustersInput{
		DBClusterIdentifier: aws.String(id),
	})
	if err != nil {
		var notFound *rdstypes.DBClusterNotFoundFault
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, classify(err, id, "describe cluster")
	}
	if len(out.DBClusters) != 1 {
		return nil, nil
	}

	cluster := out.DBClusters[0]
	tags, err := p.listTags(ctx, aws.ToString(cluster.DBClusterArn), id)
	if err != nil {
		return nil, err
	}
	return buildClusterState(cluster, tags), nil
}

// FetchInstance returns the observed state of an instance, or nil when the
// instance does not exist.
func (p *Provider) FetchInstance(ctx context.Context, id string) (*types.ObservedState, error) {
	out, err := p.api.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(id),
	})
	if err != nil {
		var notFound *rdstypes.DBInstanceNotFoundFault
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, classify(err, id, "describe instance")
	}
	if len(out.DBInstances) != 1 {
		return nil, nil
	}

	instance := out.DBInstances[0]
	tags, err := p.listTags(ctx, aws.ToString(instance.DBInstanceArn), id)
	if err != nil {
		return nil, err
	}
	return buildInstanceState(instance, tags), nil
}

// ListSnapshots lists cluster snapshots matching the provider-side filter.
// The listing restarts from scratch on every call and issues no mutating
// calls.
func (p *Provider) ListSnapshots(ctx context.Context, filter types.SnapshotListFilter) ([]types.SnapshotRecord, error) {
	input := &rds.DescribeDBClusterSnapshotsInput{}
	if filter.SnapshotID != "" {
		input.DBClusterSnapshotIdentifier = aws.String(filter.SnapshotID)
	}
	if filter.ClusterID != "" {
		input.DBClusterIdentifier = aws.String(filter.ClusterID)
	}
	if filter.Type != "" {
		input.SnapshotType = aws.String(filter.Type)
	}
	if filter.MaxRecords > 0 {
		input.MaxRecords = aws.Int32(filter.MaxRecords)
	}

	var records []types.SnapshotRecord
	paginator := rds.NewDescribeDBClusterSnapshotsPaginator(describeSnapshotsClient{p.api}, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err, filter.ClusterID, "describe cluster snapshots")
		}
		for _, snapshot := range out.DBClusterSnapshots {
			records = append(records, buildSnapshotRecord(snapshot))
		}
	}
	return records, nil
}

// describeSnapshotsClient adapts the narrow rdsAPI interface to the
// paginator's expected client shape.
type describeSnapshotsClient struct {
	api rdsAPI
}

func (c describeSnapshotsClient) DescribeDBClusterSnapshots(ctx context.Context, params *rds.DescribeDBClusterSnapshotsInput, optFns ...func(*rds.Options)) (*rds.DescribeDBClusterSnapshotsOutput, error) {
	return c.api.DescribeDBClusterSnapshots(ctx, params, optFns...)
}

// listTags fetches the tag set of a resource by ARN.
func (p *Provider) listTags(ctx context.Context, arn, entityID string) (map[string]string, error) {
	if arn == "" {
		return nil, nil
	}
	out, err := p.api.ListTagsForResource(ctx, &rds.ListTagsForResourceInput{
		ResourceName: aws.String(arn),
	})
	if err != nil {
		return nil, classify(err, entityID, "list tags")
	}
	return convertTags(out.TagList), nil
}
