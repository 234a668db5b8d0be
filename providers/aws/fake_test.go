package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rds"
)

// fakeRDS satisfies rdsAPI with overridable behavior per call.
type fakeRDS struct {
	describeClusters  func(*rds.DescribeDBClustersInput) (*rds.DescribeDBClustersOutput, error)
	describeInstances func(*rds.DescribeDBInstancesInput) (*rds.DescribeDBInstancesOutput, error)
	describeSnapshots func(*rds.DescribeDBClusterSnapshotsInput) (*rds.DescribeDBClusterSnapshotsOutput, error)
	createCluster     func(*rds.CreateDBClusterInput) (*rds.CreateDBClusterOutput, error)
	restoreCluster    func(*rds.RestoreDBClusterFromSnapshotInput) (*rds.RestoreDBClusterFromSnapshotOutput, error)
	modifyCluster     func(*rds.ModifyDBClusterInput) (*rds.ModifyDBClusterOutput, error)
	deleteCluster     func(*rds.DeleteDBClusterInput) (*rds.DeleteDBClusterOutput, error)
	createInstance    func(*rds.CreateDBInstanceInput) (*rds.CreateDBInstanceOutput, error)
	modifyInstance    func(*rds.ModifyDBInstanceInput) (*rds.ModifyDBInstanceOutput, error)
	deleteInstance    func(*rds.DeleteDBInstanceInput) (*rds.DeleteDBInstanceOutput, error)
	listTags          func(*rds.ListTagsForResourceInput) (*rds.ListTagsForResourceOutput, error)
	addTags           func(*rds.AddTagsToResourceInput) (*rds.AddTagsToResourceOutput, error)
	removeTags        func(*rds.RemoveTagsFromResourceInput) (*rds.RemoveTagsFromResourceOutput, error)
}

func (f *fakeRDS) DescribeDBClusters(_ context.Context, params *rds.DescribeDBClustersInput, _ ...func(*rds.Options)) (*rds.DescribeDBClustersOutput, error) {
	if f.describeClusters != nil {
		return f.describeClusters(params)
	}
	return &rds.DescribeDBClustersOutput{}, nil
}

func (f *fakeRDS) DescribeDBInstances(_ context.Context, params *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	if f.describeInstances != nil {
		return f.describeInstances(params)
	}
	return &rds.DescribeDBInstancesOutput{}, nil
}

func (f *fakeRDS) DescribeDBClusterSnapshots(_ context.Context, params *rds.DescribeDBClusterSnapshotsInput, _ ...func(*rds.Options)) (*rds.DescribeDBClusterSnapshotsOutput, error) {
	if f.describeSnapshots != nil {
		return f.describeSnapshots(params)
	}
	return &rds.DescribeDBClusterSnapshotsOutput{}, nil
}

func (f *fakeRDS) CreateDBCluster(_ context.Context, params *rds.CreateDBClusterInput, _ ...func(*rds.Options)) (*rds.CreateDBClusterOutput, error) {
	if f.createCluster != nil {
		return f.createCluster(params)
	}
	return &rds.CreateDBClusterOutput{}, nil
}

func (f *fakeRDS) RestoreDBClusterFromSnapshot(_ context.Context, params *rds.RestoreDBClusterFromSnapshotInput, _ ...func(*rds.Options)) (*rds.RestoreDBClusterFromSnapshotOutput, error) {
	if f.restoreCluster != nil {
		return f.restoreCluster(params)
	}
	return &rds.RestoreDBClusterFromSnapshotOutput{}, nil
}

func (f *fakeRDS) ModifyDBCluster(_ context.Context, params *rds.ModifyDBClusterInput, _ ...func(*rds.Options)) (*rds.ModifyDBClusterOutput, error) {
	if f.modifyCluster != nil {
		return f.modifyCluster(params)
	}
	return &rds.ModifyDBClusterOutput{}, nil
}

func (f *fakeRDS) DeleteDBCluster(_ context.Context, params *rds.DeleteDBClusterInput, _ ...func(*rds.Options)) (*rds.DeleteDBClusterOutput, error) {
	if f.deleteCluster != nil {
		return f.deleteCluster(params)
	}
	return &rds.DeleteDBClusterOutput{}, nil
}

func (f *fakeRDS) CreateDBInstance(_ context.Context, params *rds.CreateDBInstanceInput, _ ...func(*rds.Options)) (*rds.CreateDBInstanceOutput, error) {
	if f.createInstance != nil {
		return f.createInstance(params)
	}
	return &rds.CreateDBInstanceOutput{}, nil
}

func (f *fakeRDS) ModifyDBInstance(_ context.Context, params *rds.ModifyDBInstanceInput, _ ...func(*rds.Options)) (*rds.ModifyDBInstanceOutput, error) {
	if f.modifyInstance != nil {
		return f.modifyInstance(params)
	}
	return &rds.ModifyDBInstanceOutput{}, nil
}

func (f *fakeRDS) DeleteDBInstance(_ context.Context, params *rds.DeleteDBInstanceInput, _ ...func(*rds.Options)) (*rds.DeleteDBInstanceOutput, error) {
	if f.deleteInstance != nil {
		return f.deleteInstance(params)
	}
	return &rds.DeleteDBInstanceOutput{}, nil
}

func (f *fakeRDS) ListTagsForResource(_ context.Context, params *rds.ListTagsForResourceInput, _ ...func(*rds.Options)) (*rds.ListTagsForResourceOutput, error) {
	if f.listTags != nil {
		return f.listTags(params)
	}
	return &rds.ListTagsForResourceOutput{}, nil
}

func (f *fakeRDS) AddTagsToResource(_ context.Context, params *rds.AddTagsToResourceInput, _ ...func(*rds.Options)) (*rds.AddTagsToResourceOutput, error) {
	if f.addTags != nil {
		return f.addTags(params)
	}
	return &rds.AddTagsToResourceOutput{}, nil
}

func (f *fakeRDS) RemoveTagsFromResource(_ context.Context, params *rds.RemoveTagsFromResourceInput, _ ...func(*rds.Options)) (*rds.RemoveTagsFromResourceOutput, error) {
	if f.removeTags != nil {
		return f.removeTags(params)
	}
	return &rds.RemoveTagsFromResourceOutput{}, nil
}
