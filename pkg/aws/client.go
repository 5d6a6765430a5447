package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/redshift"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/kube-reporting/warehouse-etl/pkg/config"
)

//go:generate mockgen -destination=mock/mock_aws.go -package=mock github.com/kube-reporting/warehouse-etl/pkg/aws IAMAPI,RedshiftAPI,EC2API,S3API

// IAMAPI is the subset of the IAM API used to manage the warehouse access role.
type IAMAPI interface {
	CreateRoleWithContext(ctx context.Context, in *iam.CreateRoleInput, opts ...request.Option) (*iam.CreateRoleOutput, error)
	GetRoleWithContext(ctx context.Context, in *iam.GetRoleInput, opts ...request.Option) (*iam.GetRoleOutput, error)
	AttachRolePolicyWithContext(ctx context.Context, in *iam.AttachRolePolicyInput, opts ...request.Option) (*iam.AttachRolePolicyOutput, error)
	DetachRolePolicyWithContext(ctx context.Context, in *iam.DetachRolePolicyInput, opts ...request.Option) (*iam.DetachRolePolicyOutput, error)
	DeleteRoleWithContext(ctx context.Context, in *iam.DeleteRoleInput, opts ...request.Option) (*iam.DeleteRoleOutput, error)
}

// RedshiftAPI is the subset of the Redshift API used to manage the cluster.
type RedshiftAPI interface {
	CreateClusterWithContext(ctx context.Context, in *redshift.CreateClusterInput, opts ...request.Option) (*redshift.CreateClusterOutput, error)
	DescribeClustersWithContext(ctx context.Context, in *redshift.DescribeClustersInput, opts ...request.Option) (*redshift.DescribeClustersOutput, error)
	DeleteClusterWithContext(ctx context.Context, in *redshift.DeleteClusterInput, opts ...request.Option) (*redshift.DeleteClusterOutput, error)
}

// EC2API is the subset of the EC2 API used to expose the cluster port.
type EC2API interface {
	CreateSecurityGroupWithContext(ctx context.Context, in *ec2.CreateSecurityGroupInput, opts ...request.Option) (*ec2.CreateSecurityGroupOutput, error)
	DescribeSecurityGroupsWithContext(ctx context.Context, in *ec2.DescribeSecurityGroupsInput, opts ...request.Option) (*ec2.DescribeSecurityGroupsOutput, error)
	AuthorizeSecurityGroupIngressWithContext(ctx context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, opts ...request.Option) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
}

// S3API is the subset of the S3 API used to inspect the ETL sources.
type S3API interface {
	ListObjectsV2PagesWithContext(ctx context.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error
	GetObjectWithContext(ctx context.Context, in *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

var (
	_ IAMAPI      = (*iam.IAM)(nil)
	_ RedshiftAPI = (*redshift.Redshift)(nil)
	_ EC2API      = (*ec2.EC2)(nil)
	_ S3API       = (*s3.S3)(nil)
)

// Clients bundles the control-plane clients. One Clients value is built per
// invocation and shared by every component.
type Clients struct {
	IAM      IAMAPI
	Redshift RedshiftAPI
	EC2      EC2API
	S3       S3API
}

// NewSession builds an AWS session for the configured region. Static
// credentials are used when present, otherwise the default provider chain.
func NewSession(cfg config.AWSConfig) (*session.Session, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.AccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create AWS session: %v", err)
	}
	return sess, nil
}

// NewClients returns the IAM, Redshift, EC2 and S3 clients for cfg.
func NewClients(cfg config.AWSConfig) (Clients, error) {
	sess, err := NewSession(cfg)
	if err != nil {
		return Clients{}, err
	}
	return Clients{
		IAM:      iam.New(sess),
		Redshift: redshift.New(sess),
		EC2:      ec2.New(sess),
		S3:       s3.New(sess),
	}, nil
}
