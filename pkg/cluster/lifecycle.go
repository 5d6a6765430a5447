package cluster

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/redshift"
	log "github.com/sirupsen/logrus"

	"github.com/kube-reporting/warehouse-etl/pkg/aws"
)

// EnsureAccessRole creates the role Redshift assumes to read from S3, or
// reuses it if it already exists, and attaches the configured policy.
func (m *Manager) EnsureAccessRole(ctx context.Context) (RoleHandle, error) {
	roleName := m.cfg.IAMRole.Name
	logger := m.logger.WithField("role", roleName)

	doc, err := assumeRolePolicyDocument()
	if err != nil {
		return RoleHandle{}, fmt.Errorf("unable to build trust policy for role %s: %v", roleName, err)
	}

	var role *iam.Role
	res := m.call(ctx, "CreateRole", func() error {
		out, err := m.clients.IAM.CreateRoleWithContext(ctx, &iam.CreateRoleInput{
			RoleName:                 sdkaws.String(roleName),
			Description:              sdkaws.String("Allows Redshift clusters to call AWS services on your behalf."),
			AssumeRolePolicyDocument: sdkaws.String(doc),
		})
		if err == nil {
			role = out.Role
		}
		return err
	}, iam.ErrCodeEntityAlreadyExistsException)
	switch {
	case res.Err == nil:
		logger.Infof("created access role")
	case res.OK():
		logger.Infof("access role already exists, reusing it")
		out, err := m.clients.IAM.GetRoleWithContext(ctx, &iam.GetRoleInput{RoleName: sdkaws.String(roleName)})
		if err != nil {
			return RoleHandle{}, fmt.Errorf("unable to get existing role %s: %v", roleName, err)
		}
		role = out.Role
	default:
		return RoleHandle{}, fmt.Errorf("unable to create role %s: %v", roleName, res.Err)
	}
	if role == nil {
		return RoleHandle{}, fmt.Errorf("no role %s returned", roleName)
	}

	policyARN := m.cfg.IAMRole.PolicyARN
	res = m.call(ctx, "AttachRolePolicy", func() error {
		_, err := m.clients.IAM.AttachRolePolicyWithContext(ctx, &iam.AttachRolePolicyInput{
			RoleName:  sdkaws.String(roleName),
			PolicyArn: sdkaws.String(policyARN),
		})
		return err
	}, iam.ErrCodeEntityAlreadyExistsException)
	if !res.OK() {
		return RoleHandle{}, fmt.Errorf("unable to attach policy %s to role %s: %v", policyARN, roleName, res.Err)
	}
	logger.WithField("policy", policyARN).Infof("attached policy to access role")

	handle := RoleHandle{
		Name: sdkaws.StringValue(role.RoleName),
		ARN:  sdkaws.StringValue(role.Arn),
		ID:   sdkaws.StringValue(role.RoleId),
	}
	logger.WithField("arn", handle.ARN).Debugf("access role ready")
	return handle, nil
}

// RoleARN looks up the ARN of the configured access role.
func (m *Manager) RoleARN(ctx context.Context) (string, error) {
	out, err := m.clients.IAM.GetRoleWithContext(ctx, &iam.GetRoleInput{RoleName: sdkaws.String(m.cfg.IAMRole.Name)})
	if err != nil {
		return "", fmt.Errorf("unable to get role %s: %v", m.cfg.IAMRole.Name, err)
	}
	if out.Role == nil || out.Role.Arn == nil {
		return "", fmt.Errorf("role %s has no ARN", m.cfg.IAMRole.Name)
	}
	return *out.Role.Arn, nil
}

// EnsureSecurityGroup creates the configured security group, or reuses an
// existing one, and opens the database port to the configured CIDR. It
// returns the group ID, or "" when no security group is configured.
func (m *Manager) EnsureSecurityGroup(ctx context.Context) (string, error) {
	groupName := m.cfg.Cluster.SecurityGroupName
	if groupName == "" {
		return "", nil
	}
	logger := m.logger.WithField("securityGroup", groupName)

	var groupID string
	res := m.call(ctx, "CreateSecurityGroup", func() error {
		out, err := m.clients.EC2.CreateSecurityGroupWithContext(ctx, &ec2.CreateSecurityGroupInput{
			GroupName:   sdkaws.String(groupName),
			Description: sdkaws.String(fmt.Sprintf("Access to Redshift cluster %s", m.cfg.Cluster.Identifier)),
		})
		if err == nil {
			groupID = sdkaws.StringValue(out.GroupId)
		}
		return err
	}, aws.ErrCodeInvalidGroupDuplicate)
	switch {
	case res.Err == nil:
		logger.Infof("created security group")
	case res.OK():
		logger.Infof("security group already exists, reusing it")
		out, err := m.clients.EC2.DescribeSecurityGroupsWithContext(ctx, &ec2.DescribeSecurityGroupsInput{
			GroupNames: sdkaws.StringSlice([]string{groupName}),
		})
		if err != nil {
			return "", fmt.Errorf("unable to describe security group %s: %v", groupName, err)
		}
		if len(out.SecurityGroups) == 0 {
			return "", fmt.Errorf("security group %s not found", groupName)
		}
		groupID = sdkaws.StringValue(out.SecurityGroups[0].GroupId)
	default:
		return "", fmt.Errorf("unable to create security group %s: %v", groupName, res.Err)
	}

	port := int64(m.cfg.Cluster.DBPort)
	res = m.call(ctx, "AuthorizeSecurityGroupIngress", func() error {
		_, err := m.clients.EC2.AuthorizeSecurityGroupIngressWithContext(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:    sdkaws.String(groupID),
			IpProtocol: sdkaws.String("tcp"),
			FromPort:   sdkaws.Int64(port),
			ToPort:     sdkaws.Int64(port),
			CidrIp:     sdkaws.String(m.cfg.Cluster.IngressCIDR),
		})
		return err
	}, aws.ErrCodeInvalidPermissionDuplicate)
	if !res.OK() {
		return "", fmt.Errorf("unable to open port %d on security group %s: %v", port, groupName, res.Err)
	}
	logger.WithFields(log.Fields{"groupID": groupID, "port": port, "cidr": m.cfg.Cluster.IngressCIDR}).Infof("security group allows database access")
	return groupID, nil
}

// ProvisionCluster creates the cluster and blocks until it is available.
// A failed create that a later status could still satisfy is logged and
// waiting continues.
func (m *Manager) ProvisionCluster(ctx context.Context, role RoleHandle, securityGroupIDs ...string) (err error) {
	defer func(start time.Time) { m.metrics.ObserveStep("provision", start, err) }(time.Now())
	c := m.cfg.Cluster
	input := &redshift.CreateClusterInput{
		ClusterIdentifier:  sdkaws.String(c.Identifier),
		ClusterType:        sdkaws.String(c.ClusterType()),
		NodeType:           sdkaws.String(c.NodeType),
		DBName:             sdkaws.String(c.DBName),
		Port:               sdkaws.Int64(int64(c.DBPort)),
		MasterUsername:     sdkaws.String(c.DBUser),
		MasterUserPassword: sdkaws.String(c.DBPassword),
		IamRoles:           sdkaws.StringSlice([]string{role.ARN}),
	}
	if c.NodeCount > 1 {
		input.NumberOfNodes = sdkaws.Int64(int64(c.NodeCount))
	}
	if len(securityGroupIDs) != 0 {
		input.VpcSecurityGroupIds = sdkaws.StringSlice(securityGroupIDs)
	}

	res := m.call(ctx, "CreateCluster", func() error {
		_, err := m.clients.Redshift.CreateClusterWithContext(ctx, input)
		return err
	}, redshift.ErrCodeClusterAlreadyExistsFault)
	switch {
	case res.Err == nil:
		m.logger.WithFields(log.Fields{"nodeType": c.NodeType, "nodes": c.NodeCount}).Infof("creating cluster")
	case res.OK():
		m.logger.Infof("cluster already exists")
	case res.Retryable():
		m.logger.WithError(res.Err).Warnf("unable to create cluster, waiting for it anyway")
	default:
		return fmt.Errorf("unable to create cluster %s: %v", c.Identifier, res.Err)
	}

	return m.poll(ctx, "provision", func(elapsed time.Duration) (bool, error) {
		out, err := m.describeCluster(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false, nil
			}
			res := aws.Classify(err, redshift.ErrCodeClusterNotFoundFault)
			if res.Fatal() {
				return false, fmt.Errorf("unable to describe cluster %s: %v", c.Identifier, err)
			}
			m.metrics.ObservePollCheck("provision", StatusAbsent)
			m.logger.WithError(err).WithField("elapsed", elapsed).Warnf("unable to get cluster status, retrying")
			return false, nil
		}
		_, status := clusterStatus(out)
		m.metrics.ObservePollCheck("provision", status)
		m.logger.WithFields(log.Fields{"status": status, "elapsed": elapsed}).Infof("cluster status")
		switch {
		case status == StatusAvailable:
			return true, nil
		case isUnrecoverable(status):
			return false, fmt.Errorf("%w: %s is %s", ErrClusterUnrecoverable, c.Identifier, status)
		default:
			return false, nil
		}
	})
}

// DecommissionAccessRole detaches the policy from the access role and
// deletes it. Failures are logged and otherwise ignored.
func (m *Manager) DecommissionAccessRole(ctx context.Context) {
	roleName := m.cfg.IAMRole.Name
	logger := m.logger.WithField("role", roleName)

	res := m.call(ctx, "DetachRolePolicy", func() error {
		_, err := m.clients.IAM.DetachRolePolicyWithContext(ctx, &iam.DetachRolePolicyInput{
			RoleName:  sdkaws.String(roleName),
			PolicyArn: sdkaws.String(m.cfg.IAMRole.PolicyARN),
		})
		return err
	})
	if res.Err != nil {
		logger.WithError(res.Err).Warnf("unable to detach policy from access role")
	} else {
		logger.Infof("detached policy from access role")
	}

	res = m.call(ctx, "DeleteRole", func() error {
		_, err := m.clients.IAM.DeleteRoleWithContext(ctx, &iam.DeleteRoleInput{RoleName: sdkaws.String(roleName)})
		return err
	})
	if res.Err != nil {
		logger.WithError(res.Err).Warnf("unable to delete access role")
	} else {
		logger.Infof("deleted access role")
	}
}

// TeardownCluster deletes the cluster without a final snapshot and blocks
// until it no longer exists.
func (m *Manager) TeardownCluster(ctx context.Context) (err error) {
	defer func(start time.Time) { m.metrics.ObserveStep("teardown", start, err) }(time.Now())
	id := m.cfg.Cluster.Identifier

	res := m.call(ctx, "DeleteCluster", func() error {
		_, err := m.clients.Redshift.DeleteClusterWithContext(ctx, &redshift.DeleteClusterInput{
			ClusterIdentifier:        sdkaws.String(id),
			SkipFinalClusterSnapshot: sdkaws.Bool(true),
		})
		return err
	}, redshift.ErrCodeClusterNotFoundFault)
	switch {
	case res.Err == nil:
		m.logger.Infof("deleting cluster")
	case res.OK():
		m.logger.Infof("cluster does not exist")
	default:
		m.logger.WithError(res.Err).Warnf("unable to delete cluster, waiting for it to go away anyway")
	}

	return m.poll(ctx, "teardown", func(elapsed time.Duration) (bool, error) {
		out, err := m.describeCluster(ctx)
		if aws.IsClusterNotFound(err) {
			m.metrics.ObservePollCheck("teardown", StatusAbsent)
			m.logger.WithField("elapsed", elapsed).Infof("cluster deleted")
			return true, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return false, nil
			}
			if res := aws.Classify(err); res.Fatal() {
				return false, fmt.Errorf("unable to describe cluster %s: %v", id, err)
			}
			m.logger.WithError(err).WithField("elapsed", elapsed).Warnf("unable to get cluster status, retrying")
			return false, nil
		}
		_, status := clusterStatus(out)
		m.metrics.ObservePollCheck("teardown", status)
		m.logger.WithFields(log.Fields{"status": status, "elapsed": elapsed}).Infof("cluster status")
		return status == StatusAbsent, nil
	})
}

// ClusterEndpoint returns the address of the available cluster.
func (m *Manager) ClusterEndpoint(ctx context.Context) (Endpoint, error) {
	id := m.cfg.Cluster.Identifier
	out, err := m.describeCluster(ctx)
	if err != nil {
		return Endpoint{}, fmt.Errorf("unable to describe cluster %s: %v", id, err)
	}
	cluster, status := clusterStatus(out)
	if status != StatusAvailable {
		return Endpoint{}, fmt.Errorf("cluster %s is %s, not %s", id, status, StatusAvailable)
	}
	if cluster.Endpoint == nil || cluster.Endpoint.Address == nil {
		return Endpoint{}, fmt.Errorf("cluster %s has no endpoint", id)
	}
	return Endpoint{
		Address: *cluster.Endpoint.Address,
		Port:    sdkaws.Int64Value(cluster.Endpoint.Port),
	}, nil
}
