package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetSecurityGroups lists security groups matching filters.
func (c *RealClient) GetSecurityGroups(ctx context.Context, filters ...Filter) ([]types.SecurityGroup, error) {
	p := awsec2.NewDescribeSecurityGroupsPaginator(c.ec2, &awsec2.DescribeSecurityGroupsInput{Filters: toSDKFilters(filters)})
	groups, err := collect(ctx, p, func(o *awsec2.DescribeSecurityGroupsOutput) []types.SecurityGroup { return o.SecurityGroups })
	if err != nil {
		return nil, fmt.Errorf("failed to describe security groups: %w", err)
	}
	return groups, nil
}

// CreateSecurityGroup creates a security group in a network.
func (c *RealClient) CreateSecurityGroup(ctx context.Context, networkID, name, description string) (string, error) {
	out, err := c.ec2.CreateSecurityGroup(ctx, &awsec2.CreateSecurityGroupInput{
		VpcId:       aws.String(networkID),
		GroupName:   aws.String(name),
		Description: aws.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create security group %s: %w", name, err)
	}
	return aws.ToString(out.GroupId), nil
}

// AuthorizeIngress adds inbound rules to a group.
func (c *RealClient) AuthorizeIngress(ctx context.Context, groupID string, rules []types.IpPermission) error {
	if len(rules) == 0 {
		return nil
	}
	_, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, &awsec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       aws.String(groupID),
		IpPermissions: rules,
	})
	if err != nil {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	return nil
}

// AuthorizeEgress adds outbound rules to a group.
func (c *RealClient) AuthorizeEgress(ctx context.Context, groupID string, rules []types.IpPermission) error {
	if len(rules) == 0 {
		return nil
	}
	_, err := c.ec2.AuthorizeSecurityGroupEgress(ctx, &awsec2.AuthorizeSecurityGroupEgressInput{
		GroupId:       aws.String(groupID),
		IpPermissions: rules,
	})
	if err != nil {
		return fmt.Errorf("failed to authorize egress on %s: %w", groupID, err)
	}
	return nil
}

// RevokeIngress removes inbound rules from a group.
func (c *RealClient) RevokeIngress(ctx context.Context, groupID string, rules []types.IpPermission) error {
	if len(rules) == 0 {
		return nil
	}
	_, err := c.ec2.RevokeSecurityGroupIngress(ctx, &awsec2.RevokeSecurityGroupIngressInput{
		GroupId:       aws.String(groupID),
		IpPermissions: rules,
	})
	if err != nil {
		return fmt.Errorf("failed to revoke ingress on %s: %w", groupID, err)
	}
	return nil
}

// RevokeEgress removes outbound rules from a group.
func (c *RealClient) RevokeEgress(ctx context.Context, groupID string, rules []types.IpPermission) error {
	if len(rules) == 0 {
		return nil
	}
	_, err := c.ec2.RevokeSecurityGroupEgress(ctx, &awsec2.RevokeSecurityGroupEgressInput{
		GroupId:       aws.String(groupID),
		IpPermissions: rules,
	})
	if err != nil {
		return fmt.Errorf("failed to revoke egress on %s: %w", groupID, err)
	}
	return nil
}

// DeleteSecurityGroup deletes a group. The provider's default group cannot be deleted.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	if _, err := c.ec2.DeleteSecurityGroup(ctx, &awsec2.DeleteSecurityGroupInput{GroupId: aws.String(groupID)}); err != nil {
		return fmt.Errorf("failed to delete security group %s: %w", groupID, err)
	}
	return nil
}
