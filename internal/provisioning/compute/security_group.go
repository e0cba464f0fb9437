package compute

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/naming"
)

// Anywhere is the CIDR every bastion rule is opened to.
const Anywhere = "0.0.0.0/0"

// Bastion firewall ports.
const (
	PortSSH   int32 = 22
	PortHTTP  int32 = 80
	PortHTTPS int32 = 443
)

// BastionIngress returns the inbound rules of a bastion security group.
func BastionIngress() []types.IpPermission {
	return []types.IpPermission{ec2internal.TCPRule(PortSSH, Anywhere)}
}

// BastionEgress returns the outbound rules of a bastion security group.
func BastionEgress() []types.IpPermission {
	return []types.IpPermission{
		ec2internal.TCPRule(PortHTTPS, Anywhere),
		ec2internal.TCPRule(PortHTTP, Anywhere),
	}
}

// EnsureSecurityGroup finds the network's bastion security group by group
// name or creates it with the fixed bastion rule set. Rules of an existing
// group are left alone.
func (p *Provisioner) EnsureSecurityGroup(ctx *provisioning.Context) (string, error) {
	if ctx.State.SecurityGroupID != "" {
		return ctx.State.SecurityGroupID, nil
	}

	name := naming.SecurityGroup(ctx.Config.Name)
	networkID := ctx.State.NetworkID()

	sg, err := firstGroup(ctx.Cloud.Compute.GetSecurityGroups(ctx,
		ec2internal.ByGroupName(name), ec2internal.InNetwork(networkID)))
	if err != nil {
		return "", fmt.Errorf("failed to look up security group %s: %w", name, err)
	}
	if sg != nil {
		id := aws.ToString(sg.GroupId)
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindSecurityGroup, name, id)
		ctx.State.SecurityGroupID = id
		return id, nil
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindSecurityGroup, name)
	id, err := ctx.Cloud.Compute.CreateSecurityGroup(ctx, networkID, name, name)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindSecurityGroup, name, err)
		return "", fmt.Errorf("failed to create security group %s: %w", name, err)
	}
	if err := provisioning.TagWithName(ctx, ctx.Cloud.Compute, id, name, ctx.Config.Name); err != nil {
		return "", err
	}
	if err := p.applyBastionRules(ctx, id); err != nil {
		return "", err
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindSecurityGroup, name, id)

	ctx.State.SecurityGroupID = id
	return id, nil
}

// applyBastionRules strips every rule the provider pre-populated and adds
// the bastion rules.
func (p *Provisioner) applyBastionRules(ctx *provisioning.Context, groupID string) error {
	if err := StripRules(ctx, ctx.Cloud.Compute, groupID); err != nil {
		return err
	}
	if err := ctx.Cloud.Compute.AuthorizeEgress(ctx, groupID, BastionEgress()); err != nil {
		return fmt.Errorf("failed to authorize egress on %s: %w", groupID, err)
	}
	if err := ctx.Cloud.Compute.AuthorizeIngress(ctx, groupID, BastionIngress()); err != nil {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	ctx.Observer.Printf("[%s] Security group %s allows ssh in, http and https out", phase, groupID)
	return nil
}

// StripRules revokes every ingress and egress rule of a security group.
func StripRules(ctx *provisioning.Context, compute ec2internal.ComputeAPI, groupID string) error {
	groups, err := compute.GetSecurityGroups(ctx, ec2internal.ByGroupID(groupID))
	if err != nil {
		return fmt.Errorf("failed to read security group %s: %w", groupID, err)
	}
	if len(groups) == 0 {
		return fmt.Errorf("security group %s not found", groupID)
	}
	return RevokeAll(ctx, compute, &groups[0])
}

// RevokeAll revokes the rules held by a security group snapshot.
func RevokeAll(ctx *provisioning.Context, compute ec2internal.ComputeAPI, sg *types.SecurityGroup) error {
	id := aws.ToString(sg.GroupId)
	if len(sg.IpPermissions) > 0 {
		if err := compute.RevokeIngress(ctx, id, sg.IpPermissions); err != nil {
			return fmt.Errorf("failed to revoke ingress on %s: %w", id, err)
		}
	}
	if len(sg.IpPermissionsEgress) > 0 {
		if err := compute.RevokeEgress(ctx, id, sg.IpPermissionsEgress); err != nil {
			return fmt.Errorf("failed to revoke egress on %s: %w", id, err)
		}
	}
	return nil
}

func firstGroup(groups []types.SecurityGroup, err error) (*types.SecurityGroup, error) {
	if err != nil || len(groups) == 0 {
		return nil, err
	}
	return &groups[0], nil
}
