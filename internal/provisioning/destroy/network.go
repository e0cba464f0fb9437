package destroy

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/provisioning/compute"
	"github.com/imamik/vpcctl/internal/util/naming"
)

// deleteSecurityGroups strips the rules of every group in the network and
// deletes all but the default group. Groups are listed unfiltered and matched
// on their network id.
func (p *Provisioner) deleteSecurityGroups(ctx *provisioning.Context, networkID string) error {
	all, err := ctx.Cloud.Compute.GetSecurityGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list security groups: %w", err)
	}
	var groups []types.SecurityGroup
	for _, sg := range all {
		if aws.ToString(sg.VpcId) == networkID {
			groups = append(groups, sg)
		}
	}

	for i := range groups {
		if err := compute.RevokeAll(ctx, ctx.Cloud.Compute, &groups[i]); err != nil {
			return err
		}
	}

	// Rule revocation is applied asynchronously; deleting right away can
	// fail with a dependency violation when groups reference each other.
	if len(groups) > 1 {
		if err := pause(ctx, ctx.PollPolicy().SettleDelay); err != nil {
			return err
		}
	}

	for _, sg := range groups {
		name := aws.ToString(sg.GroupName)
		if name == naming.DefaultSecurityGroup {
			continue
		}
		provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindSecurityGroup, name)
		if err := ctx.Cloud.Compute.DeleteSecurityGroup(ctx, aws.ToString(sg.GroupId)); err != nil {
			if ec2internal.IsDependencyViolation(err) {
				return fmt.Errorf("failed to delete security group %s: still referenced after a %s settle delay (VPCCTL_SG_SETTLE_DELAY): %w",
					name, ctx.PollPolicy().SettleDelay, err)
			}
			return fmt.Errorf("failed to delete security group %s: %w", name, err)
		}
		provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindSecurityGroup, name)
	}
	return nil
}

func (p *Provisioner) deleteSubnets(ctx *provisioning.Context, networkID string) error {
	subnets, err := ctx.Cloud.Network.GetSubnets(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return fmt.Errorf("failed to list subnets: %w", err)
	}
	for _, s := range subnets {
		id := aws.ToString(s.SubnetId)
		name := nameOr(s.Tags, id)
		provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindSubnet, name)
		if err := ctx.Cloud.Network.DeleteSubnet(ctx, id); err != nil {
			return fmt.Errorf("failed to delete subnet %s: %w", name, err)
		}
		provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindSubnet, name)
	}
	return nil
}

// deleteRouteTables deletes every route table of the network except the
// main one, which goes with the network.
func (p *Provisioner) deleteRouteTables(ctx *provisioning.Context, networkID string) error {
	tables, err := ctx.Cloud.Network.GetRouteTables(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return fmt.Errorf("failed to list route tables: %w", err)
	}
	for _, rt := range tables {
		if provisioning.IsMainRouteTable(rt) {
			continue
		}
		id := aws.ToString(rt.RouteTableId)
		name := nameOr(rt.Tags, id)
		provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindRouteTable, name)
		if err := ctx.Cloud.Network.DeleteRouteTable(ctx, id); err != nil {
			return fmt.Errorf("failed to delete route table %s: %w", name, err)
		}
		provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindRouteTable, name)
	}
	return nil
}

// deleteGateway detaches and deletes the gateway named after the network.
func (p *Provisioner) deleteGateway(ctx *provisioning.Context, networkID string) error {
	name := naming.Gateway(ctx.Config.Name)
	gw, err := provisioning.FindByName(ctx, ctx.Cloud.Network.GetGateways, name)
	if err != nil {
		return fmt.Errorf("failed to look up internet gateway %s: %w", name, err)
	}
	if gw == nil {
		return nil
	}
	id := aws.ToString(gw.InternetGatewayId)

	provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindGateway, name)
	for _, att := range gw.Attachments {
		attached := aws.ToString(att.VpcId)
		if err := ctx.Cloud.Network.DetachGateway(ctx, id, attached); err != nil {
			return fmt.Errorf("failed to detach internet gateway %s from %s: %w", id, attached, err)
		}
	}
	if err := ctx.Cloud.Network.DeleteGateway(ctx, id); err != nil {
		return fmt.Errorf("failed to delete internet gateway %s: %w", id, err)
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindGateway, name)
	return nil
}

func (p *Provisioner) deleteNetwork(ctx *provisioning.Context, networkID string) error {
	name := ctx.Config.Name
	provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindNetwork, name)
	if err := ctx.Cloud.Network.DeleteNetwork(ctx, networkID); err != nil {
		return fmt.Errorf("failed to delete network %s: %w", name, err)
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindNetwork, name)
	ctx.State.Network = nil
	return nil
}

func nameOr(tags []types.Tag, fallback string) string {
	if name := ec2internal.NameOf(tags); name != "" {
		return name
	}
	return fallback
}

func pause(ctx *provisioning.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	ctx.Observer.Printf("[%s] Waiting %v for security group rules to settle", phase, d)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
