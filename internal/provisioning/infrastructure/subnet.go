package infrastructure

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/vpcctl/internal/config"
	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
)

// ProvisionSubnets converges every configured subnet in file order.
func (p *Provisioner) ProvisionSubnets(ctx *provisioning.Context) error {
	if ctx.State.RouteTable == nil {
		return fmt.Errorf("route table not initialized in provisioning state")
	}
	for i, sc := range ctx.Config.Subnets {
		if err := p.ensureSubnet(ctx, sc); err != nil {
			return err
		}
		ctx.Observer.Progress(phase, i+1, len(ctx.Config.Subnets))
	}
	return nil
}

// ensureSubnet finds a subnet by name in the network or creates it in its
// zone and associates it with the public route table. A found subnet with
// no association to the table, as left by an interrupted run, is associated.
func (p *Provisioner) ensureSubnet(ctx *provisioning.Context, sc config.SubnetConfig) error {
	networkID := ctx.State.NetworkID()
	rt := ctx.State.RouteTable

	subnet, err := provisioning.FindByNameInNetwork(ctx, ctx.Cloud.Network.GetSubnets, sc.Name, networkID)
	if err != nil {
		return fmt.Errorf("failed to look up subnet %s: %w", sc.Name, err)
	}

	if subnet == nil {
		ctx.Observer.Printf("[%s] Creating subnet %s in %s", phase, sc.Name, sc.AvailabilityZone)
		provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindSubnet, sc.Name)
		subnet, err = ctx.Cloud.Network.CreateSubnet(ctx, networkID, sc.CIDRBlock, sc.AvailabilityZone)
		if err != nil {
			provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindSubnet, sc.Name, err)
			return fmt.Errorf("failed to create subnet %s: %w", sc.Name, err)
		}
		if err := provisioning.TagWithName(ctx, ctx.Cloud.Network, aws.ToString(subnet.SubnetId), sc.Name, ctx.Config.Name); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindSubnet, sc.Name, aws.ToString(subnet.SubnetId))
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindSubnet, sc.Name, aws.ToString(subnet.SubnetId))
	}

	subnetID := aws.ToString(subnet.SubnetId)
	if !isAssociated(rt, subnetID) {
		associationID, err := ctx.Cloud.Network.AssociateRouteTable(ctx, aws.ToString(rt.RouteTableId), subnetID)
		if ec2internal.IsAlreadyAssociated(err) {
			// Bound to another table; existing subnets are reused as found.
			ctx.Observer.Printf("[%s] Warning: subnet %s is associated with another route table", phase, sc.Name)
			ctx.State.Subnets[sc.Name] = subnet
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to associate subnet %s with route table: %w", sc.Name, err)
		}
		rt.Associations = append(rt.Associations, types.RouteTableAssociation{
			RouteTableAssociationId: aws.String(associationID),
			RouteTableId:            rt.RouteTableId,
			SubnetId:                aws.String(subnetID),
		})
	}

	ctx.State.Subnets[sc.Name] = subnet
	return nil
}
