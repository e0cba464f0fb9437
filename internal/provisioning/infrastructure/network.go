package infrastructure

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/naming"
)

// ProvisionNetwork finds the network by name or creates it with the configured CIDR.
func (p *Provisioner) ProvisionNetwork(ctx *provisioning.Context) error {
	name := ctx.Config.Name
	ctx.Observer.Printf("[%s] Reconciling network %s...", phase, name)

	vpc, err := provisioning.FindByName(ctx, ctx.Cloud.Network.GetNetworks, name)
	if err != nil {
		return fmt.Errorf("failed to look up network %s: %w", name, err)
	}
	if vpc != nil {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindNetwork, name, aws.ToString(vpc.VpcId))
		ctx.State.Network = vpc
		return nil
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindNetwork, name)
	vpc, err = ctx.Cloud.Network.CreateNetwork(ctx, ctx.Config.CIDRBlock)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindNetwork, name, err)
		return fmt.Errorf("failed to create network %s: %w", name, err)
	}
	id := aws.ToString(vpc.VpcId)
	if err := provisioning.TagWithName(ctx, ctx.Cloud.Network, id, name, name); err != nil {
		return err
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindNetwork, name, id)

	ctx.State.Network = vpc
	return nil
}

// ProvisionGateway finds the network's internet gateway by name or creates
// and attaches one. A found gateway that is attached nowhere, as left by an
// interrupted run, is attached.
func (p *Provisioner) ProvisionGateway(ctx *provisioning.Context) error {
	name := naming.Gateway(ctx.Config.Name)
	networkID := ctx.State.NetworkID()
	if networkID == "" {
		return fmt.Errorf("network not initialized in provisioning state")
	}

	gw, err := provisioning.FindByName(ctx, ctx.Cloud.Network.GetGateways, name)
	if err != nil {
		return fmt.Errorf("failed to look up internet gateway %s: %w", name, err)
	}

	if gw == nil {
		provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindGateway, name)
		gw, err = ctx.Cloud.Network.CreateGateway(ctx)
		if err != nil {
			provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindGateway, name, err)
			return fmt.Errorf("failed to create internet gateway %s: %w", name, err)
		}
		if err := provisioning.TagWithName(ctx, ctx.Cloud.Network, aws.ToString(gw.InternetGatewayId), name, ctx.Config.Name); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindGateway, name, aws.ToString(gw.InternetGatewayId))
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindGateway, name, aws.ToString(gw.InternetGatewayId))
	}

	if len(gw.Attachments) == 0 {
		gatewayID := aws.ToString(gw.InternetGatewayId)
		ctx.Observer.Printf("[%s] Attaching internet gateway %s to %s", phase, gatewayID, networkID)
		if err := ctx.Cloud.Network.AttachGateway(ctx, gatewayID, networkID); err != nil {
			return fmt.Errorf("failed to attach internet gateway %s: %w", gatewayID, err)
		}
	}

	ctx.State.Gateway = gw
	return nil
}
