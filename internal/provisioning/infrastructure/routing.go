package infrastructure

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/naming"
)

// Anywhere is the destination of the default route.
const Anywhere = "0.0.0.0/0"

// ProvisionRouteTable finds the "public" route table in the network or
// creates it with a default route through the internet gateway.
func (p *Provisioner) ProvisionRouteTable(ctx *provisioning.Context) error {
	name := naming.RouteTable
	networkID := ctx.State.NetworkID()
	if networkID == "" || ctx.State.Gateway == nil {
		return fmt.Errorf("network and gateway must be provisioned before the route table")
	}
	gatewayID := aws.ToString(ctx.State.Gateway.InternetGatewayId)

	rt, err := provisioning.FindByNameInNetwork(ctx, ctx.Cloud.Network.GetRouteTables, name, networkID)
	if err != nil {
		return fmt.Errorf("failed to look up route table %s: %w", name, err)
	}

	if rt == nil {
		provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindRouteTable, name)
		rt, err = ctx.Cloud.Network.CreateRouteTable(ctx, networkID)
		if err != nil {
			provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindRouteTable, name, err)
			return fmt.Errorf("failed to create route table %s: %w", name, err)
		}
		if err := provisioning.TagWithName(ctx, ctx.Cloud.Network, aws.ToString(rt.RouteTableId), name, ctx.Config.Name); err != nil {
			return err
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindRouteTable, name, aws.ToString(rt.RouteTableId))
	} else {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindRouteTable, name, aws.ToString(rt.RouteTableId))
	}

	if !HasDefaultRoute(*rt) {
		routeTableID := aws.ToString(rt.RouteTableId)
		ctx.Observer.Printf("[%s] Adding route %s -> %s to %s", phase, Anywhere, gatewayID, routeTableID)
		err := ctx.Cloud.Network.CreateRoute(ctx, routeTableID, Anywhere, gatewayID)
		if err != nil && !ec2internal.IsAlreadyExists(err) {
			return fmt.Errorf("failed to create default route in %s: %w", routeTableID, err)
		}
		rt.Routes = append(rt.Routes, types.Route{
			DestinationCidrBlock: aws.String(Anywhere),
			GatewayId:            aws.String(gatewayID),
		})
	}

	ctx.State.RouteTable = rt
	return nil
}

// HasDefaultRoute reports whether a route table routes 0.0.0.0/0 anywhere.
func HasDefaultRoute(rt types.RouteTable) bool {
	for _, r := range rt.Routes {
		if aws.ToString(r.DestinationCidrBlock) == Anywhere {
			return true
		}
	}
	return false
}

// isAssociated reports whether subnetID is explicitly associated with rt.
func isAssociated(rt *types.RouteTable, subnetID string) bool {
	for _, a := range rt.Associations {
		if aws.ToString(a.SubnetId) == subnetID {
			return true
		}
	}
	return false
}
