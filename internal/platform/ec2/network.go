package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// GetNetworks lists networks matching filters.
func (c *RealClient) GetNetworks(ctx context.Context, filters ...Filter) ([]types.Vpc, error) {
	p := awsec2.NewDescribeVpcsPaginator(c.ec2, &awsec2.DescribeVpcsInput{Filters: toSDKFilters(filters)})
	vpcs, err := collect(ctx, p, func(o *awsec2.DescribeVpcsOutput) []types.Vpc { return o.Vpcs })
	if err != nil {
		return nil, fmt.Errorf("failed to describe networks: %w", err)
	}
	return vpcs, nil
}

// CreateNetwork creates a network with the given address range.
func (c *RealClient) CreateNetwork(ctx context.Context, cidr string) (*types.Vpc, error) {
	out, err := c.ec2.CreateVpc(ctx, &awsec2.CreateVpcInput{CidrBlock: aws.String(cidr)})
	if err != nil {
		return nil, fmt.Errorf("failed to create network %s: %w", cidr, err)
	}
	return out.Vpc, nil
}

// DeleteNetwork deletes a network. All dependent resources must be gone.
func (c *RealClient) DeleteNetwork(ctx context.Context, networkID string) error {
	if _, err := c.ec2.DeleteVpc(ctx, &awsec2.DeleteVpcInput{VpcId: aws.String(networkID)}); err != nil {
		return fmt.Errorf("failed to delete network %s: %w", networkID, err)
	}
	return nil
}

// GetGateways lists internet gateways matching filters.
func (c *RealClient) GetGateways(ctx context.Context, filters ...Filter) ([]types.InternetGateway, error) {
	p := awsec2.NewDescribeInternetGatewaysPaginator(c.ec2, &awsec2.DescribeInternetGatewaysInput{Filters: toSDKFilters(filters)})
	gws, err := collect(ctx, p, func(o *awsec2.DescribeInternetGatewaysOutput) []types.InternetGateway { return o.InternetGateways })
	if err != nil {
		return nil, fmt.Errorf("failed to describe gateways: %w", err)
	}
	return gws, nil
}

// CreateGateway creates a detached internet gateway.
func (c *RealClient) CreateGateway(ctx context.Context) (*types.InternetGateway, error) {
	out, err := c.ec2.CreateInternetGateway(ctx, &awsec2.CreateInternetGatewayInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	return out.InternetGateway, nil
}

// AttachGateway attaches a gateway to a network.
func (c *RealClient) AttachGateway(ctx context.Context, gatewayID, networkID string) error {
	_, err := c.ec2.AttachInternetGateway(ctx, &awsec2.AttachInternetGatewayInput{
		InternetGatewayId: aws.String(gatewayID),
		VpcId:             aws.String(networkID),
	})
	if err != nil {
		return fmt.Errorf("failed to attach gateway %s to %s: %w", gatewayID, networkID, err)
	}
	return nil
}

// DetachGateway detaches a gateway from a network.
func (c *RealClient) DetachGateway(ctx context.Context, gatewayID, networkID string) error {
	_, err := c.ec2.DetachInternetGateway(ctx, &awsec2.DetachInternetGatewayInput{
		InternetGatewayId: aws.String(gatewayID),
		VpcId:             aws.String(networkID),
	})
	if err != nil {
		return fmt.Errorf("failed to detach gateway %s from %s: %w", gatewayID, networkID, err)
	}
	return nil
}

// DeleteGateway deletes a detached gateway.
func (c *RealClient) DeleteGateway(ctx context.Context, gatewayID string) error {
	_, err := c.ec2.DeleteInternetGateway(ctx, &awsec2.DeleteInternetGatewayInput{InternetGatewayId: aws.String(gatewayID)})
	if err != nil {
		return fmt.Errorf("failed to delete gateway %s: %w", gatewayID, err)
	}
	return nil
}

// GetRouteTables lists route tables matching filters.
func (c *RealClient) GetRouteTables(ctx context.Context, filters ...Filter) ([]types.RouteTable, error) {
	p := awsec2.NewDescribeRouteTablesPaginator(c.ec2, &awsec2.DescribeRouteTablesInput{Filters: toSDKFilters(filters)})
	rts, err := collect(ctx, p, func(o *awsec2.DescribeRouteTablesOutput) []types.RouteTable { return o.RouteTables })
	if err != nil {
		return nil, fmt.Errorf("failed to describe route tables: %w", err)
	}
	return rts, nil
}

// CreateRouteTable creates an empty route table in a network.
func (c *RealClient) CreateRouteTable(ctx context.Context, networkID string) (*types.RouteTable, error) {
	out, err := c.ec2.CreateRouteTable(ctx, &awsec2.CreateRouteTableInput{VpcId: aws.String(networkID)})
	if err != nil {
		return nil, fmt.Errorf("failed to create route table in %s: %w", networkID, err)
	}
	return out.RouteTable, nil
}

// CreateRoute adds a route sending destinationCIDR to the gateway.
func (c *RealClient) CreateRoute(ctx context.Context, routeTableID, destinationCIDR, gatewayID string) error {
	_, err := c.ec2.CreateRoute(ctx, &awsec2.CreateRouteInput{
		RouteTableId:         aws.String(routeTableID),
		DestinationCidrBlock: aws.String(destinationCIDR),
		GatewayId:            aws.String(gatewayID),
	})
	if err != nil {
		return fmt.Errorf("failed to create route %s via %s in %s: %w", destinationCIDR, gatewayID, routeTableID, err)
	}
	return nil
}

// AssociateRouteTable binds a subnet to a route table.
func (c *RealClient) AssociateRouteTable(ctx context.Context, routeTableID, subnetID string) (string, error) {
	out, err := c.ec2.AssociateRouteTable(ctx, &awsec2.AssociateRouteTableInput{
		RouteTableId: aws.String(routeTableID),
		SubnetId:     aws.String(subnetID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to associate %s with %s: %w", subnetID, routeTableID, err)
	}
	return aws.ToString(out.AssociationId), nil
}

// DeleteRouteTable deletes a route table.
func (c *RealClient) DeleteRouteTable(ctx context.Context, routeTableID string) error {
	if _, err := c.ec2.DeleteRouteTable(ctx, &awsec2.DeleteRouteTableInput{RouteTableId: aws.String(routeTableID)}); err != nil {
		return fmt.Errorf("failed to delete route table %s: %w", routeTableID, err)
	}
	return nil
}

// GetSubnets lists subnets matching filters.
func (c *RealClient) GetSubnets(ctx context.Context, filters ...Filter) ([]types.Subnet, error) {
	p := awsec2.NewDescribeSubnetsPaginator(c.ec2, &awsec2.DescribeSubnetsInput{Filters: toSDKFilters(filters)})
	subnets, err := collect(ctx, p, func(o *awsec2.DescribeSubnetsOutput) []types.Subnet { return o.Subnets })
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets: %w", err)
	}
	return subnets, nil
}

// CreateSubnet creates a subnet of a network in one availability zone.
func (c *RealClient) CreateSubnet(ctx context.Context, networkID, cidr, availabilityZone string) (*types.Subnet, error) {
	out, err := c.ec2.CreateSubnet(ctx, &awsec2.CreateSubnetInput{
		VpcId:            aws.String(networkID),
		CidrBlock:        aws.String(cidr),
		AvailabilityZone: aws.String(availabilityZone),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subnet %s in %s: %w", cidr, networkID, err)
	}
	return out.Subnet, nil
}

// DeleteSubnet deletes a subnet.
func (c *RealClient) DeleteSubnet(ctx context.Context, subnetID string) error {
	if _, err := c.ec2.DeleteSubnet(ctx, &awsec2.DeleteSubnetInput{SubnetId: aws.String(subnetID)}); err != nil {
		return fmt.Errorf("failed to delete subnet %s: %w", subnetID, err)
	}
	return nil
}
