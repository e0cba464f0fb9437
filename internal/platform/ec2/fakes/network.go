package fakes

import (
	"context"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
)

func cloneVpc(v *types.Vpc) types.Vpc {
	out := *v
	out.Tags = slices.Clone(v.Tags)
	return out
}

func vpcAttrs(v *types.Vpc) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "vpc-id":
			return one(aws.ToString(v.VpcId)), true
		case "cidr":
			return one(aws.ToString(v.CidrBlock)), true
		}
		return nil, false
	}
}

// GetNetworks lists networks matching filters.
func (c *Cloud) GetNetworks(_ context.Context, filters ...ec2internal.Filter) ([]types.Vpc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetNetworks"); err != nil {
		return nil, err
	}
	return filterList(c.vpcs, filters, func(v *types.Vpc) []types.Tag { return v.Tags }, vpcAttrs, cloneVpc)
}

// CreateNetwork creates a network together with its main route table and
// default security group, as the provider does.
func (c *Cloud) CreateNetwork(_ context.Context, cidr string) (*types.Vpc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateNetwork"); err != nil {
		return nil, err
	}

	vpc := &types.Vpc{
		VpcId:     aws.String(c.newID("vpc")),
		CidrBlock: aws.String(cidr),
		State:     types.VpcStateAvailable,
	}
	c.vpcs = append(c.vpcs, vpc)

	main := c.newRouteTable(aws.ToString(vpc.VpcId), cidr)
	main.Associations = []types.RouteTableAssociation{{
		Main:                    aws.Bool(true),
		RouteTableAssociationId: aws.String(c.newID("rtbassoc")),
		RouteTableId:            main.RouteTableId,
	}}

	c.securityGroups = append(c.securityGroups, &types.SecurityGroup{
		GroupId:             aws.String(c.newID("sg")),
		GroupName:           aws.String("default"),
		Description:         aws.String("default VPC security group"),
		VpcId:               vpc.VpcId,
		IpPermissionsEgress: []types.IpPermission{allowAll()},
	})

	out := cloneVpc(vpc)
	return &out, nil
}

// DeleteNetwork deletes a network that no longer has dependents.
func (c *Cloud) DeleteNetwork(_ context.Context, networkID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteNetwork"); err != nil {
		return err
	}

	i := slices.IndexFunc(c.vpcs, func(v *types.Vpc) bool { return aws.ToString(v.VpcId) == networkID })
	if i < 0 {
		return apiError("InvalidVpcID.NotFound", "The vpc ID '%s' does not exist", networkID)
	}
	if c.networkHasDependents(networkID) {
		return apiError("DependencyViolation", "The vpc '%s' has dependencies and cannot be deleted.", networkID)
	}

	c.vpcs = slices.Delete(c.vpcs, i, i+1)
	c.routeTables = slices.DeleteFunc(c.routeTables, func(rt *types.RouteTable) bool { return aws.ToString(rt.VpcId) == networkID })
	c.securityGroups = slices.DeleteFunc(c.securityGroups, func(sg *types.SecurityGroup) bool { return aws.ToString(sg.VpcId) == networkID })
	return nil
}

func (c *Cloud) networkHasDependents(networkID string) bool {
	for _, s := range c.subnets {
		if aws.ToString(s.VpcId) == networkID {
			return true
		}
	}
	for _, g := range c.gateways {
		if attachedTo(g, networkID) {
			return true
		}
	}
	for _, rt := range c.routeTables {
		if aws.ToString(rt.VpcId) == networkID && !isMain(rt) {
			return true
		}
	}
	for _, sg := range c.securityGroups {
		if aws.ToString(sg.VpcId) == networkID && aws.ToString(sg.GroupName) != "default" {
			return true
		}
	}
	for _, inst := range c.instances {
		if aws.ToString(inst.VpcId) == networkID && inst.State.Name != types.InstanceStateNameTerminated {
			return true
		}
	}
	return false
}

func cloneGateway(g *types.InternetGateway) types.InternetGateway {
	out := *g
	out.Tags = slices.Clone(g.Tags)
	out.Attachments = slices.Clone(g.Attachments)
	return out
}

func gatewayAttrs(g *types.InternetGateway) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "internet-gateway-id":
			return one(aws.ToString(g.InternetGatewayId)), true
		case "attachment.vpc-id":
			var ids []string
			for _, a := range g.Attachments {
				ids = append(ids, aws.ToString(a.VpcId))
			}
			return ids, true
		}
		return nil, false
	}
}

func attachedTo(g *types.InternetGateway, networkID string) bool {
	return slices.ContainsFunc(g.Attachments, func(a types.InternetGatewayAttachment) bool {
		return aws.ToString(a.VpcId) == networkID
	})
}

func (c *Cloud) findGateway(id string) *types.InternetGateway {
	for _, g := range c.gateways {
		if aws.ToString(g.InternetGatewayId) == id {
			return g
		}
	}
	return nil
}

// GetGateways lists gateways matching filters.
func (c *Cloud) GetGateways(_ context.Context, filters ...ec2internal.Filter) ([]types.InternetGateway, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetGateways"); err != nil {
		return nil, err
	}
	return filterList(c.gateways, filters, func(g *types.InternetGateway) []types.Tag { return g.Tags }, gatewayAttrs, cloneGateway)
}

// CreateGateway creates a detached gateway.
func (c *Cloud) CreateGateway(_ context.Context) (*types.InternetGateway, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateGateway"); err != nil {
		return nil, err
	}
	g := &types.InternetGateway{InternetGatewayId: aws.String(c.newID("igw"))}
	c.gateways = append(c.gateways, g)
	out := cloneGateway(g)
	return &out, nil
}

// AttachGateway attaches a gateway to a network. A gateway attaches to at most one network.
func (c *Cloud) AttachGateway(_ context.Context, gatewayID, networkID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AttachGateway"); err != nil {
		return err
	}
	g := c.findGateway(gatewayID)
	if g == nil {
		return apiError("InvalidInternetGatewayID.NotFound", "The internetGateway ID '%s' does not exist", gatewayID)
	}
	if len(g.Attachments) > 0 {
		return apiError("Resource.AlreadyAssociated", "resource %s is already attached to network %s", gatewayID, aws.ToString(g.Attachments[0].VpcId))
	}
	g.Attachments = []types.InternetGatewayAttachment{{VpcId: aws.String(networkID), State: types.AttachmentStatusAttached}}
	return nil
}

// DetachGateway detaches a gateway from a network.
func (c *Cloud) DetachGateway(_ context.Context, gatewayID, networkID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DetachGateway"); err != nil {
		return err
	}
	g := c.findGateway(gatewayID)
	if g == nil {
		return apiError("InvalidInternetGatewayID.NotFound", "The internetGateway ID '%s' does not exist", gatewayID)
	}
	if !attachedTo(g, networkID) {
		return apiError("Gateway.NotAttached", "resource %s is not attached to network %s", gatewayID, networkID)
	}
	g.Attachments = nil
	return nil
}

// DeleteGateway deletes a detached gateway.
func (c *Cloud) DeleteGateway(_ context.Context, gatewayID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteGateway"); err != nil {
		return err
	}
	g := c.findGateway(gatewayID)
	if g == nil {
		return apiError("InvalidInternetGatewayID.NotFound", "The internetGateway ID '%s' does not exist", gatewayID)
	}
	if len(g.Attachments) > 0 {
		return apiError("DependencyViolation", "The internetGateway '%s' has dependencies and cannot be deleted.", gatewayID)
	}
	c.gateways = slices.DeleteFunc(c.gateways, func(x *types.InternetGateway) bool { return x == g })
	return nil
}

func cloneRouteTable(rt *types.RouteTable) types.RouteTable {
	out := *rt
	out.Tags = slices.Clone(rt.Tags)
	out.Routes = slices.Clone(rt.Routes)
	out.Associations = slices.Clone(rt.Associations)
	return out
}

func routeTableAttrs(rt *types.RouteTable) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "vpc-id":
			return one(aws.ToString(rt.VpcId)), true
		case "route-table-id":
			return one(aws.ToString(rt.RouteTableId)), true
		case "association.main":
			if isMain(rt) {
				return []string{"true"}, true
			}
			return []string{"false"}, true
		}
		return nil, false
	}
}

func isMain(rt *types.RouteTable) bool {
	return slices.ContainsFunc(rt.Associations, func(a types.RouteTableAssociation) bool { return aws.ToBool(a.Main) })
}

func (c *Cloud) newRouteTable(networkID, cidr string) *types.RouteTable {
	rt := &types.RouteTable{
		RouteTableId: aws.String(c.newID("rtb")),
		VpcId:        aws.String(networkID),
		Routes: []types.Route{{
			DestinationCidrBlock: aws.String(cidr),
			GatewayId:            aws.String("local"),
			State:                types.RouteStateActive,
		}},
	}
	c.routeTables = append(c.routeTables, rt)
	return rt
}

func (c *Cloud) findRouteTable(id string) *types.RouteTable {
	for _, rt := range c.routeTables {
		if aws.ToString(rt.RouteTableId) == id {
			return rt
		}
	}
	return nil
}

func (c *Cloud) findVpc(id string) *types.Vpc {
	for _, v := range c.vpcs {
		if aws.ToString(v.VpcId) == id {
			return v
		}
	}
	return nil
}

// GetRouteTables lists route tables matching filters.
func (c *Cloud) GetRouteTables(_ context.Context, filters ...ec2internal.Filter) ([]types.RouteTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetRouteTables"); err != nil {
		return nil, err
	}
	return filterList(c.routeTables, filters, func(rt *types.RouteTable) []types.Tag { return rt.Tags }, routeTableAttrs, cloneRouteTable)
}

// CreateRouteTable creates a route table holding only the local route.
func (c *Cloud) CreateRouteTable(_ context.Context, networkID string) (*types.RouteTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateRouteTable"); err != nil {
		return nil, err
	}
	vpc := c.findVpc(networkID)
	if vpc == nil {
		return nil, apiError("InvalidVpcID.NotFound", "The vpc ID '%s' does not exist", networkID)
	}
	out := cloneRouteTable(c.newRouteTable(networkID, aws.ToString(vpc.CidrBlock)))
	return &out, nil
}

// CreateRoute adds a route. Destinations are unique per table.
func (c *Cloud) CreateRoute(_ context.Context, routeTableID, destinationCIDR, gatewayID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateRoute"); err != nil {
		return err
	}
	rt := c.findRouteTable(routeTableID)
	if rt == nil {
		return apiError("InvalidRouteTableID.NotFound", "The routeTable ID '%s' does not exist", routeTableID)
	}
	if c.findGateway(gatewayID) == nil {
		return apiError("InvalidGatewayID.NotFound", "The gateway ID '%s' does not exist", gatewayID)
	}
	for _, r := range rt.Routes {
		if aws.ToString(r.DestinationCidrBlock) == destinationCIDR {
			return apiError("RouteAlreadyExists", "The route identified by %s already exists.", destinationCIDR)
		}
	}
	rt.Routes = append(rt.Routes, types.Route{
		DestinationCidrBlock: aws.String(destinationCIDR),
		GatewayId:            aws.String(gatewayID),
		State:                types.RouteStateActive,
	})
	return nil
}

// AssociateRouteTable binds a subnet to a route table. A subnet has at most
// one explicit association.
func (c *Cloud) AssociateRouteTable(_ context.Context, routeTableID, subnetID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AssociateRouteTable"); err != nil {
		return "", err
	}
	rt := c.findRouteTable(routeTableID)
	if rt == nil {
		return "", apiError("InvalidRouteTableID.NotFound", "The routeTable ID '%s' does not exist", routeTableID)
	}
	if c.findSubnet(subnetID) == nil {
		return "", apiError("InvalidSubnetID.NotFound", "The subnet ID '%s' does not exist", subnetID)
	}
	for _, other := range c.routeTables {
		for _, a := range other.Associations {
			if aws.ToString(a.SubnetId) == subnetID {
				return "", apiError("Resource.AlreadyAssociated", "the specified association for route table %s conflicts with an existing association", routeTableID)
			}
		}
	}
	id := c.newID("rtbassoc")
	rt.Associations = append(rt.Associations, types.RouteTableAssociation{
		RouteTableAssociationId: aws.String(id),
		RouteTableId:            rt.RouteTableId,
		SubnetId:                aws.String(subnetID),
		Main:                    aws.Bool(false),
	})
	return id, nil
}

// DeleteRouteTable deletes a route table without subnet associations.
func (c *Cloud) DeleteRouteTable(_ context.Context, routeTableID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteRouteTable"); err != nil {
		return err
	}
	rt := c.findRouteTable(routeTableID)
	if rt == nil {
		return apiError("InvalidRouteTableID.NotFound", "The routeTable ID '%s' does not exist", routeTableID)
	}
	if len(rt.Associations) > 0 {
		return apiError("DependencyViolation", "The routeTable '%s' has dependencies and cannot be deleted.", routeTableID)
	}
	c.routeTables = slices.DeleteFunc(c.routeTables, func(x *types.RouteTable) bool { return x == rt })
	return nil
}

func cloneSubnet(s *types.Subnet) types.Subnet {
	out := *s
	out.Tags = slices.Clone(s.Tags)
	return out
}

func subnetAttrs(s *types.Subnet) attrs {
	return func(name string) ([]string, bool) {
		switch name {
		case "vpc-id":
			return one(aws.ToString(s.VpcId)), true
		case "subnet-id":
			return one(aws.ToString(s.SubnetId)), true
		case "availability-zone":
			return one(aws.ToString(s.AvailabilityZone)), true
		}
		return nil, false
	}
}

func (c *Cloud) findSubnet(id string) *types.Subnet {
	for _, s := range c.subnets {
		if aws.ToString(s.SubnetId) == id {
			return s
		}
	}
	return nil
}

// GetSubnets lists subnets matching filters.
func (c *Cloud) GetSubnets(_ context.Context, filters ...ec2internal.Filter) ([]types.Subnet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetSubnets"); err != nil {
		return nil, err
	}
	return filterList(c.subnets, filters, func(s *types.Subnet) []types.Tag { return s.Tags }, subnetAttrs, cloneSubnet)
}

// CreateSubnet creates a subnet in a network.
func (c *Cloud) CreateSubnet(_ context.Context, networkID, cidr, availabilityZone string) (*types.Subnet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateSubnet"); err != nil {
		return nil, err
	}
	if c.findVpc(networkID) == nil {
		return nil, apiError("InvalidVpcID.NotFound", "The vpc ID '%s' does not exist", networkID)
	}
	s := &types.Subnet{
		SubnetId:         aws.String(c.newID("subnet")),
		VpcId:            aws.String(networkID),
		CidrBlock:        aws.String(cidr),
		AvailabilityZone: aws.String(availabilityZone),
		State:            types.SubnetStateAvailable,
	}
	c.subnets = append(c.subnets, s)
	out := cloneSubnet(s)
	return &out, nil
}

// DeleteSubnet deletes a subnet without live instances and drops its route
// table association.
func (c *Cloud) DeleteSubnet(_ context.Context, subnetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteSubnet"); err != nil {
		return err
	}
	s := c.findSubnet(subnetID)
	if s == nil {
		return apiError("InvalidSubnetID.NotFound", "The subnet ID '%s' does not exist", subnetID)
	}
	for _, inst := range c.instances {
		if aws.ToString(inst.SubnetId) == subnetID && inst.State.Name != types.InstanceStateNameTerminated {
			return apiError("DependencyViolation", "The subnet '%s' has dependencies and cannot be deleted.", subnetID)
		}
	}
	for _, rt := range c.routeTables {
		rt.Associations = slices.DeleteFunc(rt.Associations, func(a types.RouteTableAssociation) bool {
			return aws.ToString(a.SubnetId) == subnetID
		})
	}
	c.subnets = slices.DeleteFunc(c.subnets, func(x *types.Subnet) bool { return x == s })
	return nil
}
