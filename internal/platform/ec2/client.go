package ec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Filter narrows a listing operation. Multiple values are ORed; multiple
// filters are ANDed.
type Filter struct {
	Name   string
	Values []string
}

// ByName matches resources whose Name tag equals name.
func ByName(name string) Filter {
	return Filter{Name: "tag:Name", Values: []string{name}}
}

// InNetwork matches resources that live in the given network.
func InNetwork(networkID string) Filter {
	return Filter{Name: "vpc-id", Values: []string{networkID}}
}

// AttachedToNetwork matches gateways attached to the given network.
func AttachedToNetwork(networkID string) Filter {
	return Filter{Name: "attachment.vpc-id", Values: []string{networkID}}
}

// InstanceStates matches instances in any of the given states.
func InstanceStates(states ...types.InstanceStateName) Filter {
	values := make([]string, len(states))
	for i, s := range states {
		values[i] = string(s)
	}
	return Filter{Name: "instance-state-name", Values: values}
}

// ByInstance matches resources bound to the given instance.
func ByInstance(instanceID string) Filter {
	return Filter{Name: "instance-id", Values: []string{instanceID}}
}

// ByGroupName matches security groups with the given group name.
func ByGroupName(name string) Filter {
	return Filter{Name: "group-name", Values: []string{name}}
}

// ByGroupID matches the security group with the given id.
func ByGroupID(id string) Filter {
	return Filter{Name: "group-id", Values: []string{id}}
}

// VPCDomain matches elastic addresses allocated for use in networks.
func VPCDomain() Filter {
	return Filter{Name: "domain", Values: []string{string(types.DomainTypeVpc)}}
}

// InstanceOpts holds the parameters for launching one instance.
type InstanceOpts struct {
	ImageID          string
	InstanceType     string
	KeyName          string
	SubnetID         string
	SecurityGroupIDs []string
}

// KeyPair is a freshly created key pair. Material is only available at creation.
type KeyPair struct {
	Name     string
	ID       string
	Material string
}

// Tagger sets tags on any resource by id. Existing keys are overwritten.
type Tagger interface {
	TagResource(ctx context.Context, resourceID string, tags map[string]string) error
}

// NetworkAPI manages networks, gateways, route tables and subnets.
type NetworkAPI interface {
	Tagger

	GetNetworks(ctx context.Context, filters ...Filter) ([]types.Vpc, error)
	CreateNetwork(ctx context.Context, cidr string) (*types.Vpc, error)
	DeleteNetwork(ctx context.Context, networkID string) error

	GetGateways(ctx context.Context, filters ...Filter) ([]types.InternetGateway, error)
	CreateGateway(ctx context.Context) (*types.InternetGateway, error)
	AttachGateway(ctx context.Context, gatewayID, networkID string) error
	DetachGateway(ctx context.Context, gatewayID, networkID string) error
	DeleteGateway(ctx context.Context, gatewayID string) error

	GetRouteTables(ctx context.Context, filters ...Filter) ([]types.RouteTable, error)
	CreateRouteTable(ctx context.Context, networkID string) (*types.RouteTable, error)
	// CreateRoute adds a route sending destinationCIDR to the gateway.
	CreateRoute(ctx context.Context, routeTableID, destinationCIDR, gatewayID string) error
	// AssociateRouteTable binds a subnet to a route table and returns the association id.
	AssociateRouteTable(ctx context.Context, routeTableID, subnetID string) (string, error)
	DeleteRouteTable(ctx context.Context, routeTableID string) error

	GetSubnets(ctx context.Context, filters ...Filter) ([]types.Subnet, error)
	CreateSubnet(ctx context.Context, networkID, cidr, availabilityZone string) (*types.Subnet, error)
	DeleteSubnet(ctx context.Context, subnetID string) error
}

// ComputeAPI manages security groups, instances, elastic addresses and key pairs.
type ComputeAPI interface {
	Tagger

	GetSecurityGroups(ctx context.Context, filters ...Filter) ([]types.SecurityGroup, error)
	// CreateSecurityGroup creates a group in the network and returns its id.
	CreateSecurityGroup(ctx context.Context, networkID, name, description string) (string, error)
	AuthorizeIngress(ctx context.Context, groupID string, rules []types.IpPermission) error
	AuthorizeEgress(ctx context.Context, groupID string, rules []types.IpPermission) error
	RevokeIngress(ctx context.Context, groupID string, rules []types.IpPermission) error
	RevokeEgress(ctx context.Context, groupID string, rules []types.IpPermission) error
	DeleteSecurityGroup(ctx context.Context, groupID string) error

	RunInstance(ctx context.Context, opts InstanceOpts) (*types.Instance, error)
	GetInstances(ctx context.Context, filters ...Filter) ([]types.Instance, error)
	// GetInstance refreshes one instance. Returns nil if the id is unknown.
	GetInstance(ctx context.Context, instanceID string) (*types.Instance, error)
	TerminateInstance(ctx context.Context, instanceID string) error

	GetAddresses(ctx context.Context, filters ...Filter) ([]types.Address, error)
	AllocateAddress(ctx context.Context) (*types.Address, error)
	// AssociateAddress binds an allocated address to an instance and returns the association id.
	AssociateAddress(ctx context.Context, allocationID, instanceID string) (string, error)
	DisassociateAddress(ctx context.Context, associationID string) error
	ReleaseAddress(ctx context.Context, allocationID string) error

	// GetKeyPair returns the named key pair, or nil if it does not exist.
	GetKeyPair(ctx context.Context, name string) (*types.KeyPairInfo, error)
	CreateKeyPair(ctx context.Context, name string) (*KeyPair, error)
}

// Client combines both capability groups.
type Client interface {
	NetworkAPI
	ComputeAPI
}

// TCPRule returns a rule allowing TCP traffic on a single port from or to cidr.
func TCPRule(port int32, cidr string) types.IpPermission {
	return types.IpPermission{
		IpProtocol: aws.String("tcp"),
		FromPort:   aws.Int32(port),
		ToPort:     aws.Int32(port),
		IpRanges:   []types.IpRange{{CidrIp: aws.String(cidr)}},
	}
}

// TagValue returns the value of key in tags, or "".
func TagValue(tags []types.Tag, key string) string {
	for _, t := range tags {
		if t.Key != nil && *t.Key == key {
			return aws.ToString(t.Value)
		}
	}
	return ""
}

// NameOf returns the Name tag of a tag set.
func NameOf(tags []types.Tag) string {
	return TagValue(tags, "Name")
}
