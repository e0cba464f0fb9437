package provisioning

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/util/labels"
)

// Resource kinds reported in an Inventory and used as the "type" event field.
const (
	KindNetwork       = "network"
	KindGateway       = "internet-gateway"
	KindRouteTable    = "route-table"
	KindSubnet        = "subnet"
	KindSecurityGroup = "security-group"
	KindInstance      = "instance"
	KindAddress       = "elastic-ip"
	KindKeyPair       = "key-pair"
)

// InventoryItem is one remote resource belonging to a network.
type InventoryItem struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Inventory is a read-only snapshot of everything inside a network.
type Inventory struct {
	Network   string          `json:"network"`
	NetworkID string          `json:"network_id,omitempty"`
	Items     []InventoryItem `json:"items"`
}

// Exists reports whether the network was found.
func (inv *Inventory) Exists() bool {
	return inv.NetworkID != ""
}

// Count returns the number of items of a kind.
func (inv *Inventory) Count(kind string) int {
	n := 0
	for _, item := range inv.Items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

// CollectInventory lists the resources of the named network without
// changing anything. A missing network yields an empty inventory.
func CollectInventory(ctx context.Context, cloud Cloud, network string) (*Inventory, error) {
	inv := &Inventory{Network: network, Items: []InventoryItem{}}

	vpc, err := FindByName(ctx, cloud.Network.GetNetworks, network)
	if err != nil {
		return nil, fmt.Errorf("failed to look up network %s: %w", network, err)
	}
	if vpc == nil {
		return inv, nil
	}
	networkID := aws.ToString(vpc.VpcId)
	inv.NetworkID = networkID
	inv.add(KindNetwork, networkID, network, aws.ToString(vpc.CidrBlock))

	gateways, err := cloud.Network.GetGateways(ctx, ec2internal.AttachedToNetwork(networkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list gateways: %w", err)
	}
	for _, gw := range gateways {
		inv.add(KindGateway, aws.ToString(gw.InternetGatewayId), ec2internal.NameOf(gw.Tags), "attached")
	}

	routeTables, err := cloud.Network.GetRouteTables(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list route tables: %w", err)
	}
	for _, rt := range routeTables {
		detail := fmt.Sprintf("%d routes", len(rt.Routes))
		if IsMainRouteTable(rt) {
			detail = "main, " + detail
		}
		inv.add(KindRouteTable, aws.ToString(rt.RouteTableId), ec2internal.NameOf(rt.Tags), detail)
	}

	subnets, err := cloud.Network.GetSubnets(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list subnets: %w", err)
	}
	for _, s := range subnets {
		inv.add(KindSubnet, aws.ToString(s.SubnetId), ec2internal.NameOf(s.Tags),
			aws.ToString(s.CidrBlock)+" "+aws.ToString(s.AvailabilityZone))
	}

	groups, err := cloud.Compute.GetSecurityGroups(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list security groups: %w", err)
	}
	for _, g := range groups {
		inv.add(KindSecurityGroup, aws.ToString(g.GroupId), aws.ToString(g.GroupName),
			fmt.Sprintf("%d ingress, %d egress", len(g.IpPermissions), len(g.IpPermissionsEgress)))
	}

	instances, err := cloud.Compute.GetInstances(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	inNetwork := make(map[string]bool, len(instances))
	for i := range instances {
		inst := &instances[i]
		id := aws.ToString(inst.InstanceId)
		inNetwork[id] = true
		detail := string(ec2internal.InstanceState(inst))
		if ip := aws.ToString(inst.PublicIpAddress); ip != "" {
			detail += " " + ip
		}
		inv.add(KindInstance, id, ec2internal.NameOf(inst.Tags), detail)
	}

	addresses, err := cloud.Compute.GetAddresses(ctx, ec2internal.VPCDomain())
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	for _, addr := range addresses {
		if !inNetwork[aws.ToString(addr.InstanceId)] && ec2internal.TagValue(addr.Tags, labels.KeyNetwork) != network {
			continue
		}
		inv.add(KindAddress, aws.ToString(addr.AllocationId), ec2internal.NameOf(addr.Tags), addressDetail(addr))
	}

	return inv, nil
}

func (inv *Inventory) add(kind, id, name, detail string) {
	inv.Items = append(inv.Items, InventoryItem{Kind: kind, ID: id, Name: name, Detail: strings.TrimSpace(detail)})
}

func addressDetail(addr types.Address) string {
	if instanceID := aws.ToString(addr.InstanceId); instanceID != "" {
		return aws.ToString(addr.PublicIp) + " -> " + instanceID
	}
	return aws.ToString(addr.PublicIp) + " (unassociated)"
}

// IsMainRouteTable reports whether a route table is its network's implicit
// main table.
func IsMainRouteTable(rt types.RouteTable) bool {
	for _, assoc := range rt.Associations {
		if aws.ToBool(assoc.Main) {
			return true
		}
	}
	return false
}
