package compute

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/labels"
)

// EnsurePublicAddress returns the public address of a running bastion
// instance, associating an elastic address when it has none.
//
// A free address already tagged with the bastion name is reused, which
// recovers from a run that stopped between allocation and association.
// Otherwise a new address is allocated and tagged.
func (p *Provisioner) EnsurePublicAddress(ctx *provisioning.Context, name string, inst *types.Instance) (string, error) {
	if ip := aws.ToString(inst.PublicIpAddress); ip != "" {
		return ip, nil
	}
	instanceID := aws.ToString(inst.InstanceId)

	addr, err := p.findFreeAddress(ctx, name)
	if err != nil {
		return "", err
	}
	if addr != nil {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindAddress, name, aws.ToString(addr.AllocationId))
	} else {
		provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindAddress, name)
		addr, err = ctx.Cloud.Compute.AllocateAddress(ctx)
		if err != nil {
			provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindAddress, name, err)
			return "", fmt.Errorf("failed to allocate elastic address for %s: %w", name, err)
		}
		lb := labels.NewLabelBuilder(name, ctx.Config.Name).WithRole(labels.RoleBastion)
		if err := provisioning.TagWith(ctx, ctx.Cloud.Compute, aws.ToString(addr.AllocationId), lb); err != nil {
			return "", err
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindAddress, name, aws.ToString(addr.AllocationId))
	}

	allocationID := aws.ToString(addr.AllocationId)
	if _, err := ctx.Cloud.Compute.AssociateAddress(ctx, allocationID, instanceID); err != nil {
		return "", fmt.Errorf("failed to associate %s with %s: %w", allocationID, instanceID, err)
	}
	ip := aws.ToString(addr.PublicIp)
	ctx.Observer.Printf("[%s] %s is associated with elastic address %s", phase, name, ip)
	return ip, nil
}

// findFreeAddress returns the first unassociated network address tagged with
// name, or nil.
func (p *Provisioner) findFreeAddress(ctx *provisioning.Context, name string) (*types.Address, error) {
	addrs, err := ctx.Cloud.Compute.GetAddresses(ctx, ec2internal.ByName(name), ec2internal.VPCDomain())
	if err != nil {
		return nil, fmt.Errorf("failed to look up elastic addresses for %s: %w", name, err)
	}
	for i := range addrs {
		if addrs[i].AssociationId == nil {
			return &addrs[i], nil
		}
	}
	return nil, nil
}
