package destroy

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/util/labels"
)

// deleteInstances releases the addresses of every live instance in the
// network, terminates it and waits for termination. Free addresses tagged
// with the network are released afterwards.
func (p *Provisioner) deleteInstances(ctx *provisioning.Context, networkID string) error {
	instances, err := ctx.Cloud.Compute.GetInstances(ctx, ec2internal.InNetwork(networkID))
	if err != nil {
		return fmt.Errorf("failed to list instances: %w", err)
	}

	for i := range instances {
		inst := &instances[i]
		if ec2internal.InstanceState(inst) == types.InstanceStateNameTerminated {
			continue
		}
		if err := p.deleteInstance(ctx, inst); err != nil {
			return err
		}
	}

	return p.releaseFreeAddresses(ctx)
}

func (p *Provisioner) deleteInstance(ctx *provisioning.Context, inst *types.Instance) error {
	id := aws.ToString(inst.InstanceId)
	name := ec2internal.NameOf(inst.Tags)
	if name == "" {
		name = id
	}

	addrs, err := ctx.Cloud.Compute.GetAddresses(ctx, ec2internal.ByInstance(id))
	if err != nil {
		return fmt.Errorf("failed to list addresses of %s: %w", id, err)
	}
	for i := range addrs {
		if err := p.releaseAddress(ctx, &addrs[i]); err != nil {
			return err
		}
	}

	provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindInstance, name)
	if err := ctx.Cloud.Compute.TerminateInstance(ctx, id); err != nil {
		return fmt.Errorf("failed to terminate %s: %w", id, err)
	}
	ctx.Observer.Printf("[%s] Waiting for %s %s to terminate...", phase, name, id)
	if _, err := provisioning.WaitForInstanceState(ctx, id, types.InstanceStateNameTerminated); err != nil {
		return err
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindInstance, name)
	return nil
}

// releaseFreeAddresses releases unassociated addresses tagged with the
// network, as left by a run that stopped between allocate and associate.
func (p *Provisioner) releaseFreeAddresses(ctx *provisioning.Context) error {
	addrs, err := ctx.Cloud.Compute.GetAddresses(ctx,
		ec2internal.VPCDomain(),
		ec2internal.Filter{Name: "tag:" + labels.KeyNetwork, Values: []string{ctx.Config.Name}},
	)
	if err != nil {
		return fmt.Errorf("failed to list addresses: %w", err)
	}
	for i := range addrs {
		if addrs[i].AssociationId != nil {
			continue
		}
		if err := p.releaseAddress(ctx, &addrs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provisioner) releaseAddress(ctx *provisioning.Context, addr *types.Address) error {
	allocationID := aws.ToString(addr.AllocationId)
	name := ec2internal.NameOf(addr.Tags)
	if name == "" {
		name = aws.ToString(addr.PublicIp)
	}

	provisioning.LogResourceDeleting(ctx.Observer, phase, provisioning.KindAddress, name)
	if assoc := aws.ToString(addr.AssociationId); assoc != "" {
		if err := ctx.Cloud.Compute.DisassociateAddress(ctx, assoc); err != nil {
			return fmt.Errorf("failed to disassociate %s: %w", allocationID, err)
		}
	}
	if err := ctx.Cloud.Compute.ReleaseAddress(ctx, allocationID); err != nil {
		return fmt.Errorf("failed to release %s: %w", allocationID, err)
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, provisioning.KindAddress, name)
	return nil
}
