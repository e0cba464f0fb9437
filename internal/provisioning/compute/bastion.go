package compute

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/vpcctl/internal/config"
	ec2internal "github.com/imamik/vpcctl/internal/platform/ec2"
	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/provisioning/keys"
	"github.com/imamik/vpcctl/internal/util/labels"
)

// EnsureBastion converges the bastion of one subnet and returns its node.
//
// A running instance carrying the bastion name is reused: only its local key
// file and public address are ensured. Otherwise a new instance is launched,
// awaited until running, tagged and given an elastic address.
func (p *Provisioner) EnsureBastion(ctx *provisioning.Context, subnet config.SubnetConfig) (provisioning.BastionNode, error) {
	name := subnet.BastionHostName

	existing, err := p.findRunningBastion(ctx, name)
	if err != nil {
		return provisioning.BastionNode{}, err
	}
	if existing != nil {
		provisioning.LogResourceExists(ctx.Observer, phase, provisioning.KindInstance, name, aws.ToString(existing.InstanceId))
		if err := keys.EnsureLocalKeyFile(ctx); err != nil {
			return provisioning.BastionNode{}, err
		}
		ip, err := p.EnsurePublicAddress(ctx, name, existing)
		if err != nil {
			return provisioning.BastionNode{}, err
		}
		return nodeFor(ctx, subnet, ip), nil
	}

	inst, err := p.launchBastion(ctx, subnet)
	if err != nil {
		return provisioning.BastionNode{}, err
	}
	ip, err := p.EnsurePublicAddress(ctx, name, inst)
	if err != nil {
		return provisioning.BastionNode{}, err
	}
	ctx.Observer.Printf("[%s] %s is reachable at %s", phase, name, ip)
	return nodeFor(ctx, subnet, ip), nil
}

// findRunningBastion returns the first running instance of the network named
// name, or nil.
func (p *Provisioner) findRunningBastion(ctx *provisioning.Context, name string) (*types.Instance, error) {
	instances, err := ctx.Cloud.Compute.GetInstances(ctx,
		ec2internal.ByName(name),
		ec2internal.InNetwork(ctx.State.NetworkID()),
		ec2internal.InstanceStates(types.InstanceStateNameRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up instance %s: %w", name, err)
	}
	if len(instances) == 0 {
		return nil, nil
	}
	return &instances[0], nil
}

// launchBastion resolves the key pair and security group, launches one
// instance into the subnet, waits for it to run and tags it.
func (p *Provisioner) launchBastion(ctx *provisioning.Context, subnet config.SubnetConfig) (*types.Instance, error) {
	name := subnet.BastionHostName

	subnetID, err := ctx.State.SubnetID(subnet.Name)
	if err != nil {
		return nil, err
	}
	keyName, err := p.ensureKeyPair(ctx)
	if err != nil {
		return nil, err
	}
	groupID, err := p.EnsureSecurityGroup(ctx)
	if err != nil {
		return nil, err
	}

	provisioning.LogResourceCreating(ctx.Observer, phase, provisioning.KindInstance, name)
	launched, err := ctx.Cloud.Compute.RunInstance(ctx, ec2internal.InstanceOpts{
		ImageID:          ctx.Config.DefaultImageID,
		InstanceType:     ctx.Config.DefaultInstanceType,
		KeyName:          keyName,
		SubnetID:         subnetID,
		SecurityGroupIDs: []string{groupID},
	})
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindInstance, name, err)
		return nil, fmt.Errorf("failed to launch instance %s: %w", name, err)
	}
	id := aws.ToString(launched.InstanceId)

	ctx.Observer.Printf("[%s] Waiting for %s %s to start...", phase, name, id)
	inst, err := provisioning.WaitForInstanceState(ctx, id, types.InstanceStateNameRunning)
	if err != nil {
		provisioning.LogResourceFailed(ctx.Observer, phase, provisioning.KindInstance, name, err)
		return nil, err
	}

	lb := labels.NewLabelBuilder(name, ctx.Config.Name).WithRole(labels.RoleBastion)
	if err := provisioning.TagWith(ctx, ctx.Cloud.Compute, id, lb); err != nil {
		return nil, err
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, provisioning.KindInstance, name, id)
	return inst, nil
}

func (p *Provisioner) ensureKeyPair(ctx *provisioning.Context) (string, error) {
	if ctx.State.KeyName != "" {
		return ctx.State.KeyName, nil
	}
	return keys.ResolveKeyPair(ctx)
}
