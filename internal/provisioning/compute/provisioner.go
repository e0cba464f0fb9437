package compute

import (
	"fmt"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/provisioning"
)

const phase = "compute"

// Provisioner handles bastion provisioning (security group, instances, addresses).
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
// Bastions are converged one subnet at a time, in configuration order.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if ctx.State.NetworkID() == "" {
		return fmt.Errorf("network not initialized in provisioning state")
	}

	total := len(ctx.Config.Subnets)
	ctx.State.Bastions = make([]provisioning.BastionNode, 0, total)
	for i, subnet := range ctx.Config.Subnets {
		node, err := p.EnsureBastion(ctx, subnet)
		if err != nil {
			return fmt.Errorf("bastion %s: %w", subnet.BastionHostName, err)
		}
		ctx.State.Bastions = append(ctx.State.Bastions, node)
		ctx.Observer.Progress(phase, i+1, total)
	}
	return nil
}

func nodeFor(ctx *provisioning.Context, subnet config.SubnetConfig, publicIP string) provisioning.BastionNode {
	return provisioning.BastionNode{
		Name:     subnet.BastionHostName,
		PublicIP: publicIP,
		User:     ctx.Config.DefaultLoginUser,
		KeyFile:  ctx.KeyFile(),
	}
}
