package infrastructure

import (
	"github.com/imamik/vpcctl/internal/provisioning"
)

const phase = "infrastructure"

// Provisioner handles infrastructure provisioning (network, gateway, routing, subnets).
type Provisioner struct{}

// NewProvisioner creates a new infrastructure provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	// 1. Network
	if err := p.ProvisionNetwork(ctx); err != nil {
		return err
	}

	// 2. Internet gateway
	if err := p.ProvisionGateway(ctx); err != nil {
		return err
	}

	// 3. Public route table
	if err := p.ProvisionRouteTable(ctx); err != nil {
		return err
	}

	// 4. Subnets
	return p.ProvisionSubnets(ctx)
}
