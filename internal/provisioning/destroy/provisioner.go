package destroy

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/imamik/vpcctl/internal/provisioning"
)

const phase = "destroy"

// StepError reports the teardown step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step name carried by err, or "".
func FailedStep(err error) string {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step
	}
	return ""
}

type step struct {
	name string
	run  func(ctx *provisioning.Context, networkID string) error
}

// Provisioner handles network teardown.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision deletes the network and all resources inside it.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	name := ctx.Config.Name
	ctx.Observer.Printf("[%s] Starting teardown of network %s", phase, name)

	vpc, err := provisioning.FindByName(ctx, ctx.Cloud.Network.GetNetworks, name)
	if err != nil {
		return fmt.Errorf("failed to look up network %s: %w", name, err)
	}
	if vpc == nil {
		ctx.Observer.Printf("[%s] Network %s not found, nothing to delete", phase, name)
		return nil
	}
	ctx.State.Network = vpc
	networkID := aws.ToString(vpc.VpcId)

	steps := []step{
		{"instances", p.deleteInstances},
		{"security groups", p.deleteSecurityGroups},
		{"subnets", p.deleteSubnets},
		{"route tables", p.deleteRouteTables},
		{"internet gateway", p.deleteGateway},
		{"network", p.deleteNetwork},
	}
	for i, s := range steps {
		if err := s.run(ctx, networkID); err != nil {
			return &StepError{Step: s.name, Err: err}
		}
		ctx.Observer.Progress(phase, i+1, len(steps))
	}

	ctx.Observer.Printf("[%s] Network %s destroyed", phase, name)
	return nil
}
