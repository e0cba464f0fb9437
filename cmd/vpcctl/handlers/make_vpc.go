package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/provisioning/bootstrap"
	"github.com/imamik/vpcctl/internal/provisioning/compute"
	"github.com/imamik/vpcctl/internal/provisioning/infrastructure"
	"github.com/imamik/vpcctl/internal/util/prerequisites"
)

// MakeOptions are the make-vpc specific settings.
type MakeOptions struct {
	SkipBootstrap bool
	ScriptDir     string
}

// Factory function variables for make-vpc - can be replaced in tests.
var (
	newInfraProvisioner = func() provisioning.Phase {
		return infrastructure.NewProvisioner()
	}

	newComputeProvisioner = func() provisioning.Phase {
		return compute.NewProvisioner()
	}

	newBootstrapProvisioner = func() provisioning.Phase {
		return bootstrap.NewProvisioner()
	}

	// checkTools looks up local client tools.
	checkTools = prerequisites.Check
)

// MakeVPC handles the make-vpc command.
//
// It converges the named network toward its configuration:
//  1. Validates the configuration
//  2. Ensures network, internet gateway, route table and subnets
//  3. Ensures key pair, security group and one bastion per subnet
//  4. Runs the bootstrap commands on every bastion (unless skipped)
//  5. Writes a connect script per bastion and prints a summary
func MakeVPC(ctx context.Context, opts *GlobalOptions, name string, mk MakeOptions) error {
	cfg, err := loadConfig(opts, name)
	if err != nil {
		return err
	}

	sess, err := newSession(opts, cfg.Name)
	if err != nil {
		return err
	}
	defer sess.close()

	cloud, err := connect(ctx, opts, cfg)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, cloud, opts.stateDir(), sess.observer)

	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(),
		newInfraProvisioner(),
		newComputeProvisioner(),
	}
	if mk.SkipBootstrap {
		sess.observer.Printf("Bootstrap skipped")
	} else {
		phases = append(phases, newBootstrapProvisioner())
	}

	if err := provisioning.RunPhases(pCtx, phases); err != nil {
		return fmt.Errorf("make-vpc %s failed: %w", cfg.Name, err)
	}

	scripts, err := writeConnectScripts(mk.ScriptDir, pCtx.State.Bastions)
	if err != nil {
		return err
	}

	for _, warning := range checkTools(prerequisites.ConnectTools()).Warnings() {
		sess.observer.Printf("Warning: %s", warning)
	}

	fmt.Fprint(stdout, renderBastionSummary(cfg.Name, pCtx.State.Bastions, scripts))
	return nil
}
