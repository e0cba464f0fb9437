package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/vpcctl/internal/provisioning"
	"github.com/imamik/vpcctl/internal/provisioning/destroy"
)

// newDestroyProvisioner creates the teardown phase. Replaced in tests.
var newDestroyProvisioner = func() provisioning.Phase {
	return destroy.NewProvisioner()
}

// DeleteVPC handles the delete-vpc command.
//
// It removes everything inside the named network in dependency order, then
// the network itself. The key pair and its backup are kept so a later
// make-vpc can reuse them.
func DeleteVPC(ctx context.Context, opts *GlobalOptions, name string) error {
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
	if err := provisioning.RunPhases(pCtx, []provisioning.Phase{newDestroyProvisioner()}); err != nil {
		return fmt.Errorf("delete-vpc %s failed: %w", cfg.Name, err)
	}

	fmt.Fprintln(stdout, renderDeleted(cfg.Name))
	return nil
}
