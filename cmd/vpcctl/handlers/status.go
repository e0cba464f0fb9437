package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imamik/vpcctl/internal/provisioning"
)

// collectInventory lists a network's resources. Replaced in tests.
var collectInventory = provisioning.CollectInventory

// Status handles the status command.
//
// It prints what currently exists inside the named network without changing
// anything, styled for a terminal or as JSON.
func Status(ctx context.Context, opts *GlobalOptions, name string, asJSON bool) error {
	cfg, err := loadConfig(opts, name)
	if err != nil {
		return err
	}

	cloud, err := connect(ctx, opts, cfg)
	if err != nil {
		return err
	}

	inv, err := collectInventory(ctx, cloud, cfg.Name)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(inv); err != nil {
			return fmt.Errorf("failed to encode inventory: %w", err)
		}
		return nil
	}

	fmt.Fprint(stdout, renderInventory(inv))
	return nil
}
