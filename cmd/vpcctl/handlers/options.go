// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework. Collaborators that reach the network or
// the terminal are package variables replaced in tests.
package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/provisioning"
)

// GlobalOptions are the settings shared by every command.
type GlobalOptions struct {
	ConfigDir       string
	StateDir        string
	LogLevel        string
	LogFormat       string
	MetricsTextfile string
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfigFile reads and validates a network configuration file.
	loadConfigFile = config.Load

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// stdout receives command output that is not logging.
	stdout io.Writer = os.Stdout

	// stderr receives warnings of commands that run without a logger.
	stderr io.Writer = os.Stderr
)

func (o *GlobalOptions) stateDir() string {
	if o.StateDir == "" {
		return provisioning.DefaultStateDir
	}
	return o.StateDir
}

// loadConfig resolves a config name to its file and loads it. The config name
// only selects the file; resources are named after the network in it.
func loadConfig(opts *GlobalOptions, name string) (*config.NetworkConfig, error) {
	if name == "" {
		name = config.DefaultNetworkName
	}
	cfg, err := loadConfigFile(config.Resolve(opts.ConfigDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration for %s: %w", name, err)
	}
	return cfg, nil
}
