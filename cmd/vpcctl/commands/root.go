// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vpcctl/cmd/vpcctl/handlers"
	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/provisioning"
)

// Root returns the root command for the vpcctl CLI.
//
// The persistent flags are shared by every subcommand.
func Root() *cobra.Command {
	opts := &handlers.GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "vpcctl",
		Short:         "Provision isolated AWS networks with bastion hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigDir, "config-dir", config.DefaultConfigDir, "Directory holding <name>.yaml network configurations")
	flags.StringVar(&opts.StateDir, "state-dir", provisioning.DefaultStateDir, "Directory for credentials and bastion key material")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFormat, "log-format", handlers.LogFormatConsole, "Log format (console or json)")
	flags.StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus text format to this file")

	cmd.AddCommand(MakeVPC(opts))
	cmd.AddCommand(DeleteVPC(opts))
	cmd.AddCommand(CheckCredentials(opts))
	cmd.AddCommand(Status(opts))
	cmd.AddCommand(Graph(opts))
	cmd.AddCommand(Version())

	return cmd
}

// networkName returns the optional positional network name.
func networkName(args []string) string {
	if len(args) == 0 {
		return config.DefaultNetworkName
	}
	return args[0]
}
