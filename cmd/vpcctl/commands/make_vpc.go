package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vpcctl/cmd/vpcctl/handlers"
)

// MakeVPC returns the make-vpc command.
func MakeVPC(opts *handlers.GlobalOptions) *cobra.Command {
	var mk handlers.MakeOptions

	cmd := &cobra.Command{
		Use:     "make-vpc [name]",
		Aliases: []string{"make_vpc"},
		Short:   "Create or converge a network and its bastion hosts",
		Long: `Make-vpc converges the network described by <config-dir>/<name>.yaml.

Missing resources are created in dependency order:
  - Network, internet gateway and the "public" route table
  - One subnet per configuration section
  - Key pair (backed up to the key bucket), security group
  - One bastion instance with an elastic IP per subnet

Existing resources are reused and never modified, so the command can be
re-run safely after an interruption. Afterwards a connect_<bastion> script
is written for every host.

Example:
  vpcctl make-vpc midkemia`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.MakeVPC(cmd.Context(), opts, networkName(args), mk)
		},
	}

	cmd.Flags().BoolVar(&mk.SkipBootstrap, "skip-bootstrap", false, "Do not run bootstrap_commands on the bastions")
	cmd.Flags().StringVar(&mk.ScriptDir, "script-dir", ".", "Directory to write connect scripts to")

	return cmd
}
