package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vpcctl/cmd/vpcctl/handlers"
)

// DeleteVPC returns the delete-vpc command.
func DeleteVPC(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete-vpc [name]",
		Aliases: []string{"delete_vpc"},
		Short:   "Delete a network and everything inside it",
		Long: `Delete-vpc removes the network described by <config-dir>/<name>.yaml and
its contents in dependency order:
  - Bastion instances and their elastic IPs
  - Security groups
  - Subnets and route tables
  - Internet gateway
  - The network itself

A network that does not exist is not an error.

WARNING: This operation is irreversible.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DeleteVPC(cmd.Context(), opts, networkName(args))
		},
	}
}
