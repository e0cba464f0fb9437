package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vpcctl/cmd/vpcctl/handlers"
)

// Status returns the status command.
func Status(opts *handlers.GlobalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status [name]",
		Short: "Show the resources that currently exist in a network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Status(cmd.Context(), opts, networkName(args), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the inventory as JSON")

	return cmd
}
