package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vpcctl/cmd/vpcctl/handlers"
)

// CheckCredentials returns the check-credentials command.
func CheckCredentials(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check-credentials",
		Aliases: []string{"check_credentials"},
		Short:   "Verify or interactively store API credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CheckCredentials(cmd.Context(), opts)
		},
	}
}
