package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vpcctl/cmd/vpcctl/handlers"
)

// Graph returns the graph command.
func Graph(opts *handlers.GlobalOptions) *cobra.Command {
	var (
		format  string
		cluster bool
	)

	cmd := &cobra.Command{
		Use:   "graph [name]",
		Short: "Render the topology of a network configuration",
		Long: `Graph prints the resources a configuration converges to and their
dependencies, as Graphviz DOT or Mermaid.

Example:
  vpcctl graph midkemia --format mermaid`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return handlers.Graph(opts, networkName(args), format, cluster)
		},
	}

	cmd.Flags().StringVar(&format, "format", "dot", "Output format (dot or mermaid)")
	cmd.Flags().BoolVar(&cluster, "cluster", false, "Group each subnet and its bastion")

	return cmd
}
