package handlers

import (
	"fmt"

	"github.com/imamik/vpcctl/internal/topology"
	"github.com/imamik/vpcctl/internal/util/prerequisites"
)

// Graph handles the graph command.
//
// It renders the topology the named configuration converges to. No
// credentials are needed.
func Graph(opts *GlobalOptions, name, format string, clusterSubnets bool) error {
	f, err := topology.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts, name)
	if err != nil {
		return err
	}

	if f == topology.FormatDOT {
		for _, warning := range checkTools(prerequisites.GraphTools()).Warnings() {
			fmt.Fprintf(stderr, "Warning: %s\n", warning)
		}
	}

	gen := &topology.Generator{Format: f, ClusterSubnets: clusterSubnets}
	return gen.Generate(cfg, stdout)
}
