package topology

import (
	"fmt"
	"io"
	"strings"

	"github.com/emicklei/dot"

	"github.com/imamik/vpcctl/internal/config"
	"github.com/imamik/vpcctl/internal/util/naming"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for markdown rendering.
	FormatMermaid Format = "mermaid"
)

// ParseFormat validates a format name. The empty string selects DOT.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatDOT:
		return FormatDOT, nil
	case FormatMermaid:
		return FormatMermaid, nil
	default:
		return "", fmt.Errorf("unknown graph format %q (want %s or %s)", s, FormatDOT, FormatMermaid)
	}
}

// Generator creates topology graphs from network configurations.
type Generator struct {
	// Format specifies the output format. Defaults to dot.
	Format Format

	// ClusterSubnets draws each subnet and its bastion in its own cluster.
	ClusterSubnets bool
}

// Generate writes the graph of cfg to w.
func (g *Generator) Generate(cfg *config.NetworkConfig, w io.Writer) error {
	graph := g.buildGraph(cfg)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the graph of cfg as a string.
func (g *Generator) GenerateString(cfg *config.NetworkConfig) (string, error) {
	var sb strings.Builder
	if err := g.Generate(cfg, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(cfg *config.NetworkConfig) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "BT")
	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	network := graph.Node(nodeID("network", cfg.Name)).Label(label("vpc", cfg.Name+" "+cfg.CIDRBlock))
	gateway := graph.Node(nodeID("gateway", naming.Gateway(cfg.Name))).Label(label("internet gateway", naming.Gateway(cfg.Name)))
	routes := graph.Node(nodeID("route-table", naming.RouteTable)).Label(label("route table", naming.RouteTable+" 0.0.0.0/0"))
	group := graph.Node(nodeID("security-group", naming.SecurityGroup(cfg.Name))).Label(label("security group", naming.SecurityGroup(cfg.Name)))
	key := graph.Node(nodeID("key-pair", naming.KeyPair(cfg.Name))).Label(label("key pair", naming.KeyPair(cfg.Name)))
	group.Attr("shape", "hexagon")
	key.Attr("shape", "note")

	graph.Edge(gateway, network, "attached")
	graph.Edge(routes, gateway, "default route")

	for _, subnet := range cfg.Subnets {
		parent := graph
		if g.ClusterSubnets {
			parent = graph.Subgraph(subnet.AvailabilityZone+" "+subnet.Name, dot.ClusterOption{})
			parent.Attr("style", "rounded")
		}

		sn := parent.Node(nodeID("subnet", subnet.Name)).
			Label(label("subnet", subnet.Name+" "+subnet.CIDRBlock))
		bastion := parent.Node(nodeID("bastion", subnet.BastionHostName)).
			Label(label("bastion", subnet.BastionHostName))
		bastion.Attr("shape", "component")

		graph.Edge(sn, routes, "associated")
		graph.Edge(bastion, sn)
		graph.Edge(bastion, group)
		graph.Edge(bastion, key)
	}

	return graph
}

// nodeID builds an identifier that is unique across kinds and safe for
// both output formats.
func nodeID(kind, name string) string {
	id := kind + "_" + name
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

func label(kind, name string) string {
	return kind + ": " + name
}
