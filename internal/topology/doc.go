// Package topology renders the resource graph a network configuration
// converges to, as Graphviz DOT or Mermaid.
//
// Nodes are the resources the reconciler manages (network, gateway, route
// table, subnets, bastions, security group, key pair); edges point from a
// resource to the resources it depends on. The graph is derived from the
// configuration alone and needs no cloud access.
package topology
