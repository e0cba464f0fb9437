// Package provisioning provides shared types, interfaces, and orchestration for network provisioning.
//
// # Subpackages
//
//   - infrastructure/: Network, internet gateway, public route table, subnets
//   - keys/: Bastion key pair, local key file, bucket backup
//   - compute/: Bastion security group, instances, elastic addresses
//   - bootstrap/: Optional remote commands on each bastion after convergence
//   - destroy/: Ordered teardown of everything inside a network
//
// # Core Types
//
// Context carries configuration, state, cloud clients, poll policy, and observer.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (network, gateway, route table, subnets, bastions).
//
// Convergence primitives (FindByName, FindByNameInNetwork, TagWithName,
// WaitForInstanceState) implement the get-or-create pattern every phase is built on.
package provisioning
