// Package destroy tears down a network and everything in it.
//
// Teardown is restricted to the network found by name and runs in a fixed
// order that satisfies the provider's dependency checks: instances and their
// addresses, security groups, subnets, route tables, the internet gateway and
// finally the network. The first failing step aborts the run. A network that
// no longer exists is not an error, so teardown can be re-run safely.
package destroy
