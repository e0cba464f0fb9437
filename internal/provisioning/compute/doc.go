// Package compute converges the bastion layer of a network: the bastion
// security group, one bastion instance per subnet, and the elastic address of
// each bastion.
//
// A bastion is identified by its Name tag. A running instance with that name
// is reused as is; otherwise the key pair and security group are resolved and
// a new instance is launched into the subnet. Either way the phase yields one
// [provisioning.BastionNode] per subnet, in configuration order.
package compute
