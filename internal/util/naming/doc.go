// Package naming provides the deterministic names vpcctl derives from a
// network name.
//
// Resources created once per network (key pair, security group) are named
// {network}-bastion, so a later run finds them again by name alone.
package naming
