// Package infrastructure converges the networking half of a topology: the
// network itself, its internet gateway, the "public" route table with a
// default route through the gateway, and one subnet per configured subnet
// associated with that table.
//
// Every resource is looked up by its Name tag first and created only when
// absent. Existing resources are reused as found.
package infrastructure
