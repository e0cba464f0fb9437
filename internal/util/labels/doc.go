// Package labels provides consistent tagging for EC2 resources.
//
// Every resource vpcctl creates carries a Name tag, which is how it is found
// again, plus vpcctl.io ownership tags identifying the network it belongs to.
package labels
