// Package ec2 is the remote resource client used by the reconcilers.
//
// It wraps the AWS SDK EC2 client behind two capability groups:
//
//   - [NetworkAPI]: networks, internet gateways, route tables, subnets
//   - [ComputeAPI]: security groups, instances, elastic addresses, key pairs
//
// Resources are returned as SDK value types and are identified by provider
// id plus a Name tag. Listing operations accept [Filter]s; an empty result is
// not an error. Absence on a single-resource lookup ([RealClient.GetKeyPair],
// [RealClient.GetInstance]) is reported as a nil resource, not an error.
//
// Error classification ([IsNotFound], [IsDependencyViolation],
// [IsAlreadyExists]) inspects the smithy API error code.
package ec2
